package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/limaJavier/evoschedule/internal/model"
)

func testCatalog() *model.Catalog {
	return &model.Catalog{
		Sessions: []model.Session{
			{Id: "math_1", Course: "math", Teacher: 0, Group: 0, Size: 20},
			{Id: "math_2", Course: "math", Teacher: 0, Group: 0, Size: 20},
			{Id: "physics_1", Course: "physics", Teacher: 1, Group: 1, Size: 15},
		},
		Teachers: []model.Teacher{{Id: "turing"}, {Id: "curie"}},
		Groups:   []model.Group{{Id: "g1", Students: 20}, {Id: "g2", Students: 15}},
		Rooms:    []model.Room{{Id: "r1", Capacity: 30}, {Id: "r2", Capacity: 20}},
		Slots: []model.Slot{
			{Id: "mon_1", Day: 0, Period: 0},
			{Id: "mon_3", Day: 0, Period: 2},
			{Id: "tue_1", Day: 1, Period: 0},
		},
	}
}

func testCandidate() *model.Candidate {
	return model.NewCandidate([]model.Assignment{
		{Slot: 0, Room: 0},
		{Slot: 1, Room: 0},
		{Slot: 2, Room: 1},
	})
}

func TestWriteCSV(t *testing.T) {
	t.Run("writes one row per session in session order", func(t *testing.T) {
		// Arrange
		var buffer bytes.Buffer

		// Act
		err := WriteCSV(&buffer, testCatalog(), testCandidate())

		// Assert
		assert.NoError(t, err)
		records, err := csv.NewReader(&buffer).ReadAll()
		assert.NoError(t, err)
		assert.Equal(t, [][]string{
			{"session_id", "course", "group", "timeslot", "room", "teacher"},
			{"math_1", "math", "g1", "mon_1", "r1", "turing"},
			{"math_2", "math", "g1", "mon_3", "r1", "turing"},
			{"physics_1", "physics", "g2", "tue_1", "r2", "curie"},
		}, records)
	})

	t.Run("rejects malformed candidates", func(t *testing.T) {
		var buffer bytes.Buffer
		candidate := model.NewCandidate([]model.Assignment{{Slot: 0, Room: 0}})

		assert.Error(t, WriteCSV(&buffer, testCatalog(), candidate))
	})
}

func TestBuildReport(t *testing.T) {
	// Act
	report, err := BuildReport(testCatalog(), testCandidate())

	// Assert
	assert.NoError(t, err)

	// g1 has two lectures on its single active day, g2 one
	assert.Equal(t, 2.0, report.GroupAveragePerDay["g1"])
	assert.Equal(t, 1.0, report.GroupAveragePerDay["g2"])

	assert.Equal(t, uint64(2), report.TeacherLoad["turing"])
	assert.Equal(t, uint64(1), report.TeacherLoad["curie"])

	// turing teaches monday periods 0 and 2, leaving period 1 idle
	assert.Equal(t, uint64(1), report.TeacherGaps["turing"])
	assert.Equal(t, uint64(0), report.TeacherGaps["curie"])
}

func TestWriteReport(t *testing.T) {
	// Arrange
	catalog := testCatalog()
	report, err := BuildReport(catalog, testCandidate())
	assert.NoError(t, err)

	var buffer bytes.Buffer

	// Act
	assert.NoError(t, WriteReport(&buffer, catalog, report))

	// Assert
	output := buffer.String()
	assert.Contains(t, output, "g1: 2.00")
	assert.Contains(t, output, "turing: 2 lectures")
	assert.Contains(t, output, "turing: 1")
	assert.True(t, strings.HasPrefix(output, "Average lectures per day"))
}
