package ga

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/limaJavier/evoschedule/internal/model"
)

// testCatalog holds three sessions: math_1 and math_2 share a teacher and a
// group, physics_1 shares the group with neither but its teacher with none.
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
			{Id: "mon_2", Day: 0, Period: 1},
			{Id: "tue_1", Day: 1, Period: 0},
		},
	}
}

func TestValidateSoundness(t *testing.T) {
	t.Run("reports a teacher double-booking with its slot", func(t *testing.T) {
		// Arrange
		catalog := testCatalog()
		candidate := model.NewCandidate([]model.Assignment{
			{Slot: 1, Room: 0},
			{Slot: 1, Room: 1},
			{Slot: 0, Room: 0},
		})

		// Act
		violations := Validate(catalog, candidate)

		// Assert: math_1 and math_2 collide on both teacher and group
		teacherViolations := lo.Filter(violations, func(violation Violation, _ int) bool {
			return violation.Kind == TeacherDoubleBooking
		})
		assert.Len(t, teacherViolations, 1)
		assert.Equal(t, uint64(1), teacherViolations[0].Slot)
		assert.Equal(t, uint64(0), teacherViolations[0].First)
		assert.Equal(t, uint64(1), teacherViolations[0].Second)

		assert.True(t, lo.SomeBy(violations, func(violation Violation) bool {
			return violation.Kind == GroupDoubleBooking && violation.Slot == 1
		}))
	})

	t.Run("reports a room double-booking", func(t *testing.T) {
		catalog := testCatalog()
		candidate := model.NewCandidate([]model.Assignment{
			{Slot: 0, Room: 0},
			{Slot: 1, Room: 0},
			{Slot: 1, Room: 0},
		})

		violations := Validate(catalog, candidate)

		assert.Equal(t, []Violation{{RoomDoubleBooking, 1, 1, 2}}, violations)
	})

	t.Run("reports one violation per offending pair", func(t *testing.T) {
		// Arrange: all three sessions stacked into one slot and one room
		catalog := testCatalog()
		candidate := model.NewCandidate([]model.Assignment{
			{Slot: 2, Room: 0},
			{Slot: 2, Room: 0},
			{Slot: 2, Room: 0},
		})

		// Act
		violations := Validate(catalog, candidate)

		// Assert: three room pairs, one teacher pair, one group pair
		counts := lo.CountValuesBy(violations, func(violation Violation) ViolationKind { return violation.Kind })
		assert.Equal(t, 3, counts[RoomDoubleBooking])
		assert.Equal(t, 1, counts[TeacherDoubleBooking])
		assert.Equal(t, 1, counts[GroupDoubleBooking])
	})
}

func TestValidateCompleteness(t *testing.T) {
	// Arrange: pairwise-distinct teacher, room and group per slot
	catalog := testCatalog()
	candidate := model.NewCandidate([]model.Assignment{
		{Slot: 0, Room: 0},
		{Slot: 1, Room: 0},
		{Slot: 1, Room: 1},
	})

	// Act
	violations := Validate(catalog, candidate)

	// Assert
	assert.Empty(t, violations)
}

func TestValidateIsPure(t *testing.T) {
	// Arrange
	catalog := testCatalog()
	candidate := model.NewCandidate([]model.Assignment{
		{Slot: 1, Room: 0},
		{Slot: 1, Room: 0},
		{Slot: 0, Room: 0},
	})

	// Act
	first := Validate(catalog, candidate)
	second := Validate(catalog, candidate)

	// Assert: repeated calls agree and the candidate is untouched
	assert.Equal(t, first, second)
	assert.Equal(t, uint64(1), candidate.Assignments[0].Slot)
}
