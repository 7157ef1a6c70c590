// Package export renders a finished timetable into tabular reports. It is a
// thin formatting layer over the search's output and holds no scheduling
// logic of its own.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/limaJavier/evoschedule/internal/model"
)

// WriteCSV writes one row per session, in session order.
func WriteCSV(w io.Writer, catalog *model.Catalog, candidate *model.Candidate) error {
	if err := candidate.CheckIntegrity(catalog); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"session_id", "course", "group", "timeslot", "room", "teacher"}); err != nil {
		return err
	}

	for position, assignment := range candidate.Assignments {
		session := catalog.Sessions[position]
		record := []string{
			session.Id,
			session.Course,
			catalog.Groups[session.Group].Id,
			catalog.Slots[assignment.Slot].Id,
			catalog.Rooms[assignment.Room].Id,
			catalog.Teachers[session.Teacher].Id,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// QualityReport aggregates schedule-quality facts of one candidate: how many
// lectures each group averages per active day, how many lectures each teacher
// carries, and how many idle periods sit inside each teacher's days.
type QualityReport struct {
	GroupAveragePerDay map[string]float64
	TeacherLoad        map[string]uint64
	TeacherGaps        map[string]uint64
}

func BuildReport(catalog *model.Catalog, candidate *model.Candidate) (QualityReport, error) {
	if err := candidate.CheckIntegrity(catalog); err != nil {
		return QualityReport{}, err
	}

	report := QualityReport{
		GroupAveragePerDay: make(map[string]float64),
		TeacherLoad:        make(map[string]uint64),
		TeacherGaps:        make(map[string]uint64),
	}

	groupPerDay := make(map[string]map[uint64]uint64)
	teacherPeriods := make(map[string]map[uint64][]uint64)

	for position, assignment := range candidate.Assignments {
		session := catalog.Sessions[position]
		slot := catalog.Slots[assignment.Slot]
		group := catalog.Groups[session.Group].Id
		teacher := catalog.Teachers[session.Teacher].Id

		if groupPerDay[group] == nil {
			groupPerDay[group] = make(map[uint64]uint64)
		}
		groupPerDay[group][slot.Day]++

		if teacherPeriods[teacher] == nil {
			teacherPeriods[teacher] = make(map[uint64][]uint64)
		}
		teacherPeriods[teacher][slot.Day] = append(teacherPeriods[teacher][slot.Day], slot.Period)

		report.TeacherLoad[teacher]++
	}

	for group, byDay := range groupPerDay {
		total := uint64(0)
		for _, count := range byDay {
			total += count
		}
		report.GroupAveragePerDay[group] = float64(total) / float64(len(byDay))
	}

	for teacher, byDay := range teacherPeriods {
		gaps := uint64(0)
		for _, periods := range byDay {
			gaps += model.SpanGaps(periods)
		}
		report.TeacherGaps[teacher] = gaps
	}

	return report, nil
}

// WriteReport prints the quality report in a fixed, readable order.
func WriteReport(w io.Writer, catalog *model.Catalog, report QualityReport) error {
	if _, err := fmt.Fprintln(w, "Average lectures per day (group-wise):"); err != nil {
		return err
	}
	for _, group := range catalog.Groups {
		if average, ok := report.GroupAveragePerDay[group.Id]; ok {
			fmt.Fprintf(w, "  %v: %.2f\n", group.Id, average)
		}
	}

	fmt.Fprintln(w, "Teacher workload:")
	for _, teacher := range catalog.Teachers {
		if load, ok := report.TeacherLoad[teacher.Id]; ok {
			fmt.Fprintf(w, "  %v: %v lectures\n", teacher.Id, load)
		}
	}

	fmt.Fprintln(w, "Teacher idle gaps:")
	for _, teacher := range catalog.Teachers {
		if _, ok := report.TeacherLoad[teacher.Id]; ok {
			fmt.Fprintf(w, "  %v: %v\n", teacher.Id, report.TeacherGaps[teacher.Id])
		}
	}

	return nil
}
