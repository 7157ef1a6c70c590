package ga

import (
	"fmt"

	"github.com/limaJavier/evoschedule/internal/model"
)

type ViolationKind int

const (
	TeacherDoubleBooking ViolationKind = iota
	RoomDoubleBooking
	GroupDoubleBooking
)

func (kind ViolationKind) String() string {
	switch kind {
	case TeacherDoubleBooking:
		return "teacher-double-booking"
	case RoomDoubleBooking:
		return "room-double-booking"
	case GroupDoubleBooking:
		return "group-double-booking"
	default:
		return fmt.Sprintf("unknown-violation-kind(%v)", int(kind))
	}
}

// Violation is one hard-constraint breach: the sessions at positions First and
// Second (First < Second, session order) collide in Slot on the same teacher,
// room or group.
type Violation struct {
	Kind   ViolationKind
	Slot   uint64
	First  uint64
	Second uint64
}

// Validate reports every pairwise clash of the candidate's assignments. It is
// a pure function of the candidate: the engine calls it repeatedly under
// mutation, and it may run on read-only copies from evaluation workers.
func Validate(catalog *model.Catalog, candidate *model.Candidate) []Violation {
	//** Group assignment positions by slot
	bySlot := make(map[uint64][]uint64, len(catalog.Slots))
	for position, assignment := range candidate.Assignments {
		bySlot[assignment.Slot] = append(bySlot[assignment.Slot], uint64(position))
	}

	violations := []Violation{}
	for slot := range uint64(len(catalog.Slots)) {
		positions := bySlot[slot]

		// Each offending pair yields one violation per clashing kind
		for i := 0; i < len(positions); i++ {
			for j := i + 1; j < len(positions); j++ {
				first, second := catalog.Sessions[positions[i]], catalog.Sessions[positions[j]]

				if first.Teacher == second.Teacher {
					violations = append(violations, Violation{TeacherDoubleBooking, slot, positions[i], positions[j]})
				}
				if candidate.Assignments[positions[i]].Room == candidate.Assignments[positions[j]].Room {
					violations = append(violations, Violation{RoomDoubleBooking, slot, positions[i], positions[j]})
				}
				if first.Group == second.Group {
					violations = append(violations, Violation{GroupDoubleBooking, slot, positions[i], positions[j]})
				}
			}
		}
	}

	return violations
}
