package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Session is an atomic unit of teaching: one lecture occurrence of a course,
// taught by a fixed teacher to a fixed student group. Sessions are immutable
// and built once per run from the catalog input.
type Session struct {
	Id      string
	Course  string
	Teacher uint64 // index into Catalog.Teachers
	Group   uint64 // index into Catalog.Groups
	Size    uint64
}

// Slot is a (day, period) pair from a fixed finite domain, totally ordered by
// day then period.
type Slot struct {
	Id     string
	Day    uint64
	Period uint64
}

type Room struct {
	Id       string
	Capacity uint64
}

type Teacher struct {
	Id        string
	Available []bool // per slot index; nil means always available
	Preferred []bool // per slot index; nil means no declared preference
}

type Group struct {
	Id       string
	Students uint64
}

// Catalog is the read-only fact base the search engine runs against.
type Catalog struct {
	Sessions []Session
	Teachers []Teacher
	Groups   []Group
	Rooms    []Room
	Slots    []Slot
}

func (catalog *Catalog) Days() uint64 {
	days := uint64(0)
	for _, slot := range catalog.Slots {
		days = max(days, slot.Day+1)
	}
	return days
}

func (catalog *Catalog) PeriodsPerDay() uint64 {
	periods := uint64(0)
	for _, slot := range catalog.Slots {
		periods = max(periods, slot.Period+1)
	}
	return periods
}

// SpanGaps counts the idle periods between the first and last occupied
// period of one day. Double-booked periods count once; the clash itself is
// the validator's concern.
func SpanGaps(periods []uint64) uint64 {
	occupied := make(map[uint64]bool, len(periods))
	first, last := periods[0], periods[0]
	for _, period := range periods {
		occupied[period] = true
		first, last = min(first, period), max(last, period)
	}
	return last - first + 1 - uint64(len(occupied))
}

type Preprocessor interface {
	BuildCatalog(input CatalogInput) (*Catalog, error)
}

func NewPreprocessor() Preprocessor {
	return &preprocessorImplementation{}
}

type preprocessorImplementation struct{}

func (preprocessor *preprocessorImplementation) BuildCatalog(input CatalogInput) (*Catalog, error) {
	if len(input.Courses) == 0 {
		return nil, fmt.Errorf("catalog input contains no courses")
	} else if len(input.Teachers) == 0 {
		return nil, fmt.Errorf("catalog input contains no teachers")
	} else if len(input.Rooms) == 0 {
		return nil, fmt.Errorf("catalog input contains no rooms")
	} else if len(input.Slots) == 0 {
		return nil, fmt.Errorf("catalog input contains no slots")
	}

	catalog := &Catalog{}

	//** Slots: sort by (day, period) so the domain is totally ordered
	slots := slices.Clone(input.Slots)
	slices.SortFunc(slots, func(a, b SlotSpec) int {
		if a.Day != b.Day {
			return int(a.Day) - int(b.Day)
		}
		return int(a.Period) - int(b.Period)
	})
	slotIndices := make(map[string]uint64, len(slots))
	for i, slot := range slots {
		if _, ok := slotIndices[slot.Id]; ok {
			return nil, fmt.Errorf("duplicated slot %v", slot.Id)
		}
		slotIndices[slot.Id] = uint64(i)
		catalog.Slots = append(catalog.Slots, Slot{Id: slot.Id, Day: slot.Day, Period: slot.Period})
	}

	//** Rooms
	roomIndices := make(map[string]uint64, len(input.Rooms))
	for i, room := range input.Rooms {
		if _, ok := roomIndices[room.Id]; ok {
			return nil, fmt.Errorf("duplicated room %v", room.Id)
		}
		roomIndices[room.Id] = uint64(i)
		catalog.Rooms = append(catalog.Rooms, Room{Id: room.Id, Capacity: room.Capacity})
	}

	//** Teachers: availability and preference matrices are indexed by slot
	teacherIndices := make(map[string]uint64, len(input.Teachers))
	qualifications := make(map[string][]uint64) // course -> qualified teacher indices
	for i, teacher := range input.Teachers {
		if _, ok := teacherIndices[teacher.Id]; ok {
			return nil, fmt.Errorf("duplicated teacher %v", teacher.Id)
		}
		teacherIndices[teacher.Id] = uint64(i)

		available, err := slotMask(teacher.Available, slotIndices, teacher.Id)
		if err != nil {
			return nil, err
		}
		preferred, err := slotMask(teacher.Preferred, slotIndices, teacher.Id)
		if err != nil {
			return nil, err
		}

		catalog.Teachers = append(catalog.Teachers, Teacher{
			Id:        teacher.Id,
			Available: available,
			Preferred: preferred,
		})
		for _, course := range teacher.Qualified {
			qualifications[course] = append(qualifications[course], uint64(i))
		}
	}

	//** Groups
	groupIndices := make(map[string]uint64, len(input.Groups))
	for i, group := range input.Groups {
		if _, ok := groupIndices[group.Id]; ok {
			return nil, fmt.Errorf("duplicated group %v", group.Id)
		}
		groupIndices[group.Id] = uint64(i)
		catalog.Groups = append(catalog.Groups, Group{Id: group.Id, Students: group.Students})
	}

	//** Sessions: one per lecture occurrence, teacher resolved deterministically
	teacherLoad := make([]uint64, len(catalog.Teachers))
	for _, course := range input.Courses {
		group, ok := groupIndices[course.Group]
		if !ok {
			return nil, fmt.Errorf("course %v references unknown group %v", course.Id, course.Group)
		}

		teacher, err := resolveTeacher(course, teacherIndices, qualifications, teacherLoad)
		if err != nil {
			return nil, err
		}
		teacherLoad[teacher] += course.LecturesPerWeek

		for i := range course.LecturesPerWeek {
			catalog.Sessions = append(catalog.Sessions, Session{
				Id:      fmt.Sprintf("%v_%v", course.Id, i+1),
				Course:  course.Id,
				Teacher: teacher,
				Group:   group,
				Size:    course.ExpectedSize,
			})
		}
	}

	if len(catalog.Sessions) == 0 {
		return nil, fmt.Errorf("catalog input expands to zero sessions")
	}
	return catalog, nil
}

// resolveTeacher picks the course's explicit teacher when declared, otherwise
// the least-loaded qualified teacher (ties broken by input order) so that the
// expansion is deterministic.
func resolveTeacher(
	course Course,
	teacherIndices map[string]uint64,
	qualifications map[string][]uint64,
	teacherLoad []uint64,
) (uint64, error) {
	if course.Teacher != "" {
		teacher, ok := teacherIndices[course.Teacher]
		if !ok {
			return 0, fmt.Errorf("course %v references unknown teacher %v", course.Id, course.Teacher)
		}
		return teacher, nil
	}

	qualified := qualifications[course.Id]
	if len(qualified) == 0 {
		return 0, fmt.Errorf("no teacher is qualified for course %v", course.Id)
	}

	return lo.MinBy(qualified, func(a, b uint64) bool {
		return teacherLoad[a] < teacherLoad[b]
	}), nil
}

func slotMask(slotIds []string, slotIndices map[string]uint64, teacherId string) ([]bool, error) {
	if len(slotIds) == 0 {
		return nil, nil
	}
	mask := make([]bool, len(slotIndices))
	for _, id := range slotIds {
		index, ok := slotIndices[id]
		if !ok {
			return nil, fmt.Errorf("teacher %v references unknown slot %v", teacherId, id)
		}
		mask[index] = true
	}
	return mask, nil
}
