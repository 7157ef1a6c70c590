package ga

import (
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"

	"github.com/limaJavier/evoschedule/internal/model"
)

// repairRooms resolves room double-bookings slot by slot: the sessions placed
// in a clashing slot are re-matched onto pairwise-distinct rooms through a
// maximum bipartite matching, preferring rooms that fit the session's size.
// Slots whose sessions outnumber the rooms stay partially clashed; the search
// handles the remainder through the hard penalty. The repair is deterministic
// and touches only the room half of assignments.
func repairRooms(catalog *model.Catalog, candidate *model.Candidate) {
	bySlot := make(map[uint64][]uint64, len(catalog.Slots))
	for position, assignment := range candidate.Assignments {
		bySlot[assignment.Slot] = append(bySlot[assignment.Slot], uint64(position))
	}

	repaired := false
	for slot := range uint64(len(catalog.Slots)) {
		positions := bySlot[slot]
		if len(positions) < 2 || !hasRoomClash(candidate, positions) {
			continue
		}

		assignments, err := matchRooms(catalog, positions)
		if err != nil || len(assignments) < len(positions) {
			continue // not fully assignable, leave the slot to the penalty
		}

		for _, assignment := range assignments {
			position, room := assignment[0], assignment[1]
			if candidate.Assignments[position].Room != room {
				candidate.Assignments[position].Room = room
				repaired = true
			}
		}
	}

	if repaired {
		candidate.Invalidate()
	}
}

func hasRoomClash(candidate *model.Candidate, positions []uint64) bool {
	seen := make(map[uint64]bool, len(positions))
	for _, position := range positions {
		room := candidate.Assignments[position].Room
		if seen[room] {
			return true
		}
		seen[room] = true
	}
	return false
}

// matchRooms computes a maximum matching between the given session positions
// and the catalog's rooms. An edge requires the room to fit the session's
// expected size, except for sessions that fit no room at all, which may take
// any room (capacity is a soft concern, clashes are the hard one).
func matchRooms(catalog *model.Catalog, positions []uint64) ([][2]uint64, error) {
	fitsSomewhere := func(size uint64) bool {
		return lo.SomeBy(catalog.Rooms, func(room model.Room) bool { return size <= room.Capacity })
	}

	neighbors := func(positionAny any, roomAny any) (bool, error) {
		position := positionAny.(uint64)
		room := roomAny.(uint64)

		size := catalog.Sessions[position].Size
		return size <= catalog.Rooms[room].Capacity || !fitsSomewhere(size), nil
	}

	rooms := lo.Range(len(catalog.Rooms))
	positionsAny := lo.Map(positions, func(position uint64, _ int) any { return position })
	roomsAny := lo.Map(rooms, func(room int, _ int) any { return uint64(room) })

	graph, err := bipartitegraph.NewBipartiteGraph(positionsAny, roomsAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()

	assignments := make([][2]uint64, 0, len(matching))
	for _, edge := range matching {
		position, room := positions[edge.Node1], uint64(rooms[edge.Node2-len(positions)])
		assignments = append(assignments, [2]uint64{position, room})
	}
	return assignments, nil
}
