package model

import (
	"fmt"
	"slices"
)

// Assignment places one session into a (slot, room) pair. Positions inside a
// candidate are indexed by session order, which is fixed across the whole
// population so crossover alignment is well-defined.
type Assignment struct {
	Slot uint64
	Room uint64
}

// Candidate is one complete proposed timetable: one assignment per catalog
// session. The fitness score is cached until any assignment changes.
type Candidate struct {
	Assignments []Assignment

	score  float64
	scored bool
}

func NewCandidate(assignments []Assignment) *Candidate {
	return &Candidate{Assignments: assignments}
}

func (candidate *Candidate) Clone() *Candidate {
	return &Candidate{
		Assignments: slices.Clone(candidate.Assignments),
		score:       candidate.score,
		scored:      candidate.scored,
	}
}

// CachedScore returns the cached fitness score and whether it is valid.
func (candidate *Candidate) CachedScore() (float64, bool) {
	return candidate.score, candidate.scored
}

func (candidate *Candidate) SetScore(score float64) {
	candidate.score = score
	candidate.scored = true
}

// Invalidate must be called whenever an assignment is mutated in place, so
// that stale scores are never read.
func (candidate *Candidate) Invalidate() {
	candidate.scored = false
}

// CheckIntegrity verifies the candidate covers every catalog session exactly
// once and that every assignment stays inside the slot and room domains. A
// failure here indicates an engine bug, not a data issue.
func (candidate *Candidate) CheckIntegrity(catalog *Catalog) error {
	if len(candidate.Assignments) != len(catalog.Sessions) {
		return fmt.Errorf("malformed candidate: %v assignments for %v sessions",
			len(candidate.Assignments), len(catalog.Sessions))
	}
	for i, assignment := range candidate.Assignments {
		if assignment.Slot >= uint64(len(catalog.Slots)) {
			return fmt.Errorf("malformed candidate: session %v assigned to unknown slot %v",
				catalog.Sessions[i].Id, assignment.Slot)
		}
		if assignment.Room >= uint64(len(catalog.Rooms)) {
			return fmt.Errorf("malformed candidate: session %v assigned to unknown room %v",
				catalog.Sessions[i].Id, assignment.Room)
		}
	}
	return nil
}
