package ga

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/limaJavier/evoschedule/internal/model"
)

// Built-in soft metric names. Weights for these are read from
// Config.SoftWeights; an absent entry weighs the metric at zero.
const (
	MetricGaps         = "gaps"
	MetricBalance      = "balance"
	MetricPreference   = "preference"
	MetricAvailability = "availability"
	MetricCapacity     = "capacity"
)

// Metric scores one soft-constraint aspect of a candidate into [0, 1], higher
// is better. Metrics must be pure functions of the candidate's assignments.
type Metric func(catalog *model.Catalog, candidate *model.Candidate) float64

type weightedMetric struct {
	name   string
	weight float64
	metric Metric
}

// Evaluator composes the hard-penalty term with a registry of named soft
// metrics: score = -hardWeight*|violations| + Σ weight_i*metric_i. Higher is
// better; this convention is shared with selection and termination.
type Evaluator struct {
	catalog    *model.Catalog
	hardWeight float64
	weights    map[string]float64
	metrics    []weightedMetric
}

func NewEvaluator(catalog *model.Catalog, hardWeight float64, softWeights map[string]float64) *Evaluator {
	evaluator := &Evaluator{
		catalog:    catalog,
		hardWeight: hardWeight,
		weights:    softWeights,
	}

	evaluator.Register(MetricGaps, gapsMetric)
	evaluator.Register(MetricBalance, balanceMetric)
	evaluator.Register(MetricPreference, preferenceMetric)
	evaluator.Register(MetricAvailability, availabilityMetric)
	evaluator.Register(MetricCapacity, capacityMetric)

	return evaluator
}

// Register adds a named metric weighted by the evaluator's configuration.
// Metrics whose name carries no configured weight are skipped entirely.
func (evaluator *Evaluator) Register(name string, metric Metric) {
	weight, ok := evaluator.weights[name]
	if !ok || weight == 0 {
		return
	}
	evaluator.metrics = append(evaluator.metrics, weightedMetric{name: name, weight: weight, metric: metric})
}

func (evaluator *Evaluator) Score(candidate *model.Candidate) float64 {
	score := -evaluator.hardWeight * float64(len(Validate(evaluator.catalog, candidate)))
	for _, entry := range evaluator.metrics {
		value := entry.metric(evaluator.catalog, candidate)
		if math.IsNaN(value) || value < 0 || value > 1 {
			panic(fmt.Sprintf("metric %v returned %v outside [0,1]", entry.name, value))
		}
		score += entry.weight * value
	}
	return score
}

// Breakdown reports each registered metric's raw value, for reporting and
// tuning. It carries no weighting.
func (evaluator *Evaluator) Breakdown(candidate *model.Candidate) map[string]float64 {
	breakdown := make(map[string]float64, len(evaluator.metrics))
	for _, entry := range evaluator.metrics {
		breakdown[entry.name] = entry.metric(evaluator.catalog, candidate)
	}
	return breakdown
}

// gapsMetric penalizes idle periods between a teacher's (and a group's)
// sessions within one day. With zero gaps it returns 1; it decays with the
// ratio of gap periods to scheduled sessions.
func gapsMetric(catalog *model.Catalog, candidate *model.Candidate) float64 {
	type dayKey struct {
		entity uint64
		day    uint64
	}

	teacherPeriods := make(map[dayKey][]uint64)
	groupPeriods := make(map[dayKey][]uint64)
	for position, assignment := range candidate.Assignments {
		session := catalog.Sessions[position]
		slot := catalog.Slots[assignment.Slot]
		teacherPeriods[dayKey{session.Teacher, slot.Day}] = append(teacherPeriods[dayKey{session.Teacher, slot.Day}], slot.Period)
		groupPeriods[dayKey{session.Group, slot.Day}] = append(groupPeriods[dayKey{session.Group, slot.Day}], slot.Period)
	}

	gaps, sessions := uint64(0), uint64(0)
	for _, byDay := range []map[dayKey][]uint64{teacherPeriods, groupPeriods} {
		for _, periods := range byDay {
			gaps += model.SpanGaps(periods)
			sessions += uint64(len(periods))
		}
	}

	if sessions == 0 {
		return 1
	}
	return float64(sessions) / float64(sessions+gaps)
}

// balanceMetric rewards spreading each group's sessions evenly across the
// week. It maps the average per-group variance of sessions-per-day through
// 1/(1+v), so perfectly even schedules score 1.
func balanceMetric(catalog *model.Catalog, candidate *model.Candidate) float64 {
	if len(catalog.Groups) == 0 || catalog.Days() == 0 {
		return 1
	}

	perDay := make([][]float64, len(catalog.Groups))
	for group := range perDay {
		perDay[group] = make([]float64, catalog.Days())
	}
	for position, assignment := range candidate.Assignments {
		session := catalog.Sessions[position]
		perDay[session.Group][catalog.Slots[assignment.Slot].Day]++
	}

	total := 0.0
	for _, counts := range perDay {
		// population variance: single-day catalogs must yield 0, not NaN
		total += stat.PopVariance(counts, nil)
	}
	average := total / float64(len(perDay))

	return 1 / (1 + average)
}

// preferenceMetric is the fraction of assignments landing in the session
// teacher's preferred slots, over the sessions whose teacher declared any
// preference at all.
func preferenceMetric(catalog *model.Catalog, candidate *model.Candidate) float64 {
	matched, declared := 0, 0
	for position, assignment := range candidate.Assignments {
		preferred := catalog.Teachers[catalog.Sessions[position].Teacher].Preferred
		if preferred == nil {
			continue
		}
		declared++
		if preferred[assignment.Slot] {
			matched++
		}
	}
	if declared == 0 {
		return 1
	}
	return float64(matched) / float64(declared)
}

// availabilityMetric is the fraction of assignments landing inside the
// session teacher's declared availability. Teachers without a declared
// availability are treated as always available.
func availabilityMetric(catalog *model.Catalog, candidate *model.Candidate) float64 {
	available := 0
	for position, assignment := range candidate.Assignments {
		mask := catalog.Teachers[catalog.Sessions[position].Teacher].Available
		if mask == nil || mask[assignment.Slot] {
			available++
		}
	}
	return float64(available) / float64(len(candidate.Assignments))
}

// capacityMetric is the fraction of assignments whose room fits the session's
// expected class size.
func capacityMetric(catalog *model.Catalog, candidate *model.Candidate) float64 {
	fitting := 0
	for position, assignment := range candidate.Assignments {
		if catalog.Sessions[position].Size <= catalog.Rooms[assignment.Room].Capacity {
			fitting++
		}
	}
	return float64(fitting) / float64(len(candidate.Assignments))
}
