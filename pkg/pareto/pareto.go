// Package pareto implements dominance, non-dominated sorting, crowding
// distance, and a bounded archive shared by the HACOPSO engine and the
// NSGA-II benchmark.
package pareto

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Objectives is the internal, all-minimize form of a solution's five
// objective values: fuel, time, risk, emissions, and (1 - comfort).
type Objectives [5]float64

const (
	ObjFuel = iota
	ObjTime
	ObjRisk
	ObjEmissions
	ObjDiscomfort
)

// Dominates reports whether a Pareto-dominates b: at least as good in
// every objective and strictly better in at least one.
func Dominates(a, b Objectives) bool {
	strictlyBetter := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}

// CrowdingDistance returns the crowding distance of each member of front.
// Fronts of size 0, 1, or 2 get infinite distance for every member;
// boundary solutions per objective always get infinite distance; objective
// dimensions with near-zero range are skipped to avoid dividing by ~0.
func CrowdingDistance(front []Objectives) []float64 {
	n := len(front)
	distances := make([]float64, n)
	if n <= 2 {
		for i := range distances {
			distances[i] = math.Inf(1)
		}
		return distances
	}

	numObjectives := len(Objectives{})
	order := make([]int, n)
	values := make([]float64, n)

	for m := 0; m < numObjectives; m++ {
		for i := range order {
			order[i] = i
			values[i] = front[i][m]
		}
		sort.Slice(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

		distances[order[0]] = math.Inf(1)
		distances[order[n-1]] = math.Inf(1)

		objRange := values[order[n-1]] - values[order[0]]
		if objRange < 1e-10 {
			continue
		}

		for i := 1; i < n-1; i++ {
			distances[order[i]] += (values[order[i+1]] - values[order[i-1]]) / objRange
		}
	}

	return distances
}

// NonDominatedSort partitions the given objectives into fronts (NSGA-II
// style): front 0 is non-dominated, front 1 is dominated only by front 0,
// and so on. Each front is a list of indices into objectives.
func NonDominatedSort(objectives []Objectives) [][]int {
	n := len(objectives)
	if n == 0 {
		return nil
	}

	dominationCount := make([]int, n)
	dominatedBy := make([][]int, n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch {
			case Dominates(objectives[i], objectives[j]):
				dominatedBy[i] = append(dominatedBy[i], j)
				dominationCount[j]++
			case Dominates(objectives[j], objectives[i]):
				dominatedBy[j] = append(dominatedBy[j], i)
				dominationCount[i]++
			}
		}
	}

	var fronts [][]int
	current := make([]int, 0)
	for i := 0; i < n; i++ {
		if dominationCount[i] == 0 {
			current = append(current, i)
		}
	}

	for len(current) > 0 {
		fronts = append(fronts, current)
		var next []int
		for _, i := range current {
			for _, j := range dominatedBy[i] {
				dominationCount[j]--
				if dominationCount[j] == 0 {
					next = append(next, j)
				}
			}
		}
		current = next
	}

	return fronts
}

// Entry is one archived solution: the route/speed representation is left
// generic (Solution, opaque to this package) alongside its Objectives and
// optional metadata.
type Entry[S any] struct {
	Solution   S
	Objectives Objectives
	Metadata   map[string]any
}

// Archive is a bounded, diversity-preserving store of non-dominated
// solutions.
type Archive[S any] struct {
	maxSize int
	entries []Entry[S]
}

// NewArchive creates an archive that keeps at most maxSize entries.
func NewArchive[S any](maxSize int) *Archive[S] {
	return &Archive[S]{maxSize: maxSize}
}

// Add attempts to insert a candidate. It returns false if the candidate is
// dominated by an existing archive member; otherwise it inserts the
// candidate, prunes any archive members the candidate dominates, and
// truncates via crowding distance if the archive has grown past maxSize.
func (a *Archive[S]) Add(solution S, objectives Objectives, metadata map[string]any) bool {
	for _, e := range a.entries {
		if Dominates(e.Objectives, objectives) {
			return false
		}
	}

	kept := a.entries[:0:0]
	for _, e := range a.entries {
		if !Dominates(objectives, e.Objectives) {
			kept = append(kept, e)
		}
	}
	kept = append(kept, Entry[S]{Solution: solution, Objectives: objectives, Metadata: metadata})
	a.entries = kept

	if len(a.entries) > a.maxSize {
		a.truncate()
	}
	return true
}

func (a *Archive[S]) truncate() {
	if len(a.entries) <= a.maxSize {
		return
	}

	objs := make([]Objectives, len(a.entries))
	for i, e := range a.entries {
		objs[i] = e.Objectives
	}
	distances := CrowdingDistance(objs)

	idx := make([]int, len(a.entries))
	for i := range idx {
		idx[i] = i
	}
	// Stable: ties (e.g. the +Inf boundary distances every front has) must
	// break by insertion order, not sort-algorithm order.
	sort.SliceStable(idx, func(i, j int) bool { return distances[idx[i]] > distances[idx[j]] })
	idx = idx[:a.maxSize]

	kept := make([]Entry[S], a.maxSize)
	for i, k := range idx {
		kept[i] = a.entries[k]
	}
	a.entries = kept
}

// BestOn returns the archived entry with the smallest value on the given
// objective dimension, or false if the archive is empty.
func (a *Archive[S]) BestOn(dim int) (Entry[S], bool) {
	if len(a.entries) == 0 {
		var zero Entry[S]
		return zero, false
	}
	best := 0
	for i := 1; i < len(a.entries); i++ {
		if a.entries[i].Objectives[dim] < a.entries[best].Objectives[dim] {
			best = i
		}
	}
	return a.entries[best], true
}

// Compromise returns the archived entry minimizing the weighted sum of
// min-max normalized objectives, or false if the archive is empty.
func (a *Archive[S]) Compromise(weights Objectives) (Entry[S], bool) {
	if len(a.entries) == 0 {
		var zero Entry[S]
		return zero, false
	}

	numObjectives := len(Objectives{})
	mins := make([]float64, numObjectives)
	maxs := make([]float64, numObjectives)
	for m := 0; m < numObjectives; m++ {
		mins[m] = math.Inf(1)
		maxs[m] = math.Inf(-1)
	}
	for _, e := range a.entries {
		for m := 0; m < numObjectives; m++ {
			mins[m] = math.Min(mins[m], e.Objectives[m])
			maxs[m] = math.Max(maxs[m], e.Objectives[m])
		}
	}
	ranges := make([]float64, numObjectives)
	for m := 0; m < numObjectives; m++ {
		r := maxs[m] - mins[m]
		if r < 1e-10 {
			r = 1
		}
		ranges[m] = r
	}

	best := 0
	bestScore := math.Inf(1)
	normalized := make([]float64, numObjectives)
	w := weights[:]
	for i, e := range a.entries {
		for m := 0; m < numObjectives; m++ {
			normalized[m] = (e.Objectives[m] - mins[m]) / ranges[m]
		}
		score := floats.Dot(normalized, w)
		if score < bestScore {
			bestScore = score
			best = i
		}
	}
	return a.entries[best], true
}

// All returns every archived entry.
func (a *Archive[S]) All() []Entry[S] {
	return a.entries
}

// Size returns the current number of archived entries.
func (a *Archive[S]) Size() int {
	return len(a.entries)
}

// Clear empties the archive.
func (a *Archive[S]) Clear() {
	a.entries = nil
}

// Diagnostics summarizes the archive's spread across objective space,
// supplementing the original archive with the quality metrics the
// teacher's optimizer reports (spacing and spread) but the original engine
// does not compute.
type Diagnostics struct {
	Spacing float64
	Spread  float64
}

// Diagnostics computes Spacing (standard deviation of nearest-neighbor
// distances in objective space — lower is more evenly distributed) and
// Spread (the raw, unnormalized max-minus-min range of each objective,
// summed; objectives with an infinite bound are skipped).
// Both are 0 for fewer than 2 entries.
func (a *Archive[S]) Diagnostics() Diagnostics {
	n := len(a.entries)
	if n < 2 {
		return Diagnostics{}
	}

	objs := make([]Objectives, n)
	for i, e := range a.entries {
		objs[i] = e.Objectives
	}

	nearest := make([]float64, n)
	for i := range objs {
		min := math.Inf(1)
		for j := range objs {
			if i == j {
				continue
			}
			d := objectiveDistance(objs[i], objs[j])
			if d < min {
				min = d
			}
		}
		nearest[i] = min
	}
	mean := floats.Sum(nearest) / float64(n)
	var variance float64
	for _, d := range nearest {
		variance += (d - mean) * (d - mean)
	}
	spacing := math.Sqrt(variance / float64(n))

	numObjectives := len(Objectives{})
	var spread float64
	for m := 0; m < numObjectives; m++ {
		min, max := math.Inf(1), math.Inf(-1)
		for _, o := range objs {
			min = math.Min(min, o[m])
			max = math.Max(max, o[m])
		}
		if math.IsInf(min, 0) || math.IsInf(max, 0) {
			continue
		}
		spread += max - min
	}

	return Diagnostics{Spacing: spacing, Spread: spread}
}

func objectiveDistance(a, b Objectives) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
