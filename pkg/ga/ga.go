// Package ga implements the NSGA-II benchmark algorithm used to evaluate
// HACOPSO against a standard multi-objective genetic algorithm baseline.
package ga

import (
	"sort"

	"github.com/nischala755/navix-ai/internal/numeric"
	"github.com/nischala755/navix-ai/internal/rng"
	"github.com/nischala755/navix-ai/pkg/constraint"
	"github.com/nischala755/navix-ai/pkg/geodesy"
	"github.com/nischala755/navix-ai/pkg/objective"
	"github.com/nischala755/navix-ai/pkg/pareto"
)

// Config configures an Algorithm run.
type Config struct {
	PopulationSize    int
	MaxGenerations    int
	CrossoverRate     float64
	MutationRate      float64
	MutationStrength  float64
	NWaypoints        int
	TournamentSize    int
	ArchiveSize       int
}

// DefaultConfig mirrors the original benchmark's defaults.
func DefaultConfig() Config {
	return Config{
		PopulationSize:   50,
		MaxGenerations:   200,
		CrossoverRate:    0.9,
		MutationRate:     0.1,
		MutationStrength: 2.0,
		NWaypoints:       10,
		TournamentSize:   3,
		ArchiveSize:      100,
	}
}

type individual struct {
	chromosome []geodesy.LatLon
	speeds     []float64
	objectives pareto.Objectives
	rank       int
	crowding   float64
}

// GenerationStats is reported after every generation.
type GenerationStats struct {
	Generation  int
	ArchiveSize int
	FrontSize   int
}

// Solution is one archived route with its user-facing objectives and
// speed profile.
type Solution struct {
	Route      []geodesy.LatLon
	Speeds     []float64
	Objectives objective.Values
}

// Result is the outcome of an Algorithm run.
type Result struct {
	Generations int
	ArchiveSize int
	Solutions   []Solution
}

// Algorithm is an NSGA-II run for a single origin/destination pair.
type Algorithm struct {
	config      Config
	evaluator   *objective.Evaluator
	constraints *constraint.Handler
	origin      geodesy.LatLon
	destination geodesy.LatLon
	rng         *rng.Stream

	archive    *pareto.Archive[routeSolution]
	population []individual
	generation int
}

type routeSolution struct {
	route  []geodesy.LatLon
	speeds []float64
}

// New builds an NSGA-II algorithm instance.
func New(cfg Config, evaluator *objective.Evaluator, constraints *constraint.Handler, origin, destination geodesy.LatLon, stream *rng.Stream) *Algorithm {
	return &Algorithm{
		config:      cfg,
		evaluator:   evaluator,
		constraints: constraints,
		origin:      origin,
		destination: destination,
		rng:         stream,
		archive:     pareto.NewArchive[routeSolution](cfg.ArchiveSize),
	}
}

func (a *Algorithm) bounds() (latMin, latMax, lonMin, lonMax float64) {
	latMin = min(a.origin.Lat, a.destination.Lat) - 10
	latMax = max(a.origin.Lat, a.destination.Lat) + 10
	lonMin = min(a.origin.Lon, a.destination.Lon) - 10
	lonMax = max(a.origin.Lon, a.destination.Lon) + 10
	return
}

func clamp(v, lo, hi float64) float64 {
	return numeric.Clamp(v, lo, hi)
}

func (a *Algorithm) createIndividual() individual {
	latMin, latMax, lonMin, lonMax := a.bounds()
	n := a.config.NWaypoints
	chromosome := make([]geodesy.LatLon, n+2)
	chromosome[0] = a.origin
	chromosome[n+1] = a.destination

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n+1)
		lat := a.origin.Lat*(1-t) + a.destination.Lat*t + a.rng.Uniform(-5, 5)
		lon := a.origin.Lon*(1-t) + a.destination.Lon*t + a.rng.Uniform(-5, 5)
		chromosome[i] = geodesy.LatLon{
			Lat: clamp(lat, latMin, latMax),
			Lon: clamp(lon, lonMin, lonMax),
		}
	}

	speeds := make([]float64, n+1)
	service := a.evaluator.ServiceSpeed()
	minSpeed := a.evaluator.MinSpeed()
	maxSpeed := a.evaluator.MaxSpeed()
	for i := range speeds {
		speeds[i] = clamp(service+a.rng.Uniform(-2, 2), minSpeed, maxSpeed)
	}

	objValues := a.evaluator.Evaluate(chromosome, speeds)
	return individual{chromosome: chromosome, speeds: speeds, objectives: objValues.ToInternal()}
}

// InitializePopulation fills the population and assigns rank/crowding.
func (a *Algorithm) InitializePopulation() {
	a.population = make([]individual, a.config.PopulationSize)
	for i := range a.population {
		a.population[i] = a.createIndividual()
	}
	a.assignFitness(a.population)
}

func (a *Algorithm) assignFitness(pop []individual) {
	objectives := make([]pareto.Objectives, len(pop))
	for i, ind := range pop {
		objectives[i] = ind.objectives
	}
	fronts := pareto.NonDominatedSort(objectives)
	for rank, front := range fronts {
		frontObj := make([]pareto.Objectives, len(front))
		for i, idx := range front {
			frontObj[i] = objectives[idx]
		}
		distances := pareto.CrowdingDistance(frontObj)
		for i, idx := range front {
			pop[idx].rank = rank
			pop[idx].crowding = distances[i]
		}
	}
}

func (a *Algorithm) tournamentSelect() individual {
	best := -1
	tried := make(map[int]bool, a.config.TournamentSize)
	for len(tried) < a.config.TournamentSize && len(tried) < len(a.population) {
		idx := a.rng.Intn(len(a.population))
		if tried[idx] {
			continue
		}
		tried[idx] = true
		if best == -1 ||
			a.population[idx].rank < a.population[best].rank ||
			(a.population[idx].rank == a.population[best].rank && a.population[idx].crowding > a.population[best].crowding) {
			best = idx
		}
	}
	return a.population[best]
}

func copyRoute(route []geodesy.LatLon) []geodesy.LatLon {
	out := make([]geodesy.LatLon, len(route))
	copy(out, route)
	return out
}

func copySpeeds(speeds []float64) []float64 {
	out := make([]float64, len(speeds))
	copy(out, speeds)
	return out
}

func (a *Algorithm) crossover(p1, p2 individual) (individual, individual) {
	if !a.rng.Chance(a.config.CrossoverRate) {
		return individual{chromosome: copyRoute(p1.chromosome), speeds: copySpeeds(p1.speeds), objectives: p1.objectives},
			individual{chromosome: copyRoute(p2.chromosome), speeds: copySpeeds(p2.speeds), objectives: p2.objectives}
	}

	alpha := a.rng.Float64()
	n := len(p1.chromosome)
	c1Chrom := make([]geodesy.LatLon, n)
	c2Chrom := make([]geodesy.LatLon, n)
	for i := 0; i < n; i++ {
		c1Chrom[i] = geodesy.LatLon{
			Lat: alpha*p1.chromosome[i].Lat + (1-alpha)*p2.chromosome[i].Lat,
			Lon: alpha*p1.chromosome[i].Lon + (1-alpha)*p2.chromosome[i].Lon,
		}
		c2Chrom[i] = geodesy.LatLon{
			Lat: (1-alpha)*p1.chromosome[i].Lat + alpha*p2.chromosome[i].Lat,
			Lon: (1-alpha)*p1.chromosome[i].Lon + alpha*p2.chromosome[i].Lon,
		}
	}
	c1Chrom[0], c1Chrom[n-1] = a.origin, a.destination
	c2Chrom[0], c2Chrom[n-1] = a.origin, a.destination

	m := len(p1.speeds)
	c1Speeds := make([]float64, m)
	c2Speeds := make([]float64, m)
	for i := 0; i < m; i++ {
		c1Speeds[i] = alpha*p1.speeds[i] + (1-alpha)*p2.speeds[i]
		c2Speeds[i] = (1-alpha)*p1.speeds[i] + alpha*p2.speeds[i]
	}

	c1Obj := a.evaluator.Evaluate(c1Chrom, c1Speeds).ToInternal()
	c2Obj := a.evaluator.Evaluate(c2Chrom, c2Speeds).ToInternal()

	return individual{chromosome: c1Chrom, speeds: c1Speeds, objectives: c1Obj},
		individual{chromosome: c2Chrom, speeds: c2Speeds, objectives: c2Obj}
}

func (a *Algorithm) mutate(ind individual) individual {
	if !a.rng.Chance(a.config.MutationRate) {
		return ind
	}

	latMin, latMax, lonMin, lonMax := a.bounds()
	mutated := copyRoute(ind.chromosome)
	for i := 1; i < len(mutated)-1; i++ {
		if a.rng.Chance(0.3) {
			mutated[i] = geodesy.LatLon{
				Lat: clamp(mutated[i].Lat+a.rng.Normal(0, a.config.MutationStrength), latMin, latMax),
				Lon: clamp(mutated[i].Lon+a.rng.Normal(0, a.config.MutationStrength), lonMin, lonMax),
			}
		}
	}

	objValues := a.evaluator.Evaluate(mutated, ind.speeds)
	return individual{chromosome: mutated, speeds: copySpeeds(ind.speeds), objectives: objValues.ToInternal()}
}

// Evolve runs one generation: offspring generation via tournament
// selection, crossover, and mutation; elitist replacement by
// non-dominated rank and crowding distance; archive insertion of
// land-feasible rank-0 individuals.
func (a *Algorithm) Evolve() GenerationStats {
	var offspring []individual
	for len(offspring) < a.config.PopulationSize {
		p1 := a.tournamentSelect()
		p2 := a.tournamentSelect()
		c1, c2 := a.crossover(p1, p2)
		offspring = append(offspring, a.mutate(c1), a.mutate(c2))
	}
	if len(offspring) > a.config.PopulationSize {
		offspring = offspring[:a.config.PopulationSize]
	}

	combined := append(append([]individual(nil), a.population...), offspring...)
	objectives := make([]pareto.Objectives, len(combined))
	for i, ind := range combined {
		objectives[i] = ind.objectives
	}
	fronts := pareto.NonDominatedSort(objectives)

	var newPop []individual
	for _, front := range fronts {
		if len(newPop)+len(front) <= a.config.PopulationSize {
			for _, idx := range front {
				newPop = append(newPop, combined[idx])
			}
			continue
		}

		frontObj := make([]pareto.Objectives, len(front))
		for i, idx := range front {
			frontObj[i] = objectives[idx]
		}
		distances := pareto.CrowdingDistance(frontObj)

		order := make([]int, len(front))
		for i := range order {
			order[i] = i
		}
		// Stable: ties (e.g. the +Inf boundary distances every front has)
		// must break by insertion order, not sort-algorithm order.
		sort.SliceStable(order, func(i, j int) bool { return distances[order[i]] > distances[order[j]] })

		remaining := a.config.PopulationSize - len(newPop)
		for _, oi := range order[:remaining] {
			newPop = append(newPop, combined[front[oi]])
		}
		break
	}
	a.population = newPop
	a.assignFitness(a.population)

	frontSize := 0
	for _, ind := range a.population {
		if ind.rank != 0 {
			continue
		}
		frontSize++
		violations := a.constraints.CheckRoute(ind.chromosome, ind.speeds, 0, objective.FromInternal(ind.objectives).Fuel)
		if !hasLandViolation(violations) {
			a.archive.Add(routeSolution{route: copyRoute(ind.chromosome), speeds: copySpeeds(ind.speeds)}, ind.objectives, nil)
		}
	}

	a.generation++
	return GenerationStats{
		Generation:  a.generation,
		ArchiveSize: a.archive.Size(),
		FrontSize:   frontSize,
	}
}

func hasLandViolation(violations []constraint.Violation) bool {
	for _, v := range violations {
		if v.Kind == constraint.KindLand {
			return true
		}
	}
	return false
}

// Optimize runs InitializePopulation followed by MaxGenerations calls to
// Evolve, honoring cooperative cancellation via cancelled.
func (a *Algorithm) Optimize(cancelled func() bool, callback func(GenerationStats)) Result {
	a.InitializePopulation()

	for i := 0; i < a.config.MaxGenerations; i++ {
		if cancelled != nil && cancelled() {
			break
		}
		stats := a.Evolve()
		if callback != nil {
			callback(stats)
		}
	}

	solutions := make([]Solution, 0, a.archive.Size())
	for _, entry := range a.archive.All() {
		solutions = append(solutions, Solution{
			Route:      entry.Solution.route,
			Speeds:     entry.Solution.speeds,
			Objectives: objective.FromInternal(entry.Objectives),
		})
	}

	return Result{
		Generations: a.generation,
		ArchiveSize: a.archive.Size(),
		Solutions:   solutions,
	}
}
