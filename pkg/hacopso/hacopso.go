// Package hacopso implements the Hybrid Adaptive Chaotic Opposition-based
// Particle Swarm Optimization engine: chaotic inertia weighting, opposition
// -based learning under stagnation, and an archive-guided leader selection
// over the Pareto front.
package hacopso

import (
	"math"

	"go.uber.org/zap"

	"github.com/nischala755/navix-ai/internal/numeric"
	"github.com/nischala755/navix-ai/internal/rng"
	"github.com/nischala755/navix-ai/pkg/constraint"
	"github.com/nischala755/navix-ai/pkg/geodesy"
	"github.com/nischala755/navix-ai/pkg/objective"
	"github.com/nischala755/navix-ai/pkg/pareto"
)

// ChaosType selects the chaotic map used to perturb the inertia weight.
type ChaosType int

const (
	ChaosLogistic ChaosType = iota
	ChaosTent
	ChaosSinusoidal
)

// Config configures a HACOPSO run.
type Config struct {
	SwarmSize       int
	MaxIterations   int
	ArchiveSize     int
	WMax            float64
	WMin            float64
	C1              float64
	C2              float64
	VMaxLat         float64
	VMaxLon         float64
	OppositionRate  float64
	ChaosType       ChaosType
	NWaypoints      int
	StagnationLimit int
}

// DefaultConfig mirrors the original engine's defaults.
func DefaultConfig() Config {
	return Config{
		SwarmSize:       50,
		MaxIterations:   200,
		ArchiveSize:     100,
		WMax:            0.9,
		WMin:            0.4,
		C1:              2.0,
		C2:              2.0,
		VMaxLat:         2.0,
		VMaxLon:         2.0,
		OppositionRate:  0.3,
		ChaosType:       ChaosLogistic,
		NWaypoints:      10,
		StagnationLimit: 20,
	}
}

// particle is one swarm member: a candidate route with per-leg speeds, a
// velocity in waypoint space, and its personal-best record.
type particle struct {
	position []geodesy.LatLon
	velocity []velocityVec
	speeds   []float64

	personalBest    []geodesy.LatLon
	personalBestObj pareto.Objectives
	fitness         float64
}

type velocityVec struct {
	dLat, dLon float64
}

// IterationStats is reported to the optional per-iteration callback.
type IterationStats struct {
	Iteration   int
	BestFitness float64
	ArchiveSize int
}

// Solution is one archived route with its user-facing objectives and
// speed profile.
type Solution struct {
	Route      []geodesy.LatLon
	Speeds     []float64
	Objectives objective.Values
}

// Result is the outcome of a HACOPSO run.
type Result struct {
	Iterations         int
	ArchiveSize        int
	ConvergenceHistory []float64
	Solutions          []Solution
}

// Engine runs HACOPSO for a single origin/destination pair against a
// shared evaluator and constraint handler.
type Engine struct {
	config      Config
	evaluator   *objective.Evaluator
	constraints *constraint.Handler
	origin      geodesy.LatLon
	destination geodesy.LatLon
	weights     pareto.Objectives
	rng         *rng.Stream
	logger      *zap.Logger

	archive *pareto.Archive[routeSolution]

	particles []particle

	globalBest    []geodesy.LatLon
	globalBestObj pareto.Objectives
	hasGlobalBest bool

	chaosValue         float64
	iteration          int
	stagnationCount    int
	convergenceHistory []float64
}

type routeSolution struct {
	route  []geodesy.LatLon
	speeds []float64
}

// New builds a HACOPSO engine. logger may be nil, in which case logging is
// a no-op.
func New(cfg Config, evaluator *objective.Evaluator, constraints *constraint.Handler, origin, destination geodesy.LatLon, weights pareto.Objectives, stream *rng.Stream, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		config:      cfg,
		evaluator:   evaluator,
		constraints: constraints,
		origin:      origin,
		destination: destination,
		weights:     weights,
		rng:         stream,
		logger:      logger,
		archive:     pareto.NewArchive[routeSolution](cfg.ArchiveSize),
		chaosValue:  stream.Float64(),
	}
}

// bounds returns the search box: origin/destination bounding box padded by
// 10 degrees on every side, per the spec's coastal-clearance margin.
func (e *Engine) bounds() (latMin, latMax, lonMin, lonMax float64) {
	latMin = math.Min(e.origin.Lat, e.destination.Lat) - 10
	latMax = math.Max(e.origin.Lat, e.destination.Lat) + 10
	lonMin = math.Min(e.origin.Lon, e.destination.Lon) - 10
	lonMax = math.Max(e.origin.Lon, e.destination.Lon) + 10
	return
}

func clamp(v, lo, hi float64) float64 {
	return numeric.Clamp(v, lo, hi)
}

func (e *Engine) randomRoute() []geodesy.LatLon {
	latMin, latMax, lonMin, lonMax := e.bounds()
	n := e.config.NWaypoints
	route := make([]geodesy.LatLon, n+2)
	route[0] = e.origin
	route[n+1] = e.destination

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n+1)
		lat := e.origin.Lat*(1-t) + e.destination.Lat*t + e.rng.Uniform(-5, 5)
		lon := e.origin.Lon*(1-t) + e.destination.Lon*t + e.rng.Uniform(-5, 5)
		route[i] = geodesy.LatLon{
			Lat: clamp(lat, latMin, latMax),
			Lon: clamp(lon, lonMin, lonMax),
		}
	}
	return route
}

func (e *Engine) oppositionRoute(route []geodesy.LatLon) []geodesy.LatLon {
	latMin, latMax, lonMin, lonMax := e.bounds()
	opp := make([]geodesy.LatLon, len(route))
	copy(opp, route)
	for i := 1; i < len(route)-1; i++ {
		opp[i] = geodesy.LatLon{
			Lat: clamp(latMin+latMax-route[i].Lat, latMin, latMax),
			Lon: clamp(lonMin+lonMax-route[i].Lon, lonMin, lonMax),
		}
	}
	return opp
}

func (e *Engine) createParticle(route []geodesy.LatLon) particle {
	velocity := make([]velocityVec, len(route))
	for i := range velocity {
		velocity[i] = velocityVec{
			dLat: e.rng.Uniform(-e.config.VMaxLat, e.config.VMaxLat),
			dLon: e.rng.Uniform(-e.config.VMaxLon, e.config.VMaxLon),
		}
	}

	speeds := make([]float64, len(route)-1)
	service := e.evaluator.ServiceSpeed()
	minSpeed := e.evaluator.MinSpeed()
	maxSpeed := e.evaluator.MaxSpeed()
	for i := range speeds {
		speeds[i] = clamp(service+e.rng.Uniform(-2, 2), minSpeed, maxSpeed)
	}

	objValues := e.evaluator.Evaluate(route, speeds)
	objArr := objValues.ToInternal()
	violations := e.constraints.CheckRoute(route, speeds, 0, objValues.Fuel)
	penalty := constraint.Penalty(violations)
	fitness := dot(e.weights, objArr) + penalty

	positionCopy := make([]geodesy.LatLon, len(route))
	copy(positionCopy, route)
	bestCopy := make([]geodesy.LatLon, len(route))
	copy(bestCopy, route)

	return particle{
		position:        positionCopy,
		velocity:        velocity,
		speeds:          speeds,
		personalBest:    bestCopy,
		personalBestObj: objArr,
		fitness:         fitness,
	}
}

func dot(a, b pareto.Objectives) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// chaoticInertiaWeight advances the chaos value per the configured map and
// returns the inertia weight for the current iteration.
func (e *Engine) chaoticInertiaWeight() float64 {
	switch e.config.ChaosType {
	case ChaosTent:
		if e.chaosValue < 0.5 {
			e.chaosValue = 2 * e.chaosValue
		} else {
			e.chaosValue = 2 * (1 - e.chaosValue)
		}
	case ChaosSinusoidal:
		e.chaosValue = math.Sin(math.Pi * e.chaosValue)
	default: // ChaosLogistic
		e.chaosValue = 4.0 * e.chaosValue * (1 - e.chaosValue)
	}
	e.chaosValue = clamp(e.chaosValue, 0.01, 0.99)

	progress := float64(e.iteration) / float64(e.config.MaxIterations)
	baseW := e.config.WMax - (e.config.WMax-e.config.WMin)*progress
	return baseW * (1 + 0.5*(e.chaosValue-0.5))
}

// InitializeSwarm builds the initial particle set, consuming up to a
// quarter of the swarm from warmStart routes before filling the remainder
// with random/opposition pairs.
func (e *Engine) InitializeSwarm(warmStart [][]geodesy.LatLon) {
	e.particles = nil

	quota := e.config.SwarmSize / 4
	for i, route := range warmStart {
		if i >= quota {
			break
		}
		e.particles = append(e.particles, e.createParticle(route))
	}

	for len(e.particles) < e.config.SwarmSize {
		route := e.randomRoute()
		e.particles = append(e.particles, e.createParticle(route))
		if len(e.particles) < e.config.SwarmSize {
			opp := e.oppositionRoute(route)
			e.particles = append(e.particles, e.createParticle(opp))
		}
	}

	e.updateGlobalBest()
}

func (e *Engine) updateGlobalBest() {
	best := 0
	for i := 1; i < len(e.particles); i++ {
		if e.particles[i].fitness < e.particles[best].fitness {
			best = i
		}
	}

	if !e.hasGlobalBest || e.particles[best].fitness < dot(e.weights, e.globalBestObj) {
		e.globalBest = append([]geodesy.LatLon(nil), e.particles[best].personalBest...)
		e.globalBestObj = e.particles[best].personalBestObj
		e.hasGlobalBest = true
		e.stagnationCount = 0
	} else {
		e.stagnationCount++
	}
}

// leader returns the current guidance target for velocity updates:
// the archive's weighted compromise solution when the archive is
// non-empty, else the global best, else the particle's own personal best.
func (e *Engine) leader(p *particle) []geodesy.LatLon {
	if entry, ok := e.archive.Compromise(e.weights); ok {
		return entry.Solution.route
	}
	if e.hasGlobalBest {
		return e.globalBest
	}
	return p.personalBest
}

// Iterate runs one HACOPSO generation and returns its stats.
func (e *Engine) Iterate() IterationStats {
	latMin, latMax, lonMin, lonMax := e.bounds()
	inertia := e.chaoticInertiaWeight()

	for pi := range e.particles {
		p := &e.particles[pi]
		leader := e.leader(p)

		for i := range p.position {
			r1 := e.rng.Float64()
			r2 := e.rng.Float64()

			cogLat := e.config.C1 * r1 * (p.personalBest[i].Lat - p.position[i].Lat)
			cogLon := e.config.C1 * r1 * (p.personalBest[i].Lon - p.position[i].Lon)
			socLat := e.config.C2 * r2 * (leader[i].Lat - p.position[i].Lat)
			socLon := e.config.C2 * r2 * (leader[i].Lon - p.position[i].Lon)

			p.velocity[i].dLat = clamp(inertia*p.velocity[i].dLat+cogLat+socLat, -e.config.VMaxLat, e.config.VMaxLat)
			p.velocity[i].dLon = clamp(inertia*p.velocity[i].dLon+cogLon+socLon, -e.config.VMaxLon, e.config.VMaxLon)
		}

		for i := 1; i < len(p.position)-1; i++ {
			p.position[i].Lat = clamp(p.position[i].Lat+p.velocity[i].dLat, latMin, latMax)
			p.position[i].Lon = clamp(p.position[i].Lon+p.velocity[i].dLon, lonMin, lonMax)
		}
		p.position[0] = e.origin
		p.position[len(p.position)-1] = e.destination

		objValues := e.evaluator.Evaluate(p.position, p.speeds)
		objArr := objValues.ToInternal()
		violations := e.constraints.CheckRoute(p.position, p.speeds, 0, objValues.Fuel)
		penalty := constraint.Penalty(violations)
		p.fitness = dot(e.weights, objArr) + penalty

		if p.fitness < dot(e.weights, p.personalBestObj) {
			p.personalBest = append([]geodesy.LatLon(nil), p.position...)
			p.personalBestObj = objArr
		}

		if !hasLandViolation(violations) {
			route := append([]geodesy.LatLon(nil), p.position...)
			e.archive.Add(routeSolution{route: route, speeds: p.speeds}, objArr, nil)
		}
	}

	e.updateGlobalBest()

	if e.stagnationCount >= e.config.StagnationLimit/2 && e.rng.Chance(e.config.OppositionRate) {
		for pi := range e.particles {
			p := &e.particles[pi]
			opp := e.oppositionRoute(p.position)
			oppObj := e.evaluator.Evaluate(opp, p.speeds)
			oppArr := oppObj.ToInternal()
			oppPenalty := constraint.Penalty(e.constraints.CheckRoute(opp, p.speeds, 0, oppObj.Fuel))
			oppFitness := dot(e.weights, oppArr) + oppPenalty
			if oppFitness < p.fitness {
				p.position = opp
				p.fitness = oppFitness
			}
		}
	}

	bestFitness := e.particles[0].fitness
	for _, p := range e.particles[1:] {
		if p.fitness < bestFitness {
			bestFitness = p.fitness
		}
	}
	e.convergenceHistory = append(e.convergenceHistory, bestFitness)
	e.iteration++

	return IterationStats{
		Iteration:   e.iteration,
		BestFitness: bestFitness,
		ArchiveSize: e.archive.Size(),
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

// Optimize runs the full HACOPSO loop: initialization, then iterations
// until MaxIterations or StagnationLimit is reached, or cancelled (if
// non-nil) reports true at the top of an iteration.
// callback, if non-nil, is invoked after every iteration with a read-only
// snapshot of that iteration's stats.
func (e *Engine) Optimize(warmStart [][]geodesy.LatLon, cancelled func() bool, callback func(IterationStats)) Result {
	e.InitializeSwarm(warmStart)
	e.logger.Info("hacopso swarm initialized", zap.Int("swarm_size", len(e.particles)))

	for i := 0; i < e.config.MaxIterations; i++ {
		if cancelled != nil && cancelled() {
			e.logger.Debug("hacopso run cancelled", zap.Int("iteration", e.iteration))
			break
		}
		stats := e.Iterate()
		if callback != nil {
			callback(stats)
		}
		if e.stagnationCount >= e.config.StagnationLimit {
			e.logger.Debug("hacopso stagnation limit reached", zap.Int("iteration", e.iteration))
			break
		}
	}

	solutions := make([]Solution, 0, e.archive.Size())
	for _, entry := range e.archive.All() {
		solutions = append(solutions, Solution{
			Route:      entry.Solution.route,
			Speeds:     entry.Solution.speeds,
			Objectives: objective.FromInternal(entry.Objectives),
		})
	}

	return Result{
		Iterations:         e.iteration,
		ArchiveSize:        e.archive.Size(),
		ConvergenceHistory: e.convergenceHistory,
		Solutions:          solutions,
	}
}

// BestCompromise returns the archive's weighted-compromise solution, if
// the archive is non-empty.
func (e *Engine) BestCompromise() (Solution, bool) {
	entry, ok := e.archive.Compromise(e.weights)
	if !ok {
		return Solution{}, false
	}
	return Solution{
		Route:      entry.Solution.route,
		Speeds:     entry.Solution.speeds,
		Objectives: objective.FromInternal(entry.Objectives),
	}, true
}
