// Package voyage is the single entry point for maritime route
// optimization: it validates a job specification, wires together the
// evaluator, constraint handler, and chosen search engine, and converts
// the engine's internal result into the external Result shape.
package voyage

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nischala755/navix-ai/internal/rng"
	"github.com/nischala755/navix-ai/pkg/constraint"
	"github.com/nischala755/navix-ai/pkg/ga"
	"github.com/nischala755/navix-ai/pkg/geodesy"
	"github.com/nischala755/navix-ai/pkg/hacopso"
	"github.com/nischala755/navix-ai/pkg/objective"
	"github.com/nischala755/navix-ai/pkg/ocean"
	"github.com/nischala755/navix-ai/pkg/pareto"
	"github.com/nischala755/navix-ai/pkg/vessel"
)

// Algorithm selects which search engine a job runs.
type Algorithm int

const (
	AlgorithmHACOPSO Algorithm = iota
	AlgorithmGA
)

// JobSpec describes a single optimization request.
type JobSpec struct {
	Origin      geodesy.LatLon
	Destination geodesy.LatLon
	Departure   float64 // Unix timestamp

	Vessel      vessel.Model
	Environment ocean.Query

	Algorithm Algorithm
	Weights   pareto.Objectives // objective weights; need not sum to 1
	Seed      int64

	HACOPSO hacopso.Config
	GA      ga.Config

	// WarmStartRoutes seeds up to a quarter of the HACOPSO swarm with
	// known-good routes (e.g. from a route bank of prior voyages on this
	// lane) instead of starting purely from random/opposition pairs. Has
	// no effect when Algorithm is AlgorithmGA.
	WarmStartRoutes [][]geodesy.LatLon

	ConstraintConfig constraint.Config

	// OceanCacheSize configures the ARC cache wrapping Environment; 0
	// disables caching.
	OceanCacheSize int

	// OnIteration, if set, is called after every HACOPSO iteration or GA
	// generation with that step's 1-based index and the archive size at
	// that point. No fitness value is passed.
	OnIteration func(step int, archiveSize int)
}

// Solution is one user-facing Pareto-optimal route.
type Solution struct {
	Route      []geodesy.LatLon
	Speeds     []float64
	Objectives objective.Values
}

// Result is the outcome of Optimize.
type Result struct {
	Algorithm                Algorithm
	IterationsRun             int
	ArchiveSize               int
	ConvergenceHistory        []float64
	Solutions                 []Solution
	EnvironmentSubstitutions  int
	Diagnostics               pareto.Diagnostics
}

// InvalidConfigError aggregates every validation failure found in a
// JobSpec, built with multierr so all problems are reported at once.
type InvalidConfigError struct {
	Err error
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid job spec: %v", e.Err)
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Err
}

func validate(spec JobSpec) error {
	var err error
	if spec.Vessel == nil {
		err = multierr.Append(err, fmt.Errorf("vessel model is required"))
	}
	if spec.Environment == nil {
		err = multierr.Append(err, fmt.Errorf("environment query is required"))
	}
	if spec.Vessel != nil && spec.Vessel.MinSpeed() >= spec.Vessel.MaxSpeed() {
		err = multierr.Append(err, fmt.Errorf("vessel min speed (%.2f) must be below max speed (%.2f)", spec.Vessel.MinSpeed(), spec.Vessel.MaxSpeed()))
	}
	if spec.Origin == spec.Destination {
		err = multierr.Append(err, fmt.Errorf("origin and destination must differ"))
	}

	switch spec.Algorithm {
	case AlgorithmHACOPSO:
		if spec.HACOPSO.SwarmSize <= 0 {
			err = multierr.Append(err, fmt.Errorf("hacopso swarm size must be positive"))
		}
		if spec.HACOPSO.MaxIterations <= 0 {
			err = multierr.Append(err, fmt.Errorf("hacopso max iterations must be positive"))
		}
	case AlgorithmGA:
		if spec.GA.PopulationSize <= 0 {
			err = multierr.Append(err, fmt.Errorf("ga population size must be positive"))
		}
		if spec.GA.MaxGenerations <= 0 {
			err = multierr.Append(err, fmt.Errorf("ga max generations must be positive"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown algorithm %d", spec.Algorithm))
	}

	if err != nil {
		return &InvalidConfigError{Err: err}
	}
	return nil
}

// Optimize validates spec, builds the shared evaluator and constraint
// handler, dispatches to the requested search engine, and converts its
// result to the external Result shape. Cancelling ctx stops the engine
// cooperatively at the next iteration boundary; the returned Result then
// reflects however many iterations completed.
func Optimize(ctx context.Context, spec JobSpec, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := validate(spec); err != nil {
		return Result{}, err
	}

	env := spec.Environment
	if spec.OceanCacheSize > 0 {
		env = ocean.NewCachedQuery(env, spec.OceanCacheSize)
	}

	evaluator := objective.NewEvaluator(spec.Vessel, env, spec.Departure)
	constraintHandler := constraint.NewHandler(env, spec.ConstraintConfig)
	stream := rng.New(spec.Seed)

	cancelled := func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
			return false
		}
	}

	logger.Info("starting voyage optimization",
		zap.Float64("origin_lat", spec.Origin.Lat), zap.Float64("origin_lon", spec.Origin.Lon),
		zap.Float64("destination_lat", spec.Destination.Lat), zap.Float64("destination_lon", spec.Destination.Lon),
	)

	var result Result
	switch spec.Algorithm {
	case AlgorithmGA:
		algo := ga.New(spec.GA, evaluator, constraintHandler, spec.Origin, spec.Destination, stream)
		engineResult := algo.Optimize(cancelled, func(stats ga.GenerationStats) {
			if spec.OnIteration != nil {
				spec.OnIteration(stats.Generation, stats.ArchiveSize)
			}
		})
		result = convertGAResult(engineResult)
	default:
		engine := hacopso.New(spec.HACOPSO, evaluator, constraintHandler, spec.Origin, spec.Destination, spec.Weights, stream, logger)
		engineResult := engine.Optimize(spec.WarmStartRoutes, cancelled, func(stats hacopso.IterationStats) {
			if spec.OnIteration != nil {
				spec.OnIteration(stats.Iteration, stats.ArchiveSize)
			}
		})
		result = convertHACOPSOResult(engineResult)
	}

	result.Algorithm = spec.Algorithm
	result.EnvironmentSubstitutions = evaluator.Substitutions()

	logger.Info("voyage optimization finished",
		zap.Int("iterations", result.IterationsRun),
		zap.Int("archive_size", result.ArchiveSize),
		zap.Int("environment_substitutions", result.EnvironmentSubstitutions),
	)

	return result, nil
}

func convertHACOPSOResult(r hacopso.Result) Result {
	solutions := make([]Solution, len(r.Solutions))
	values := make([]objective.Values, len(r.Solutions))
	for i, s := range r.Solutions {
		solutions[i] = Solution{Route: s.Route, Speeds: s.Speeds, Objectives: s.Objectives}
		values[i] = s.Objectives
	}
	return Result{
		IterationsRun:      r.Iterations,
		ArchiveSize:        r.ArchiveSize,
		ConvergenceHistory: r.ConvergenceHistory,
		Solutions:          solutions,
		Diagnostics:        diagnosticsOf(values),
	}
}

func convertGAResult(r ga.Result) Result {
	solutions := make([]Solution, len(r.Solutions))
	values := make([]objective.Values, len(r.Solutions))
	for i, s := range r.Solutions {
		solutions[i] = Solution{Route: s.Route, Speeds: s.Speeds, Objectives: s.Objectives}
		values[i] = s.Objectives
	}
	return Result{
		IterationsRun: r.Generations,
		ArchiveSize:   r.ArchiveSize,
		Solutions:     solutions,
		Diagnostics:   diagnosticsOf(values),
	}
}

// diagnosticsOf recomputes archive spacing/spread from the final solution
// set, since the engines drain their internal archives into plain
// Solution slices before returning.
func diagnosticsOf(values []objective.Values) pareto.Diagnostics {
	archive := pareto.NewArchive[int](len(values) + 1)
	for i, v := range values {
		archive.Add(i, v.ToInternal(), nil)
	}
	return archive.Diagnostics()
}
