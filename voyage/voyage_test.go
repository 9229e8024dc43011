package voyage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nischala755/navix-ai/pkg/constraint"
	"github.com/nischala755/navix-ai/pkg/ga"
	"github.com/nischala755/navix-ai/pkg/geodesy"
	"github.com/nischala755/navix-ai/pkg/hacopso"
	"github.com/nischala755/navix-ai/pkg/ocean"
	"github.com/nischala755/navix-ai/pkg/pareto"
	"github.com/nischala755/navix-ai/pkg/vessel"
)

func testSpec() JobSpec {
	env := ocean.NewGrid(500, 1, 0.1, 0.1)
	v := vessel.NewProfile(vessel.DefaultProfiles()["bulk_capesize"])

	hacopsoCfg := hacopso.DefaultConfig()
	hacopsoCfg.SwarmSize = 8
	hacopsoCfg.MaxIterations = 5
	hacopsoCfg.NWaypoints = 3

	gaCfg := ga.DefaultConfig()
	gaCfg.PopulationSize = 8
	gaCfg.MaxGenerations = 5
	gaCfg.NWaypoints = 3

	return JobSpec{
		Origin:           geodesy.LatLon{Lat: 0, Lon: -150},
		Destination:      geodesy.LatLon{Lat: 5, Lon: -140},
		Vessel:           v,
		Environment:      env,
		Algorithm:        AlgorithmHACOPSO,
		Weights:          pareto.Objectives{0.2, 0.2, 0.2, 0.2, 0.2},
		Seed:             7,
		HACOPSO:          hacopsoCfg,
		GA:               gaCfg,
		ConstraintConfig: constraint.DefaultConfig(),
	}
}

func TestOptimizeRejectsNilVessel(t *testing.T) {
	spec := testSpec()
	spec.Vessel = nil
	_, err := Optimize(context.Background(), spec, nil)

	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigError, got %v", err)
	}
}

func TestOptimizeRejectsSameOriginAndDestination(t *testing.T) {
	spec := testSpec()
	spec.Destination = spec.Origin
	_, err := Optimize(context.Background(), spec, nil)

	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigError, got %v", err)
	}
}

func TestOptimizeAggregatesMultipleValidationErrors(t *testing.T) {
	spec := testSpec()
	spec.Vessel = nil
	spec.Environment = nil
	spec.Destination = spec.Origin
	_, err := Optimize(context.Background(), spec, nil)

	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	for _, want := range []string{"vessel", "environment", "differ"} {
		if !containsSubstring(msg, want) {
			t.Errorf("expected aggregated error to mention %q, got: %s", want, msg)
		}
	}
}

func containsSubstring(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func TestOptimizeHACOPSOEndToEnd(t *testing.T) {
	spec := testSpec()
	result, err := Optimize(context.Background(), spec, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Algorithm != AlgorithmHACOPSO {
		t.Errorf("expected algorithm HACOPSO in result, got %v", result.Algorithm)
	}
	if result.IterationsRun == 0 {
		t.Error("expected at least one iteration to run")
	}
	for _, s := range result.Solutions {
		if s.Route[0] != spec.Origin || s.Route[len(s.Route)-1] != spec.Destination {
			t.Error("every solution route must start at origin and end at destination")
		}
	}
}

func TestOptimizeHACOPSOWarmStartImprovesEarlyFitness(t *testing.T) {
	spec := testSpec()
	spec.HACOPSO.MaxIterations = 20

	// A plausible, already-reasonable route: a straight linear lat/lon
	// interpolation between origin and destination, which
	// a cold random swarm is unlikely to match within a handful of
	// iterations.
	n := spec.HACOPSO.NWaypoints
	warmRoute := make([]geodesy.LatLon, n+2)
	warmRoute[0] = spec.Origin
	warmRoute[n+1] = spec.Destination
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n+1)
		warmRoute[i] = geodesy.Interpolate(spec.Origin, spec.Destination, t)
	}

	cold, err := Optimize(context.Background(), spec, nil)
	if err != nil {
		t.Fatalf("unexpected error on cold-start run: %v", err)
	}

	spec.WarmStartRoutes = [][]geodesy.LatLon{warmRoute}
	warm, err := Optimize(context.Background(), spec, nil)
	if err != nil {
		t.Fatalf("unexpected error on warm-start run: %v", err)
	}

	if len(cold.ConvergenceHistory) == 0 || len(warm.ConvergenceHistory) == 0 {
		t.Fatal("expected non-empty convergence history for both runs")
	}

	quarter := len(warm.ConvergenceHistory) / 4
	if quarter == 0 {
		quarter = 1
	}
	if warm.ConvergenceHistory[quarter-1] > cold.ConvergenceHistory[quarter-1] {
		t.Errorf("expected warm-started run's best fitness at 25%% of max iterations (%f) to be <= cold-start run's (%f)",
			warm.ConvergenceHistory[quarter-1], cold.ConvergenceHistory[quarter-1])
	}
}

func TestOptimizeGAEndToEnd(t *testing.T) {
	spec := testSpec()
	spec.Algorithm = AlgorithmGA
	result, err := Optimize(context.Background(), spec, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Algorithm != AlgorithmGA {
		t.Errorf("expected algorithm GA in result, got %v", result.Algorithm)
	}
	if result.IterationsRun == 0 {
		t.Error("expected at least one generation to run")
	}
}

func TestOptimizeIsReproducibleGivenSameSeed(t *testing.T) {
	spec := testSpec()
	r1, err1 := Optimize(context.Background(), spec, nil)
	r2, err2 := Optimize(context.Background(), spec, nil)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if r1.ArchiveSize != r2.ArchiveSize {
		t.Fatalf("expected identical archive sizes for identical seed, got %d vs %d", r1.ArchiveSize, r2.ArchiveSize)
	}
	for i := range r1.Solutions {
		if r1.Solutions[i].Objectives != r2.Solutions[i].Objectives {
			t.Errorf("solution %d objectives diverged despite identical seed", i)
		}
	}
}

func TestOptimizeRespectsContextCancellation(t *testing.T) {
	spec := testSpec()
	spec.HACOPSO.MaxIterations = 10_000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Optimize(ctx, spec, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IterationsRun >= spec.HACOPSO.MaxIterations {
		t.Error("expected cancellation to stop the run well before MaxIterations")
	}
}

func TestOptimizeCountsEnvironmentSubstitutions(t *testing.T) {
	spec := testSpec()
	spec.Environment = &alwaysFailingEnvironment{}
	result, err := Optimize(context.Background(), spec, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.EnvironmentSubstitutions == 0 {
		t.Error("expected environment query failures to be counted as substitutions")
	}
}

func TestOptimizeHonorsOceanCache(t *testing.T) {
	spec := testSpec()
	spec.OceanCacheSize = 64
	_, err := Optimize(context.Background(), spec, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOptimizeDoesNotHangWithoutDeadline(t *testing.T) {
	spec := testSpec()
	done := make(chan struct{})
	go func() {
		Optimize(context.Background(), spec, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Optimize did not return within a reasonable time for a small test configuration")
	}
}

// alwaysFailingEnvironment forces the evaluator's environment-substitution
// path on every query.
type alwaysFailingEnvironment struct{}

func (a *alwaysFailingEnvironment) IsLand(lat, lon float64) (bool, error) { return false, errEnv }
func (a *alwaysFailingEnvironment) Depth(lat, lon float64) (float64, error) {
	return 0, errEnv
}
func (a *alwaysFailingEnvironment) WaveHeight(lat, lon, t float64) (float64, error) {
	return 0, errEnv
}
func (a *alwaysFailingEnvironment) CurrentVector(lat, lon, t float64) (float64, float64, error) {
	return 0, 0, errEnv
}
func (a *alwaysFailingEnvironment) StormRisk(lat, lon, t float64) (float64, error) {
	return 0, errEnv
}
func (a *alwaysFailingEnvironment) PiracyRisk(lat, lon float64) (float64, error) {
	return 0, errEnv
}

var errEnv = errors.New("simulated environment failure")
