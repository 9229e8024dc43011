// voyage-bench runs HACOPSO and the NSGA-II benchmark against the same
// synthetic environment and reports archive quality and wall-clock latency
// for each, across a batch of concurrent jobs. Each job draws its own
// random origin and destination.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nischala755/navix-ai/pkg/constraint"
	"github.com/nischala755/navix-ai/pkg/ga"
	"github.com/nischala755/navix-ai/pkg/geodesy"
	"github.com/nischala755/navix-ai/pkg/hacopso"
	"github.com/nischala755/navix-ai/pkg/ocean"
	"github.com/nischala755/navix-ai/pkg/pareto"
	"github.com/nischala755/navix-ai/pkg/vessel"
	"github.com/nischala755/navix-ai/voyage"
)

const (
	// TargetSpacing is the maximum acceptable archive spacing (Diagnostics)
	// before a run is flagged as insufficiently diverse.
	TargetSpacing = 0.5

	ConcurrentJobs = 8
)

type benchmarkResult struct {
	algorithm      voyage.Algorithm
	averageLatency time.Duration
	p50, p90, p99  time.Duration
	successRate    float64
	avgArchiveSize float64
	avgSpacing     float64
	avgSpread      float64
}

func main() {
	log.Printf("Starting voyage optimization benchmark")
	log.Printf("Comparing HACOPSO against the NSGA-II baseline over %d concurrent jobs each", ConcurrentJobs)

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	env := syntheticEnvironment()
	v := vessel.NewProfile(vessel.DefaultProfiles()["container_large"])

	hacopsoResult := runBatch(voyage.AlgorithmHACOPSO, env, v, logger)
	gaResult := runBatch(voyage.AlgorithmGA, env, v, logger)

	displayResults(hacopsoResult)
	displayResults(gaResult)

	if hacopsoResult.successRate < 1.0 || gaResult.successRate < 1.0 {
		log.Printf("one or more jobs failed validation or returned no solutions")
		os.Exit(1)
	}
}

func syntheticEnvironment() *ocean.Grid {
	grid := ocean.NewGrid(4000, 1.2, 0.3, 0.1)
	grid.AddStormZone(ocean.StormZone{Lat: 15, Lon: -40, RadiusDeg: 8, Risk: 0.9})
	grid.AddPiracyZone(ocean.PiracyZone{MinLat: 10, MaxLat: 16, MinLon: 45, MaxLon: 52, Risk: 0.6})
	return grid
}

func runBatch(algo voyage.Algorithm, env ocean.Query, v vessel.Model, logger *zap.Logger) benchmarkResult {
	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		latencies  []time.Duration
		archiveSum float64
		spacingSum float64
		spreadSum  float64
		successes  int
	)

	for i := 0; i < ConcurrentJobs; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()

			spec := jobSpec(algo, env, v, seed)
			start := time.Now()
			result, err := voyage.Optimize(context.Background(), spec, logger)
			latency := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			latencies = append(latencies, latency)
			if err == nil && len(result.Solutions) > 0 {
				successes++
				archiveSum += float64(result.ArchiveSize)
				spacingSum += result.Diagnostics.Spacing
				spreadSum += result.Diagnostics.Spread
			}
		}(int64(1000 + i))
	}
	wg.Wait()

	avg := averageDuration(latencies)
	p50, p90, p99 := percentiles(latencies)

	return benchmarkResult{
		algorithm:      algo,
		averageLatency: avg,
		p50:            p50,
		p90:            p90,
		p99:            p99,
		successRate:    float64(successes) / float64(ConcurrentJobs),
		avgArchiveSize: archiveSum / float64(max(successes, 1)),
		avgSpacing:     spacingSum / float64(max(successes, 1)),
		avgSpread:      spreadSum / float64(max(successes, 1)),
	}
}

func jobSpec(algo voyage.Algorithm, env ocean.Query, v vessel.Model, seed int64) voyage.JobSpec {
	origin := geodesy.LatLon{Lat: 25.0 + rand.Float64()*5, Lon: -80.0 - rand.Float64()*5}
	destination := geodesy.LatLon{Lat: 36.0 + rand.Float64()*5, Lon: -5.0 - rand.Float64()*5}

	hacopsoCfg := hacopso.DefaultConfig()
	hacopsoCfg.MaxIterations = 60
	hacopsoCfg.SwarmSize = 30

	gaCfg := ga.DefaultConfig()
	gaCfg.MaxGenerations = 60
	gaCfg.PopulationSize = 30

	return voyage.JobSpec{
		Origin:           origin,
		Destination:      destination,
		Vessel:           v,
		Environment:      env,
		Algorithm:        algo,
		Weights:          pareto.Objectives{0.35, 0.25, 0.2, 0.1, 0.1},
		Seed:             seed,
		HACOPSO:          hacopsoCfg,
		GA:               gaCfg,
		ConstraintConfig: constraint.DefaultConfig(),
		OceanCacheSize:   4096,
	}
}

func averageDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return total / time.Duration(len(durations))
}

func percentiles(durations []time.Duration) (p50, p90, p99 time.Duration) {
	if len(durations) == 0 {
		return 0, 0, 0
	}
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	for i := 0; i < len(sorted)-1; i++ {
		for j := 0; j < len(sorted)-i-1; j++ {
			if sorted[j] > sorted[j+1] {
				sorted[j], sorted[j+1] = sorted[j+1], sorted[j]
			}
		}
	}
	n := len(sorted)
	p50 = sorted[int(float64(n)*0.50)]
	p90 = sorted[int(float64(n)*0.90)]
	p99 = sorted[min(int(float64(n)*0.99), n-1)]
	return
}

func displayResults(r benchmarkResult) {
	name := "HACOPSO"
	if r.algorithm == voyage.AlgorithmGA {
		name = "NSGA-II baseline"
	}

	fmt.Println("\n" + divider())
	fmt.Printf("RESULTS: %s\n", name)
	fmt.Println(divider())
	fmt.Printf("  Success rate:         %.0f%%\n", r.successRate*100)
	fmt.Printf("  Average latency:      %v\n", r.averageLatency)
	fmt.Printf("  P50 / P90 / P99:      %v / %v / %v\n", r.p50, r.p90, r.p99)
	fmt.Printf("  Average archive size: %.1f\n", r.avgArchiveSize)
	fmt.Printf("  Average spacing:      %.4f\n", r.avgSpacing)
	fmt.Printf("  Average spread:       %.4f\n", r.avgSpread)
	if r.avgSpacing > TargetSpacing {
		fmt.Printf("  NOTE: spacing exceeds target %.2f — archive may be under-diversified\n", TargetSpacing)
	}
}

func divider() string {
	b := make([]byte, 60)
	for i := range b {
		b[i] = '='
	}
	return string(b)
}
