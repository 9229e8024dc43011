// Package objective implements the per-leg route evaluator: the only
// component that queries the ocean environment and vessel model to turn a
// route and speed profile into the five-objective fitness vector consumed
// by the Pareto archive.
package objective

import (
	"math"

	"github.com/nischala755/navix-ai/pkg/geodesy"
	"github.com/nischala755/navix-ai/pkg/ocean"
	"github.com/nischala755/navix-ai/pkg/pareto"
	"github.com/nischala755/navix-ai/pkg/vessel"
)

// Values is the user-facing objective tuple: fuel (tonnes), time (hours),
// risk (0-1), emissions (tonnes), and comfort (0-1, higher is better).
type Values struct {
	Fuel      float64
	Time      float64
	Risk      float64
	Emissions float64
	Comfort   float64
}

// ToInternal converts Values to the archive's all-minimize internal form.
func (v Values) ToInternal() pareto.Objectives {
	return pareto.Objectives{v.Fuel, v.Time, v.Risk, v.Emissions, 1 - v.Comfort}
}

// FromInternal converts the archive's internal minimize-form objectives
// back to user-facing Values.
func FromInternal(o pareto.Objectives) Values {
	return Values{
		Fuel:      o[pareto.ObjFuel],
		Time:      o[pareto.ObjTime],
		Risk:      o[pareto.ObjRisk],
		Emissions: o[pareto.ObjEmissions],
		Comfort:   1 - o[pareto.ObjDiscomfort],
	}
}

// Evaluator computes Values for a route/speed pair against a fixed vessel
// model and environment, substituting neutral defaults when an
// environment query fails and counting each substitution.
type Evaluator struct {
	vessel      vessel.Model
	environment ocean.Query
	departure   float64 // Unix timestamp

	substitutions int
}

// NewEvaluator builds an evaluator for the given vessel, environment, and
// departure time (Unix seconds).
func NewEvaluator(v vessel.Model, env ocean.Query, departureUnix float64) *Evaluator {
	return &Evaluator{vessel: v, environment: env, departure: departureUnix}
}

// Substitutions returns the number of environment-query neutral-default
// substitutions made across every Evaluate call on this evaluator.
func (e *Evaluator) Substitutions() int {
	return e.substitutions
}

// ServiceSpeed, MinSpeed, and MaxSpeed expose the evaluator's vessel speed
// bounds so callers building candidate speed profiles (HACOPSO, NSGA-II)
// don't need their own reference to the vessel model.
func (e *Evaluator) ServiceSpeed() float64 { return e.vessel.ServiceSpeed() }
func (e *Evaluator) MinSpeed() float64     { return e.vessel.MinSpeed() }
func (e *Evaluator) MaxSpeed() float64     { return e.vessel.MaxSpeed() }

// Evaluate computes the objective Values for route with the given
// per-leg speeds (knots). If speeds is nil, every leg defaults to the
// vessel's service speed. Routes with fewer than two waypoints are
// reported with worst-possible objectives rather than an error, matching
// the degenerate-route handling described for the evaluator.
func (e *Evaluator) Evaluate(route []geodesy.LatLon, speeds []float64) Values {
	if len(route) < 2 {
		return Values{
			Fuel:      math.Inf(1),
			Time:      math.Inf(1),
			Risk:      1.0,
			Emissions: math.Inf(1),
			Comfort:   0.0,
		}
	}

	if speeds == nil {
		speeds = make([]float64, len(route)-1)
		for i := range speeds {
			speeds[i] = e.vessel.ServiceSpeed()
		}
	}

	var totalFuel, totalTime, totalRisk, totalWaveExposure float64
	currentTime := e.departure

	for i := 0; i < len(route)-1; i++ {
		from, to := route[i], route[i+1]
		speed := speeds[i]

		distanceNM := geodesy.HaversineNM(from, to)

		midLat := (from.Lat + to.Lat) / 2
		midLon := (from.Lon + to.Lon) / 2

		waveHeight := e.queryWave(midLat, midLon, currentTime)
		resistance := 1.0 + 0.1*waveHeight
		currentE, currentN := e.queryCurrent(midLat, midLon, currentTime)
		stormRisk := e.queryStorm(midLat, midLon, currentTime)
		piracyRisk := e.queryPiracy(midLat, midLon)

		heading := geodesy.Bearing(from, to)
		currentEffect := geodesy.CurrentEffectKt(currentE, currentN, heading)
		effectiveSpeed := math.Max(speed+currentEffect, e.vessel.MinSpeed())

		var legTime float64
		if effectiveSpeed > 0 {
			legTime = distanceNM / effectiveSpeed
		} else {
			legTime = math.Inf(1)
		}
		totalTime += legTime

		baseFuel := e.vessel.FuelConsumption(speed, legTime)
		totalFuel += baseFuel * resistance

		legRisk := math.Max(stormRisk, piracyRisk) * (legTime / 24)
		totalRisk += legRisk

		totalWaveExposure += waveHeight * legTime

		currentTime += legTime * 3600
	}

	riskScore := math.Min(1.0, totalRisk)
	avgWave := totalWaveExposure / math.Max(totalTime, 1)
	comfortScore := math.Max(0.0, 1.0-avgWave/10.0)
	emissions := vessel.Emissions(totalFuel)

	return Values{
		Fuel:      totalFuel,
		Time:      totalTime,
		Risk:      riskScore,
		Emissions: emissions,
		Comfort:   comfortScore,
	}
}

func (e *Evaluator) queryWave(lat, lon, t float64) float64 {
	v, err := e.environment.WaveHeight(lat, lon, t)
	if err != nil {
		e.substitutions++
		return 0
	}
	return v
}

func (e *Evaluator) queryCurrent(lat, lon, t float64) (float64, float64) {
	east, north, err := e.environment.CurrentVector(lat, lon, t)
	if err != nil {
		e.substitutions++
		return 0, 0
	}
	return east, north
}

func (e *Evaluator) queryStorm(lat, lon, t float64) float64 {
	v, err := e.environment.StormRisk(lat, lon, t)
	if err != nil {
		e.substitutions++
		return 0
	}
	return v
}

func (e *Evaluator) queryPiracy(lat, lon float64) float64 {
	v, err := e.environment.PiracyRisk(lat, lon)
	if err != nil {
		e.substitutions++
		return 0
	}
	return v
}
