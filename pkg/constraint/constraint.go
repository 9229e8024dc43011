// Package constraint checks routes against vessel and environmental
// limits, computes penalty scores, and repairs/refines routes that
// violate the land hard-constraint.
package constraint

import (
	"fmt"
	"math"

	"github.com/nischala755/navix-ai/pkg/geodesy"
	"github.com/nischala755/navix-ai/pkg/ocean"
)

// Kind identifies the type of a constraint violation.
type Kind int

const (
	KindLand Kind = iota
	KindDepth
	KindStorm
	KindPiracy
	KindSpeed
	KindFuel
)

func (k Kind) String() string {
	switch k {
	case KindLand:
		return "land"
	case KindDepth:
		return "depth"
	case KindStorm:
		return "storm"
	case KindPiracy:
		return "piracy"
	case KindSpeed:
		return "speed"
	case KindFuel:
		return "fuel"
	default:
		return "unknown"
	}
}

// Fixed penalty weights per violation kind.
const (
	LandPenalty   = 1e6
	StormPenalty  = 1e4
	PiracyPenalty = 1e3
	DepthPenalty  = 1e5
	SpeedPenalty  = 1e2
	FuelPenalty   = 1e4
)

// Violation describes one constraint breach.
type Violation struct {
	Kind           Kind
	WaypointIndex  int // -1 when the violation is not tied to a waypoint (e.g. fuel)
	Severity       float64
	Description    string
}

// Handler checks and repairs routes against a fixed set of operational
// limits, querying environment state through the ocean.Query contract.
type Handler struct {
	environment ocean.Query

	minDepth float64 // meters
	minSpeed float64 // knots
	maxSpeed float64 // knots
	maxFuel  *float64
}

// Config configures a Handler's limits.
type Config struct {
	MinDepth float64
	MinSpeed float64
	MaxSpeed float64
	MaxFuel  *float64 // nil means unlimited
}

// DefaultConfig returns the limits used throughout the original engine.
func DefaultConfig() Config {
	return Config{
		MinDepth: 15.0,
		MinSpeed: 5.0,
		MaxSpeed: 25.0,
	}
}

// NewHandler builds a constraint handler against the given environment.
func NewHandler(env ocean.Query, cfg Config) *Handler {
	return &Handler{
		environment: env,
		minDepth:    cfg.MinDepth,
		minSpeed:    cfg.MinSpeed,
		maxSpeed:    cfg.MaxSpeed,
		maxFuel:     cfg.MaxFuel,
	}
}

// CheckRoute evaluates every constraint against route, speeds (may be
// nil), a query time (Unix seconds), and the route's total fuel
// consumption (ignored for the fuel check when the handler has no
// configured budget).
func (h *Handler) CheckRoute(route []geodesy.LatLon, speeds []float64, timeUnix float64, fuelConsumption float64) []Violation {
	var violations []Violation

	for i, wp := range route {
		if land, err := h.environment.IsLand(wp.Lat, wp.Lon); err == nil && land {
			violations = append(violations, Violation{
				Kind:          KindLand,
				WaypointIndex: i,
				Severity:      1.0,
				Description:   fmt.Sprintf("waypoint %d crosses land at (%.4f, %.4f)", i, wp.Lat, wp.Lon),
			})
		}

		if depth, err := h.environment.Depth(wp.Lat, wp.Lon); err == nil && depth < h.minDepth {
			severity := math.Min(1.0, (h.minDepth-depth)/h.minDepth)
			violations = append(violations, Violation{
				Kind:          KindDepth,
				WaypointIndex: i,
				Severity:      severity,
				Description:   fmt.Sprintf("insufficient depth (%.1fm) at waypoint %d", depth, i),
			})
		}

		if risk, err := h.environment.StormRisk(wp.Lat, wp.Lon, timeUnix); err == nil && risk > 0.8 {
			violations = append(violations, Violation{
				Kind:          KindStorm,
				WaypointIndex: i,
				Severity:      risk,
				Description:   fmt.Sprintf("high storm risk (%.2f) at waypoint %d", risk, i),
			})
		}

		if risk, err := h.environment.PiracyRisk(wp.Lat, wp.Lon); err == nil && risk > 0.7 {
			violations = append(violations, Violation{
				Kind:          KindPiracy,
				WaypointIndex: i,
				Severity:      risk,
				Description:   fmt.Sprintf("high piracy risk (%.2f) at waypoint %d", risk, i),
			})
		}
	}

	for i, speed := range speeds {
		switch {
		case speed < h.minSpeed:
			severity := math.Min(1.0, (h.minSpeed-speed)/h.minSpeed)
			violations = append(violations, Violation{
				Kind:          KindSpeed,
				WaypointIndex: i,
				Severity:      severity,
				Description:   fmt.Sprintf("speed %.1fkt below minimum at leg %d", speed, i),
			})
		case speed > h.maxSpeed:
			severity := math.Min(1.0, (speed-h.maxSpeed)/h.maxSpeed)
			violations = append(violations, Violation{
				Kind:          KindSpeed,
				WaypointIndex: i,
				Severity:      severity,
				Description:   fmt.Sprintf("speed %.1fkt exceeds maximum at leg %d", speed, i),
			})
		}
	}

	if h.maxFuel != nil && fuelConsumption > *h.maxFuel {
		severity := math.Min(1.0, (fuelConsumption-*h.maxFuel)/(*h.maxFuel))
		violations = append(violations, Violation{
			Kind:          KindFuel,
			WaypointIndex: -1,
			Severity:      severity,
			Description:   fmt.Sprintf("fuel consumption (%.1ft) exceeds limit (%.1ft)", fuelConsumption, *h.maxFuel),
		})
	}

	return violations
}

// Penalty sums weighted severities across violations.
func Penalty(violations []Violation) float64 {
	var total float64
	for _, v := range violations {
		switch v.Kind {
		case KindLand:
			total += LandPenalty * v.Severity
		case KindDepth:
			total += DepthPenalty * v.Severity
		case KindStorm:
			total += StormPenalty * v.Severity
		case KindPiracy:
			total += PiracyPenalty * v.Severity
		case KindSpeed:
			total += SpeedPenalty * v.Severity
		case KindFuel:
			total += FuelPenalty * v.Severity
		}
	}
	return total
}

// IsFeasible reports whether route has no land violations — the only hard
// constraint.
func (h *Handler) IsFeasible(route []geodesy.LatLon, speeds []float64, timeUnix, fuelConsumption float64) bool {
	for _, v := range h.CheckRoute(route, speeds, timeUnix, fuelConsumption) {
		if v.Kind == KindLand {
			return false
		}
	}
	return true
}

// repairDeltasDeg are the displacement magnitudes tried during repair, in
// degrees, smallest first.
var repairDeltasDeg = []float64{0.1, 0.2, 0.5, 1.0}

// repairDirections covers all eight compass directions.
var repairDirections = [][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, -1}, {1, -1}, {-1, 1},
}

// Repair attempts to displace interior waypoints that violate the land
// constraint into open water, trying each of repairDeltasDeg at each of
// the eight compass directions until one is land-free. Waypoints that
// cannot be repaired within maxIterations passes are left in place.
func (h *Handler) Repair(route []geodesy.LatLon, maxIterations int) []geodesy.LatLon {
	repaired := make([]geodesy.LatLon, len(route))
	copy(repaired, route)

	for iter := 0; iter < maxIterations; iter++ {
		violations := h.CheckRoute(repaired, nil, 0, 0)

		var landIdx []int
		for _, v := range violations {
			if v.Kind == KindLand {
				landIdx = append(landIdx, v.WaypointIndex)
			}
		}
		if len(landIdx) == 0 {
			break
		}

		for _, idx := range landIdx {
			if idx == 0 || idx == len(repaired)-1 {
				continue // endpoints are fixed
			}

			wp := repaired[idx]
		deltaLoop:
			for _, delta := range repairDeltasDeg {
				for _, dir := range repairDirections {
					candidate := geodesy.LatLon{
						Lat: wp.Lat + delta*dir[0],
						Lon: wp.Lon + delta*dir[1],
					}
					land, err := h.environment.IsLand(candidate.Lat, candidate.Lon)
					if err == nil && !land {
						repaired[idx] = candidate
						break deltaLoop
					}
				}
			}
		}
	}

	return repaired
}

// maxLegResolutionNM is the spacing beyond which interpolation inserts
// additional waypoints for finer constraint checking.
const maxLegResolutionNM = 50.0

// Interpolate inserts waypoints along each leg so no gap exceeds 50 NM,
// using linear lat/lon interpolation.
func Interpolate(route []geodesy.LatLon) []geodesy.LatLon {
	if len(route) < 2 {
		return route
	}

	interpolated := []geodesy.LatLon{route[0]}

	for i := 0; i < len(route)-1; i++ {
		from, to := route[i], route[i+1]
		distance := geodesy.HaversineNM(from, to)
		segments := int(math.Ceil(distance / maxLegResolutionNM))
		if segments < 1 {
			segments = 1
		}

		for j := 1; j < segments; j++ {
			t := float64(j) / float64(segments)
			interpolated = append(interpolated, geodesy.Interpolate(from, to, t))
		}
		interpolated = append(interpolated, to)
	}

	return interpolated
}
