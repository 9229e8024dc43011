package objective

import (
	"math"
	"testing"

	"github.com/nischala755/navix-ai/pkg/geodesy"
	"github.com/nischala755/navix-ai/pkg/ocean"
	"github.com/nischala755/navix-ai/pkg/vessel"
)

func testVessel() *vessel.Profile {
	specs := vessel.DefaultProfiles()["container_large"]
	return vessel.NewProfile(specs)
}

func TestEvaluateDegenerateRoute(t *testing.T) {
	env := ocean.NewGrid(200, 1, 0, 0)
	e := NewEvaluator(testVessel(), env, 0)

	v := e.Evaluate([]geodesy.LatLon{{Lat: 0, Lon: 0}}, nil)
	if !math.IsInf(v.Fuel, 1) || !math.IsInf(v.Time, 1) || !math.IsInf(v.Emissions, 1) {
		t.Error("a single-waypoint route must report infinite fuel/time/emissions")
	}
	if v.Risk != 1.0 || v.Comfort != 0.0 {
		t.Errorf("degenerate route should report worst risk/comfort, got risk=%f comfort=%f", v.Risk, v.Comfort)
	}
}

func TestEvaluateDefaultsToServiceSpeed(t *testing.T) {
	env := ocean.NewGrid(200, 1, 0, 0)
	v := testVessel()
	e := NewEvaluator(v, env, 0)

	route := []geodesy.LatLon{{Lat: 0, Lon: -150}, {Lat: 1, Lon: -150}}
	withNil := e.Evaluate(route, nil)

	speeds := []float64{v.ServiceSpeed()}
	withExplicit := e.Evaluate(route, speeds)

	if withNil.Fuel != withExplicit.Fuel || withNil.Time != withExplicit.Time {
		t.Error("nil speeds should default to service speed for every leg")
	}
}

func TestEvaluateObjectivesRoundTrip(t *testing.T) {
	v := Values{Fuel: 100, Time: 50, Risk: 0.3, Emissions: 300, Comfort: 0.7}
	back := FromInternal(v.ToInternal())
	if back != v {
		t.Errorf("round trip mismatch: got %+v, want %+v", back, v)
	}
}

func TestEvaluateSubstitutesOnEnvironmentError(t *testing.T) {
	env := &failingQuery{}
	e := NewEvaluator(testVessel(), env, 0)

	route := []geodesy.LatLon{{Lat: 0, Lon: -150}, {Lat: 1, Lon: -150}}
	e.Evaluate(route, nil)

	if e.Substitutions() == 0 {
		t.Error("expected environment-query failures to be counted as substitutions")
	}
}

// failingQuery always errors, forcing the evaluator's substitution path.
type failingQuery struct{}

func (f *failingQuery) IsLand(lat, lon float64) (bool, error)       { return false, errFail }
func (f *failingQuery) Depth(lat, lon float64) (float64, error)     { return 0, errFail }
func (f *failingQuery) WaveHeight(lat, lon, t float64) (float64, error) { return 0, errFail }
func (f *failingQuery) CurrentVector(lat, lon, t float64) (float64, float64, error) {
	return 0, 0, errFail
}
func (f *failingQuery) StormRisk(lat, lon, t float64) (float64, error)  { return 0, errFail }
func (f *failingQuery) PiracyRisk(lat, lon float64) (float64, error)    { return 0, errFail }

var errFail = &queryError{}

type queryError struct{}

func (e *queryError) Error() string { return "simulated environment failure" }
