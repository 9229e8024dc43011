// Package vessel defines the ship contract the objective evaluator
// consumes and a reference profile implementation with named presets.
package vessel

import "math"

// Model is the vessel contract a job supplies at construction time.
type Model interface {
	ServiceSpeed() float64
	MinSpeed() float64
	MaxSpeed() float64

	// FuelConsumption returns fuel burned, in tonnes, running at speed
	// (knots) for the given duration (hours).
	FuelConsumption(speedKt, hours float64) float64
}

// CO2Factor converts fuel tonnes to CO2-equivalent emissions tonnes.
const CO2Factor = 3.114

// Emissions returns CO2-equivalent emissions, in tonnes, for the given
// fuel consumption.
func Emissions(fuelTonnes float64) float64 {
	return fuelTonnes * CO2Factor
}

// Specs describes a vessel's propulsion characteristics, grounded on the
// original ship profile model: an admiralty-coefficient power curve
// (P proportional to displacement^(2/3) * speed^3) and a fixed specific
// fuel consumption.
type Specs struct {
	Name string

	LengthOverall   float64 // meters
	Beam            float64 // meters
	DraftDesign     float64 // meters
	Deadweight      float64 // tonnes
	EnginePowerKW   float64
	DesignSpeedKt   float64
	ServiceSpeedKt  float64
	MinSpeedKt      float64
	MaxSpeedKt      float64
	SFCDesign       float64 // g/kWh
	BlockCoefficient float64
}

// Profile is a reference vessel.Model implementation built from Specs.
type Profile struct {
	specs Specs
}

// NewProfile builds a reference vessel model from specs.
func NewProfile(specs Specs) *Profile {
	return &Profile{specs: specs}
}

func (p *Profile) ServiceSpeed() float64 { return p.specs.ServiceSpeedKt }
func (p *Profile) MinSpeed() float64     { return p.specs.MinSpeedKt }
func (p *Profile) MaxSpeed() float64     { return p.specs.MaxSpeedKt }

// displacement approximates full load displacement from deadweight.
func (p *Profile) displacement() float64 {
	return p.specs.Deadweight * 1.1
}

// Power returns required propulsion power, in kW, for the given speed
// using the admiralty coefficient derived from the vessel's design point.
func (p *Profile) Power(speedKt float64) float64 {
	disp23 := math.Pow(p.displacement(), 2.0/3.0)
	powerCoef := p.specs.EnginePowerKW / (disp23 * math.Pow(p.specs.DesignSpeedKt, 3))
	return powerCoef * disp23 * math.Pow(speedKt, 3)
}

// FuelRate returns fuel consumption rate, in tonnes/day, for the given
// speed.
func (p *Profile) FuelRate(speedKt float64) float64 {
	power := p.Power(speedKt)
	return power * p.specs.SFCDesign * 24 / 1_000_000
}

func (p *Profile) FuelConsumption(speedKt, hours float64) float64 {
	if speedKt <= 0 {
		return 0
	}
	dailyRate := p.FuelRate(speedKt)
	return dailyRate * hours / 24
}

// OptimalSpeedRange returns the economical speed band, typically 75-95%
// of service speed.
func (p *Profile) OptimalSpeedRange() (low, high float64) {
	return p.specs.ServiceSpeedKt * 0.75, p.specs.ServiceSpeedKt * 0.95
}

// DefaultProfiles returns the reference vessel presets carried over from
// the original ship profile manager.
func DefaultProfiles() map[string]Specs {
	return map[string]Specs{
		"container_large": {
			Name:             "Large Container Ship",
			LengthOverall:    400,
			Beam:             59,
			DraftDesign:      14.5,
			Deadweight:       200000,
			EnginePowerKW:    80000,
			DesignSpeedKt:    24,
			ServiceSpeedKt:   20,
			MinSpeedKt:       10,
			MaxSpeedKt:       25,
			SFCDesign:        170,
			BlockCoefficient: 0.65,
		},
		"tanker_vlcc": {
			Name:             "VLCC Tanker",
			LengthOverall:    333,
			Beam:             60,
			DraftDesign:      22,
			Deadweight:       300000,
			EnginePowerKW:    36000,
			DesignSpeedKt:    15,
			ServiceSpeedKt:   13,
			MinSpeedKt:       8,
			MaxSpeedKt:       16,
			SFCDesign:        180,
			BlockCoefficient: 0.82,
		},
		"bulk_capesize": {
			Name:             "Capesize Bulk Carrier",
			LengthOverall:    300,
			Beam:             50,
			DraftDesign:      18,
			Deadweight:       180000,
			EnginePowerKW:    20000,
			DesignSpeedKt:    14,
			ServiceSpeedKt:   12,
			MinSpeedKt:       8,
			MaxSpeedKt:       15,
			SFCDesign:        185,
			BlockCoefficient: 0.85,
		},
	}
}
