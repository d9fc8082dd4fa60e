// Package emission converts distances travelled into grams of CO2 per transport mode.
package emission

import (
	"math"
	"strings"
)

type Mode string

const (
	Bike            Mode = "bike"
	ElectricVehicle Mode = "electric-vehicle"
	PublicTransit   Mode = "public-transit"
	Walk            Mode = "walk"
	Car             Mode = "car"
)

// grams of CO2 per kilometer
var factors = map[Mode]float64{
	Car:             120,
	ElectricVehicle: 45,
	Bike:            0,
	PublicTransit:   35,
	Walk:            0,
}

func (m Mode) Valid() bool {
	_, ok := factors[m]
	return ok
}

// ParseMode accepts the canonical names and the short aliases "ev" and "public".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bike":
		return Bike, true
	case "electric-vehicle", "ev":
		return ElectricVehicle, true
	case "public-transit", "public":
		return PublicTransit, true
	case "walk":
		return Walk, true
	case "car":
		return Car, true
	}
	return "", false
}

// Factor returns grams of CO2 per kilometer. Unknown modes use the car factor.
func Factor(mode Mode) float64 {
	if f, ok := factors[mode]; ok {
		return f
	}
	return factors[Car]
}

// CarbonFootprint returns grams of CO2 for distanceKm travelled by mode.
func CarbonFootprint(distanceKm float64, mode Mode) float64 {
	if math.IsNaN(distanceKm) || distanceKm < 0 {
		return 0
	}
	return distanceKm * Factor(mode)
}

// EmissionsSaved is the CO2 avoided compared with driving the same distance.
func EmissionsSaved(distanceKm float64, mode Mode) float64 {
	return math.Max(0, CarbonFootprint(distanceKm, Car)-CarbonFootprint(distanceKm, mode))
}

// Category buckets an amount of grams; each band includes its upper bound.
func Category(grams float64) string {
	switch {
	case grams <= 0:
		return "Zero Emissions"
	case grams <= 30:
		return "Very Low"
	case grams <= 60:
		return "Low"
	case grams <= 100:
		return "Medium"
	default:
		return "High"
	}
}

func AirQualityLabel(aqi float64) string {
	switch {
	case aqi >= 80:
		return "Excellent"
	case aqi >= 60:
		return "Good"
	default:
		return "Needs Improvement"
	}
}
