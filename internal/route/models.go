package route

import (
	"backend-ecocommute/internal/commute"
	"backend-ecocommute/internal/emission"
)

type Difficulty string

const (
	Easy     Difficulty = "easy"
	Moderate Difficulty = "moderate"
	Hard     Difficulty = "hard"
)

// Option is one candidate way of making a trip. Options are never persisted.
type Option struct {
	ID              string               `json:"id"`
	Type            emission.Mode        `json:"type"`
	Distance        float64              `json:"distance"`
	Duration        float64              `json:"duration"`
	CarbonFootprint float64              `json:"carbonFootprint"`
	Cost            float64              `json:"cost"`
	Difficulty      Difficulty           `json:"difficulty"`
	AirQualityScore int                  `json:"airQualityScore"`
	Route           []commute.Coordinate `json:"route"`
	Instructions    []string             `json:"instructions"`
}

type Query struct {
	Origin              string `json:"origin"`
	Destination         string `json:"destination"`
	EcoFriendlyPriority bool   `json:"ecoFriendlyPriority"`
}
