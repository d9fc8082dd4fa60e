package tracking

import "backend-ecocommute/internal/commute"

// Reading is one position fix reported by the client device.
type Reading struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Accuracy  float64 `json:"accuracy"`
	Speed     float64 `json:"speed"`
	Timestamp int64   `json:"timestamp"`
}

func (r Reading) Coordinate() commute.Coordinate {
	return commute.Coordinate{Lat: r.Lat, Lng: r.Lng}
}

// Progress is the live view of an active session, broadcast after every reading.
type Progress struct {
	SessionID       string  `json:"sessionId"`
	Position        Reading `json:"position"`
	Points          int     `json:"points"`
	Distance        float64 `json:"distance"`
	Duration        int64   `json:"duration"`
	AirQualityIndex int     `json:"airQualityIndex"`
	Hotspot         bool    `json:"hotspot"`
}

type Status struct {
	Active          bool                `json:"active"`
	SessionID       string              `json:"sessionId,omitempty"`
	StartedAt       int64               `json:"startedAt,omitempty"`
	StartLocation   *commute.Coordinate `json:"startLocation,omitempty"`
	CurrentLocation *commute.Coordinate `json:"currentLocation,omitempty"`
	Points          int                 `json:"points"`
	Distance        float64             `json:"distance"`
	Duration        int64               `json:"duration"`
	AirQualityIndex int                 `json:"airQualityIndex"`
	Hotspot         bool                `json:"hotspot"`
}
