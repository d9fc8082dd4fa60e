package commute

import "backend-ecocommute/internal/emission"

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Record is one finished trip. Records are never edited after they are stored.
type Record struct {
	ID              string        `json:"id"`
	Timestamp       int64         `json:"timestamp"`
	StartLocation   Coordinate    `json:"startLocation"`
	EndLocation     Coordinate    `json:"endLocation"`
	Route           []Coordinate  `json:"route"`
	Distance        float64       `json:"distance"`
	Duration        int64         `json:"duration"`
	TransportMode   emission.Mode `json:"transportMode"`
	CarbonFootprint float64       `json:"carbonFootprint"`
	AirQualityIndex int           `json:"airQualityIndex"`
	NetworkType     string        `json:"networkType"`
}

type Preferences struct {
	TransportMode       emission.Mode `json:"transportMode"`
	AvoidTolls          bool          `json:"avoidTolls"`
	MaxTimeIncrease     float64       `json:"maxTimeIncrease"`
	EcoFriendlyPriority bool          `json:"ecoFriendlyPriority"`
}

// PreferencesPatch carries a partial update; nil fields keep their current value.
type PreferencesPatch struct {
	TransportMode       *emission.Mode `json:"transportMode,omitempty"`
	AvoidTolls          *bool          `json:"avoidTolls,omitempty"`
	MaxTimeIncrease     *float64       `json:"maxTimeIncrease,omitempty"`
	EcoFriendlyPriority *bool          `json:"ecoFriendlyPriority,omitempty"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		TransportMode:       emission.Bike,
		AvoidTolls:          true,
		MaxTimeIncrease:     20,
		EcoFriendlyPriority: true,
	}
}

func (p Preferences) Apply(patch PreferencesPatch) Preferences {
	if patch.TransportMode != nil {
		p.TransportMode = *patch.TransportMode
	}
	if patch.AvoidTolls != nil {
		p.AvoidTolls = *patch.AvoidTolls
	}
	if patch.MaxTimeIncrease != nil {
		p.MaxTimeIncrease = *patch.MaxTimeIncrease
	}
	if patch.EcoFriendlyPriority != nil {
		p.EcoFriendlyPriority = *patch.EcoFriendlyPriority
	}
	return p
}

// RecordInput is what a client submits for a trip it measured itself.
type RecordInput struct {
	Timestamp       int64        `json:"timestamp"`
	StartLocation   Coordinate   `json:"startLocation"`
	EndLocation     Coordinate   `json:"endLocation"`
	Route           []Coordinate `json:"route"`
	Distance        float64      `json:"distance"`
	Duration        int64        `json:"duration"`
	TransportMode   string       `json:"transportMode"`
	AirQualityIndex int          `json:"airQualityIndex"`
	NetworkType     string       `json:"networkType"`
}
