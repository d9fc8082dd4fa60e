package insights

import (
	"time"

	"backend-ecocommute/internal/commute"
)

// moneyPerGram is the value credited for each gram of CO2 saved.
const moneyPerGram = 0.05

type Badge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

type Dashboard struct {
	TotalCommutes     int        `json:"totalCommutes"`
	TotalDistance     float64    `json:"totalDistance"`
	CO2Saved          float64    `json:"co2Saved"`
	MoneySaved        float64    `json:"moneySaved"`
	AverageAirQuality float64    `json:"averageAirQuality"`
	WeeklyCO2         [7]float64 `json:"weeklyCo2"`
	Badges            []Badge    `json:"badges"`
}

// BuildDashboard summarises the trailing month and the per-day emissions of the
// trailing week. WeeklyCO2[6] is the 24 hours ending at now.
func BuildDashboard(records []commute.Record, now time.Time) Dashboard {
	recent := Filter(records, Month, now)

	d := Dashboard{
		TotalCommutes:     len(recent),
		TotalDistance:     TotalDistance(recent),
		CO2Saved:          TotalCarbonSaved(recent),
		AverageAirQuality: AverageAirQuality(recent),
	}
	d.MoneySaved = d.CO2Saved * moneyPerGram

	end := now.UnixMilli()
	dayMs := day.Milliseconds()
	for i := 0; i < 7; i++ {
		bucketEnd := end - int64(6-i)*dayMs
		bucketStart := bucketEnd - dayMs
		for _, r := range records {
			if r.Timestamp > bucketStart && r.Timestamp <= bucketEnd {
				d.WeeklyCO2[i] += r.CarbonFootprint
			}
		}
	}

	d.Badges = []Badge{
		{ID: "eco-warrior", Title: "Eco Warrior", Description: "100 eco-friendly commutes", Earned: d.TotalCommutes >= 100},
		{ID: "carbon-saver", Title: "Carbon Saver", Description: "1kg CO₂ saved", Earned: d.CO2Saved >= 1000},
		{ID: "clean-air", Title: "Clean Air Champion", Description: "Avg air quality >80", Earned: d.AverageAirQuality >= 80},
		{ID: "distance-master", Title: "Distance Master", Description: "500km total distance", Earned: d.TotalDistance >= 500},
	}
	return d
}
