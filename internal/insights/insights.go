// Package insights derives statistics and advice from commute history.
package insights

import (
	"fmt"
	"math"
	"time"

	"backend-ecocommute/internal/commute"
	"backend-ecocommute/internal/emission"
)

type Period string

const (
	Week  Period = "week"
	Month Period = "month"
	Year  Period = "year"
)

const day = 24 * time.Hour

func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case Week, Month, Year:
		return Period(s), true
	}
	return "", false
}

func (p Period) Window() time.Duration {
	switch p {
	case Week:
		return 7 * day
	case Year:
		return 365 * day
	default:
		return 30 * day
	}
}

const (
	RecommendAirQuality = "Consider routes with better air quality to improve your health during commutes."
	RecommendBike       = "Great job! Continue using bike transportation for maximum environmental benefits."
	RecommendSavings    = "Excellent carbon savings! You're making a real difference for the environment."
	RecommendDefault    = "Try incorporating more eco-friendly transport modes to increase your positive impact."
)

type Insights struct {
	Period             Period        `json:"period"`
	TotalCommutes      int           `json:"totalCommutes"`
	TotalDistance      float64       `json:"totalDistance"`
	MostEfficientRoute string        `json:"mostEfficientRoute"`
	BestTransportMode  emission.Mode `json:"bestTransportMode"`
	PeakHour           int           `json:"peakHour"`
	PeakCommuteTime    string        `json:"peakCommuteTime"`
	AverageAirQuality  float64       `json:"averageAirQuality"`
	AirQualityLabel    string        `json:"airQualityLabel"`
	TotalCarbonSaved   float64       `json:"totalCarbonSaved"`
	Recommendation     string        `json:"recommendation"`
}

// Filter keeps the records strictly newer than now minus the period window.
// A record exactly at the cutoff, such as one 365 days old for Year, is out
// of the window; TestFilterBoundary pins this.
func Filter(records []commute.Record, period Period, now time.Time) []commute.Record {
	cutoff := now.Add(-period.Window()).UnixMilli()
	out := make([]commute.Record, 0, len(records))
	for _, r := range records {
		if r.Timestamp > cutoff {
			out = append(out, r)
		}
	}
	return out
}

// Compute filters records to the period and summarises them. Hours are taken
// in loc; a nil loc means time.Local.
func Compute(records []commute.Record, period Period, now time.Time, loc *time.Location) Insights {
	return Summarise(Filter(records, period, now), period, loc)
}

// Summarise computes insights over an already filtered set.
func Summarise(filtered []commute.Record, period Period, loc *time.Location) Insights {
	if loc == nil {
		loc = time.Local
	}

	hour := PeakHour(filtered, loc)
	avgAir := AverageAirQuality(filtered)
	in := Insights{
		Period:             period,
		TotalCommutes:      len(filtered),
		TotalDistance:      TotalDistance(filtered),
		MostEfficientRoute: MostEfficientRoute(filtered),
		BestTransportMode:  BestTransportMode(filtered),
		PeakHour:           hour,
		PeakCommuteTime:    fmt.Sprintf("%d:00", hour),
		AverageAirQuality:  avgAir,
		AirQualityLabel:    emission.AirQualityLabel(avgAir),
		TotalCarbonSaved:   TotalCarbonSaved(filtered),
	}
	in.Recommendation = recommend(len(filtered), in.AverageAirQuality, in.BestTransportMode, in.TotalCarbonSaved)
	return in
}

// efficiency is distance per millisecond. A trip that covered ground in no
// measured time ranks above every timed trip; one that covered nothing ranks 0.
func efficiency(r commute.Record) float64 {
	if r.Duration <= 0 {
		if r.Distance > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return r.Distance / float64(r.Duration)
}

// MostEfficientRoute is the id with the highest distance/duration ratio.
func MostEfficientRoute(records []commute.Record) string {
	if len(records) == 0 {
		return ""
	}
	best := records[0]
	bestEff := efficiency(best)
	for _, r := range records[1:] {
		if e := efficiency(r); e > bestEff {
			best, bestEff = r, e
		}
	}
	return best.ID
}

// BestTransportMode is the mode with the lowest mean footprint. Groups are
// compared in first-seen order so the earliest group wins a tie.
func BestTransportMode(records []commute.Record) emission.Mode {
	type group struct {
		count int
		total float64
	}
	var order []emission.Mode
	groups := map[emission.Mode]*group{}
	for _, r := range records {
		g, ok := groups[r.TransportMode]
		if !ok {
			g = &group{}
			groups[r.TransportMode] = g
			order = append(order, r.TransportMode)
		}
		g.count++
		g.total += r.CarbonFootprint
	}

	var best emission.Mode
	bestMean := math.Inf(1)
	for _, mode := range order {
		g := groups[mode]
		if mean := g.total / float64(g.count); mean < bestMean {
			best, bestMean = mode, mean
		}
	}
	return best
}

// PeakHour is the local hour with the most departures; the lowest hour wins a tie.
func PeakHour(records []commute.Record, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	var counts [24]int
	for _, r := range records {
		counts[time.UnixMilli(r.Timestamp).In(loc).Hour()]++
	}
	peak := 0
	for h := 1; h < 24; h++ {
		if counts[h] > counts[peak] {
			peak = h
		}
	}
	return peak
}

func AverageAirQuality(records []commute.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += float64(r.AirQualityIndex)
	}
	return sum / float64(len(records))
}

// TotalCarbonSaved sums, per record, the CO2 avoided against driving it by car.
func TotalCarbonSaved(records []commute.Record) float64 {
	var saved float64
	for _, r := range records {
		saved += math.Max(0, emission.CarbonFootprint(r.Distance, emission.Car)-r.CarbonFootprint)
	}
	return saved
}

func TotalDistance(records []commute.Record) float64 {
	var d float64
	for _, r := range records {
		d += r.Distance
	}
	return d
}

func recommend(n int, avgAir float64, best emission.Mode, saved float64) string {
	switch {
	case n > 0 && avgAir < 50:
		return RecommendAirQuality
	case best == emission.Bike:
		return RecommendBike
	case saved > 5000:
		return RecommendSavings
	default:
		return RecommendDefault
	}
}
