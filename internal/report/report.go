package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"backend-ecocommute/internal/commute"
	"backend-ecocommute/internal/insights"
)

type Report struct {
	Period      insights.Period   `json:"period"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Insights    insights.Insights `json:"insights"`
}

// Build summarises the records that fall inside period's window ending at now.
func Build(records []commute.Record, period insights.Period, now time.Time, loc *time.Location) Report {
	if loc == nil {
		loc = time.Local
	}
	return Report{
		Period:      period,
		GeneratedAt: now.In(loc),
		Insights:    insights.Compute(records, period, now, loc),
	}
}

func FileName(period insights.Period) string {
	return fmt.Sprintf("ecocommute-report-%s.txt", period)
}

// Render lays the report out as a plain-text document.
func Render(r Report) []byte {
	in := r.Insights
	best := string(in.BestTransportMode)
	if best == "" {
		best = "n/a"
	}

	var b bytes.Buffer
	fmt.Fprintln(&b, "EcoCommute Report")
	fmt.Fprintf(&b, "Period: %s\n", strings.ToUpper(string(r.Period)))
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format(time.RFC1123))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Summary Statistics")
	fmt.Fprintf(&b, "Total Commutes: %d\n", in.TotalCommutes)
	fmt.Fprintf(&b, "Total Distance: %.1f km\n", in.TotalDistance)
	fmt.Fprintf(&b, "CO2 Saved: %.2f kg\n", in.TotalCarbonSaved/1000)
	fmt.Fprintf(&b, "Average Air Quality: %.0f (%s)\n", in.AverageAirQuality, in.AirQualityLabel)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Key Insights")
	fmt.Fprintf(&b, "Best Transport Mode: %s\n", best)
	fmt.Fprintf(&b, "Peak Commute Time: %s\n", in.PeakCommuteTime)
	fmt.Fprintf(&b, "Recommendation: %s\n", in.Recommendation)
	return b.Bytes()
}
