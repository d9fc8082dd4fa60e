package insights

import (
	"math"
	"testing"
	"time"

	"backend-ecocommute/internal/commute"
	"backend-ecocommute/internal/emission"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func rec(id string, ts time.Time, mode emission.Mode, distance float64, durationMin int64, aqi int) commute.Record {
	return commute.Record{
		ID:              id,
		Timestamp:       ts.UnixMilli(),
		Distance:        distance,
		Duration:        durationMin * int64(time.Minute/time.Millisecond),
		TransportMode:   mode,
		CarbonFootprint: emission.CarbonFootprint(distance, mode),
		AirQualityIndex: aqi,
	}
}

func ids(records []commute.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilterWindows(t *testing.T) {
	records := []commute.Record{
		rec("recent", now.Add(-24*time.Hour), emission.Bike, 5, 20, 80),
		rec("old", now.Add(-400*24*time.Hour), emission.Bike, 5, 20, 80),
	}

	if got := ids(Filter(records, Week, now)); len(got) != 1 || got[0] != "recent" {
		t.Fatalf("week window: %v", got)
	}
	if got := ids(Filter(records, Year, now)); len(got) != 1 || got[0] != "recent" {
		t.Fatalf("year window: %v", got)
	}
}

func TestFilterBoundary(t *testing.T) {
	records := []commute.Record{
		rec("at-cutoff", now.Add(-365*24*time.Hour), emission.Bike, 1, 1, 50),
		rec("inside", now.Add(-365*24*time.Hour+time.Millisecond), emission.Bike, 1, 1, 50),
	}
	got := ids(Filter(records, Year, now))
	if len(got) != 1 || got[0] != "inside" {
		t.Fatalf("expected only the record inside the window, got %v", got)
	}
}

func TestParsePeriod(t *testing.T) {
	for _, p := range []string{"week", "month", "year"} {
		if _, ok := ParsePeriod(p); !ok {
			t.Fatalf("expected %q to parse", p)
		}
	}
	if _, ok := ParsePeriod("decade"); ok {
		t.Fatalf("expected unknown period to fail")
	}
	if Week.Window() != 7*24*time.Hour || Month.Window() != 30*24*time.Hour || Year.Window() != 365*24*time.Hour {
		t.Fatalf("unexpected windows")
	}
}

func TestComputeEmpty(t *testing.T) {
	in := Compute(nil, Month, now, time.UTC)
	if in.MostEfficientRoute != "" || in.BestTransportMode != "" {
		t.Fatalf("expected empty ids, got %+v", in)
	}
	if in.AverageAirQuality != 0 || math.IsNaN(in.AverageAirQuality) {
		t.Fatalf("expected zero air quality, got %v", in.AverageAirQuality)
	}
	if in.PeakHour != 0 || in.PeakCommuteTime != "0:00" {
		t.Fatalf("expected peak hour 0, got %d", in.PeakHour)
	}
	if in.Recommendation == RecommendAirQuality {
		t.Fatalf("air quality advice must not be chosen for an empty window")
	}
	if in.Recommendation != RecommendDefault {
		t.Fatalf("unexpected recommendation %q", in.Recommendation)
	}
}

func TestComputeBikeOnly(t *testing.T) {
	records := []commute.Record{
		rec("b1", now, emission.Bike, 4, 15, 90),
		rec("b2", now.Add(-time.Hour), emission.Bike, 6, 25, 90),
	}
	in := Compute(records, Week, now, time.UTC)
	if in.BestTransportMode != emission.Bike {
		t.Fatalf("expected bike, got %q", in.BestTransportMode)
	}
	if in.Recommendation != RecommendBike {
		t.Fatalf("expected bike recommendation, got %q", in.Recommendation)
	}
	if in.TotalCommutes != 2 || in.TotalDistance != 10 {
		t.Fatalf("unexpected totals %+v", in)
	}
	if in.TotalCarbonSaved != 1200 {
		t.Fatalf("expected 1200 g saved, got %v", in.TotalCarbonSaved)
	}
	if in.AirQualityLabel != "Excellent" {
		t.Fatalf("unexpected label %q", in.AirQualityLabel)
	}
}

func TestMostEfficientRoute(t *testing.T) {
	records := []commute.Record{
		rec("slow", now, emission.Walk, 2, 30, 80),
		rec("fast", now, emission.ElectricVehicle, 20, 30, 80),
		rec("fast-too", now, emission.ElectricVehicle, 20, 30, 80),
	}
	if got := MostEfficientRoute(records); got != "fast" {
		t.Fatalf("expected first of the tied fastest records, got %q", got)
	}

	zero := []commute.Record{rec("z1", now, emission.Bike, 1, 0, 80), rec("z2", now, emission.Bike, 0, 0, 80)}
	if got := MostEfficientRoute(zero); got != "z1" {
		t.Fatalf("expected first record when no duration is known, got %q", got)
	}
}

func TestMostEfficientRouteUntimedTrips(t *testing.T) {
	slow := commute.Record{ID: "slow", Distance: 1, Duration: 1000}
	instant := commute.Record{ID: "instant", Distance: 2, Duration: 0}
	if got := MostEfficientRoute([]commute.Record{slow, instant}); got != "instant" {
		t.Fatalf("expected untimed trip with distance to win, got %q", got)
	}

	also := commute.Record{ID: "also-instant", Distance: 5, Duration: 0}
	if got := MostEfficientRoute([]commute.Record{instant, also}); got != "instant" {
		t.Fatalf("expected first untimed trip on a tie, got %q", got)
	}

	still := commute.Record{ID: "still", Distance: 0, Duration: 0}
	if got := MostEfficientRoute([]commute.Record{still, slow}); got != "slow" {
		t.Fatalf("expected a trip with no distance to rank lowest, got %q", got)
	}
}

func TestBestTransportModeTieKeepsFirstGroup(t *testing.T) {
	records := []commute.Record{
		rec("w", now, emission.Walk, 3, 40, 80),
		rec("b", now, emission.Bike, 5, 20, 80),
		rec("c", now, emission.Car, 5, 10, 80),
	}
	if got := BestTransportMode(records); got != emission.Walk {
		t.Fatalf("expected walk (first zero-mean group), got %q", got)
	}
}

func TestBestTransportModeMean(t *testing.T) {
	records := []commute.Record{
		rec("p1", now, emission.PublicTransit, 10, 30, 80),   // 350
		rec("e1", now, emission.ElectricVehicle, 2, 10, 80),  // 90
		rec("e2", now, emission.ElectricVehicle, 10, 20, 80), // 450, mean 270
	}
	if got := BestTransportMode(records); got != emission.ElectricVehicle {
		t.Fatalf("expected electric-vehicle, got %q", got)
	}
}

func TestPeakHour(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	records := []commute.Record{
		rec("a", day.Add(17*time.Hour), emission.Bike, 1, 1, 80),
		rec("b", day.Add(8*time.Hour), emission.Bike, 1, 1, 80),
		rec("c", day.Add(17*time.Hour+30*time.Minute), emission.Bike, 1, 1, 80),
		rec("d", day.Add(8*time.Hour+5*time.Minute), emission.Bike, 1, 1, 80),
	}
	if got := PeakHour(records, time.UTC); got != 8 {
		t.Fatalf("expected lowest tied hour 8, got %d", got)
	}

	records = append(records, rec("e", day.Add(17*time.Hour+45*time.Minute), emission.Bike, 1, 1, 80))
	if got := PeakHour(records, time.UTC); got != 17 {
		t.Fatalf("expected hour 17, got %d", got)
	}

	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	if got := PeakHour(records, plusTwo); got != 19 {
		t.Fatalf("expected local hour 19, got %d", got)
	}
}

func TestTotalCarbonSavedPerRecord(t *testing.T) {
	heavy := rec("heavy", now, emission.Car, 10, 20, 80)
	heavy.CarbonFootprint = 2000 // worse than a car; must not offset other savings
	records := []commute.Record{heavy, rec("bike", now, emission.Bike, 5, 20, 80)}

	if got := TotalCarbonSaved(records); got != 600 {
		t.Fatalf("expected 600 g saved, got %v", got)
	}
}

func TestRecommendationOrder(t *testing.T) {
	smoggyBike := []commute.Record{rec("b", now, emission.Bike, 50, 120, 30)}
	if got := Compute(smoggyBike, Week, now, time.UTC).Recommendation; got != RecommendAirQuality {
		t.Fatalf("expected air quality advice first, got %q", got)
	}

	bigSaver := []commute.Record{rec("e", now, emission.ElectricVehicle, 100, 120, 70)} // saves 7500 g
	if got := Compute(bigSaver, Week, now, time.UTC).Recommendation; got != RecommendSavings {
		t.Fatalf("expected savings congratulation, got %q", got)
	}

	driver := []commute.Record{rec("c", now, emission.Car, 10, 20, 70)}
	if got := Compute(driver, Week, now, time.UTC).Recommendation; got != RecommendDefault {
		t.Fatalf("expected generic encouragement, got %q", got)
	}
}

func TestAverageAirQuality(t *testing.T) {
	records := []commute.Record{
		rec("a", now, emission.Bike, 1, 1, 40),
		rec("b", now, emission.Bike, 1, 1, 61),
	}
	if got := AverageAirQuality(records); got != 50.5 {
		t.Fatalf("expected 50.5, got %v", got)
	}
}
