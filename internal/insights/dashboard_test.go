package insights

import (
	"testing"
	"time"

	"backend-ecocommute/internal/commute"
	"backend-ecocommute/internal/emission"
)

func TestBuildDashboard(t *testing.T) {
	records := []commute.Record{
		rec("today", now.Add(-time.Hour), emission.PublicTransit, 10, 30, 90),          // 350 g
		rec("yesterday", now.Add(-25*time.Hour), emission.ElectricVehicle, 10, 20, 70), // 450 g
		rec("last-week", now.Add(-8*24*time.Hour), emission.Car, 5, 15, 80),            // outside weekly chart
		rec("ancient", now.Add(-60*24*time.Hour), emission.Car, 500, 600, 10),          // outside the month
	}

	d := BuildDashboard(records, now)
	if d.TotalCommutes != 3 {
		t.Fatalf("expected 3 commutes in the month, got %d", d.TotalCommutes)
	}
	if d.TotalDistance != 25 {
		t.Fatalf("expected 25 km, got %v", d.TotalDistance)
	}
	wantSaved := 850.0 + 750.0 + 0.0
	if d.CO2Saved != wantSaved {
		t.Fatalf("expected %v g saved, got %v", wantSaved, d.CO2Saved)
	}
	if d.MoneySaved != wantSaved*0.05 {
		t.Fatalf("unexpected money saved %v", d.MoneySaved)
	}
	if d.AverageAirQuality != 80 {
		t.Fatalf("expected average 80, got %v", d.AverageAirQuality)
	}
	if d.WeeklyCO2[6] != 350 || d.WeeklyCO2[5] != 450 {
		t.Fatalf("unexpected weekly series %v", d.WeeklyCO2)
	}
	for i := 0; i < 5; i++ {
		if d.WeeklyCO2[i] != 0 {
			t.Fatalf("expected empty bucket %d, got %v", i, d.WeeklyCO2[i])
		}
	}

	earned := map[string]bool{}
	for _, b := range d.Badges {
		earned[b.ID] = b.Earned
	}
	if len(d.Badges) != 4 {
		t.Fatalf("expected four badges")
	}
	if earned["eco-warrior"] || !earned["carbon-saver"] || !earned["clean-air"] || earned["distance-master"] {
		t.Fatalf("unexpected badges %+v", d.Badges)
	}
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(nil, now)
	if d.TotalCommutes != 0 || d.AverageAirQuality != 0 || d.MoneySaved != 0 {
		t.Fatalf("expected zero dashboard, got %+v", d)
	}
	for _, b := range d.Badges {
		if b.Earned {
			t.Fatalf("no badge should be earned without history")
		}
	}
}
