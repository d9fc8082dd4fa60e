package route

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"backend-ecocommute/internal/commute"
	"backend-ecocommute/internal/emission"
)

// Generator produces candidate routes for a query. A nil result with a nil
// error means the query was incomplete and nothing was generated.
type Generator interface {
	Generate(ctx context.Context, q Query) ([]Option, error)
}

// DefaultCenter is the point mock polylines are scattered around.
var DefaultCenter = commute.Coordinate{Lat: 37.7749, Lng: -122.4194}

const (
	DefaultLatency = 1500 * time.Millisecond
	jitterDegrees  = 0.1
)

type template struct {
	mode         emission.Mode
	distanceMul  float64
	durationMul  float64
	cost         float64
	difficulty   Difficulty
	airQuality   int
	instructions []string
}

var templates = []template{
	{
		mode: emission.Bike, distanceMul: 0.9, durationMul: 1.2, cost: 0, difficulty: Moderate, airQuality: 85,
		instructions: []string{
			"Head east on Main St",
			"Turn left on Green Avenue",
			"Take the bike path through Central Park",
			"Continue straight for 2.5 km",
			"Arrive at destination",
		},
	},
	{
		mode: emission.PublicTransit, distanceMul: 1.1, durationMul: 0.8, cost: 3.50, difficulty: Easy, airQuality: 92,
		instructions: []string{
			"Walk to Metro Station (5 min)",
			"Take Green Line to City Center (15 min)",
			"Transfer to Blue Line (18 min)",
			"Walk to destination (3 min)",
		},
	},
	{
		mode: emission.ElectricVehicle, distanceMul: 1.0, durationMul: 0.6, cost: 2.20, difficulty: Easy, airQuality: 78,
		instructions: []string{
			"Head north on Highway 101",
			"Take Exit 23 toward Downtown",
			"Turn right on Business District Ave",
			"Destination on the right",
		},
	},
	{
		mode: emission.Walk, distanceMul: 0.8, durationMul: 3.0, cost: 0, difficulty: Hard, airQuality: 90,
		instructions: []string{
			"Head south on pedestrian path",
			"Cross at Main Street intersection",
			"Continue through Riverside Park",
			"Follow scenic route along the river",
			"Arrive at destination",
		},
	},
}

// MockGenerator fabricates four options around a random base trip.
type MockGenerator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	latency time.Duration
	center  commute.Coordinate
}

func NewMockGenerator(rng *rand.Rand, latency time.Duration, center commute.Coordinate) *MockGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if latency < 0 {
		latency = 0
	}
	return &MockGenerator{rng: rng, latency: latency, center: center}
}

func (g *MockGenerator) Generate(ctx context.Context, q Query) ([]Option, error) {
	if strings.TrimSpace(q.Origin) == "" || strings.TrimSpace(q.Destination) == "" {
		return nil, nil
	}

	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	baseDistance := 5 + g.rng.Float64()*10
	baseDuration := 20 + g.rng.Float64()*30

	options := make([]Option, 0, len(templates))
	for i, t := range templates {
		distance := baseDistance * t.distanceMul
		footprint := emission.CarbonFootprint(distance, t.mode)
		if t.mode == emission.Walk {
			footprint = 0
		}
		options = append(options, Option{
			ID:              strconv.Itoa(i + 1),
			Type:            t.mode,
			Distance:        distance,
			Duration:        baseDuration * t.durationMul,
			CarbonFootprint: footprint,
			Cost:            t.cost,
			Difficulty:      t.difficulty,
			AirQualityScore: t.airQuality,
			Route:           g.polyline(distance),
			Instructions:    append([]string(nil), t.instructions...),
		})
	}

	Sort(options, q.EcoFriendlyPriority)
	return options, nil
}

// polyline scatters two points per kilometre around the centre. Callers hold g.mu.
func (g *MockGenerator) polyline(distance float64) []commute.Coordinate {
	n := int(math.Floor(distance * 2))
	points := make([]commute.Coordinate, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, commute.Coordinate{
			Lat: g.center.Lat + (g.rng.Float64()-0.5)*jitterDegrees,
			Lng: g.center.Lng + (g.rng.Float64()-0.5)*jitterDegrees,
		})
	}
	return points
}

// Sort orders options by footprint when eco-friendly routes are preferred and
// by duration otherwise. Ties keep their existing order.
func Sort(options []Option, ecoFriendly bool) {
	if ecoFriendly {
		sort.SliceStable(options, func(i, j int) bool {
			return options[i].CarbonFootprint < options[j].CarbonFootprint
		})
		return
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Duration < options[j].Duration
	})
}
