package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"backend-ecocommute/internal/commute"
	"backend-ecocommute/internal/logging"
	"backend-ecocommute/internal/network"
	"backend-ecocommute/internal/shared/geo"

	"github.com/google/uuid"
)

var (
	ErrAlreadyTracking = errors.New("a tracking session is already active")
	ErrNotTracking     = errors.New("no tracking session is active")
)

const (
	StartTimeout     = 10 * time.Second
	hotspotThreshold = 75
	initialAirIndex  = 50
)

// Broadcaster publishes live progress for a session.
type Broadcaster interface {
	Broadcast(sessionID string, payload []byte)
}

type session struct {
	id        string
	startedAt time.Time
	start     commute.Coordinate
	path      []commute.Coordinate
	distance  float64
	aqi       int
	hotspot   bool
}

// Tracker runs at most one location-tracking session at a time and turns it
// into a commute record when the session stops.
type Tracker struct {
	store   *commute.Store
	monitor *network.Monitor
	hub     Broadcaster
	logger  *slog.Logger

	now       func() time.Time
	sampleAQI func() int

	mu       sync.Mutex
	starting bool
	active   *session
	current  *Reading
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithAirQualitySampler replaces the simulated 1..100 air quality reading.
func WithAirQualitySampler(sample func() int) Option {
	return func(t *Tracker) { t.sampleAQI = sample }
}

func NewTracker(store *commute.Store, monitor *network.Monitor, hub Broadcaster, logger *slog.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = logging.Discard()
	}
	if monitor == nil {
		monitor = network.NewMonitor(logger)
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var rngMu sync.Mutex
	t := &Tracker{
		store:   store,
		monitor: monitor,
		hub:     hub,
		logger:  logger,
		now:     time.Now,
		sampleAQI: func() int {
			rngMu.Lock()
			defer rngMu.Unlock()
			return rng.Intn(100) + 1
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start acquires an initial position and opens a session. A location failure
// leaves the tracker idle.
func (t *Tracker) Start(ctx context.Context, loc Locator) (Status, error) {
	t.mu.Lock()
	if t.active != nil || t.starting {
		t.mu.Unlock()
		return Status{}, ErrAlreadyTracking
	}
	t.starting = true
	t.mu.Unlock()

	reading, err := t.acquire(ctx, loc)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.starting = false
	if err != nil {
		t.logger.Warn("tracking start failed", "error", err)
		return Status{}, err
	}

	now := t.now()
	if reading.Timestamp == 0 {
		reading.Timestamp = now.UnixMilli()
	}
	t.current = &reading
	t.active = &session{
		id:        uuid.NewString(),
		startedAt: now,
		start:     reading.Coordinate(),
		path:      []commute.Coordinate{},
		aqi:       initialAirIndex,
	}
	t.logger.Info("tracking started", "session_id", t.active.id)
	return t.statusLocked(now), nil
}

func (t *Tracker) acquire(ctx context.Context, loc Locator) (Reading, error) {
	if loc == nil {
		return Reading{}, ErrUnsupported
	}
	ctx, cancel := context.WithTimeout(ctx, StartTimeout)
	defer cancel()

	reading, err := loc.Current(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Reading{}, ErrTimeout
		}
		return Reading{}, err
	}
	return reading, nil
}

// AddReading extends the active session's path and reports its progress.
func (t *Tracker) AddReading(ctx context.Context, r Reading) (Progress, error) {
	t.mu.Lock()
	s := t.active
	if s == nil {
		t.mu.Unlock()
		return Progress{}, ErrNotTracking
	}

	now := t.now()
	if r.Timestamp == 0 {
		r.Timestamp = now.UnixMilli()
	}
	point := r.Coordinate()
	if n := len(s.path); n > 0 {
		prev := s.path[n-1]
		s.distance += geo.HaversineKm(prev.Lat, prev.Lng, point.Lat, point.Lng)
	}
	s.path = append(s.path, point)
	s.aqi = t.sampleAQI()
	s.hotspot = s.aqi > hotspotThreshold
	t.current = &r

	progress := Progress{
		SessionID:       s.id,
		Position:        r,
		Points:          len(s.path),
		Distance:        s.distance,
		Duration:        now.Sub(s.startedAt).Milliseconds(),
		AirQualityIndex: s.aqi,
		Hotspot:         s.hotspot,
	}
	t.mu.Unlock()

	if progress.Hotspot {
		t.logger.Info("pollution hotspot", "session_id", progress.SessionID, "aqi", progress.AirQualityIndex)
	}
	if t.hub != nil {
		payload, err := json.Marshal(progress)
		if err == nil {
			t.hub.Broadcast(progress.SessionID, payload)
		}
	}
	return progress, nil
}

// Stop ends the active session. When at least one reading was recorded the
// session is stored as a commute record and returned; otherwise the result
// is nil. A failed write keeps the session open.
func (t *Tracker) Stop(ctx context.Context) (*commute.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.active
	if s == nil {
		return nil, ErrNotTracking
	}
	if len(s.path) == 0 {
		t.active = nil
		t.logger.Info("tracking stopped without readings", "session_id", s.id)
		return nil, nil
	}

	now := t.now()
	end := s.start
	if t.current != nil {
		end = t.current.Coordinate()
	}
	rec := commute.NewRecord(commute.RecordInput{
		Timestamp:       now.UnixMilli(),
		StartLocation:   s.start,
		EndLocation:     end,
		Route:           append([]commute.Coordinate(nil), s.path...),
		Distance:        s.distance,
		Duration:        now.Sub(s.startedAt).Milliseconds(),
		AirQualityIndex: s.aqi,
		NetworkType:     t.monitor.Current().EffectiveType,
	}, t.store.Preferences(), now)

	if err := t.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("store tracked commute: %w", err)
	}
	t.active = nil
	t.logger.Info("tracking stopped", "session_id", s.id, "record_id", rec.ID, "distance_km", rec.Distance)
	return &rec, nil
}

func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked(t.now())
}

func (t *Tracker) statusLocked(now time.Time) Status {
	var st Status
	if t.current != nil {
		c := t.current.Coordinate()
		st.CurrentLocation = &c
	}
	s := t.active
	if s == nil {
		return st
	}
	start := s.start
	st.Active = true
	st.SessionID = s.id
	st.StartedAt = s.startedAt.UnixMilli()
	st.StartLocation = &start
	st.Points = len(s.path)
	st.Distance = s.distance
	st.Duration = now.Sub(s.startedAt).Milliseconds()
	st.AirQualityIndex = s.aqi
	st.Hotspot = s.hotspot
	return st
}

// CurrentLocation is the last position seen by the tracker, kept after a
// session ends.
func (t *Tracker) CurrentLocation() (commute.Coordinate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return commute.Coordinate{}, false
	}
	return t.current.Coordinate(), true
}
