package commute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"backend-ecocommute/internal/emission"
	"backend-ecocommute/internal/kv"
	"backend-ecocommute/internal/logging"

	"github.com/google/uuid"
)

const (
	RecordsKey     = "ecocommute-data"
	PreferencesKey = "ecocommute-prefs"
)

// Store owns the commute history and the current preferences. Every mutation
// is written through to the key-value store before it becomes visible.
type Store struct {
	kv     kv.Store
	logger *slog.Logger

	mu      sync.RWMutex
	records []Record
	prefs   Preferences
}

// Open restores prior state from kv. Missing or unreadable entries start
// empty (records) or at defaults (preferences).
func Open(ctx context.Context, store kv.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Store{
		kv:      store,
		logger:  logger,
		records: []Record{},
		prefs:   DefaultPreferences(),
	}

	var records []Record
	if s.load(ctx, RecordsKey, &records) && records != nil {
		s.records = records
	}

	prefs := DefaultPreferences()
	if s.load(ctx, PreferencesKey, &prefs) {
		if !prefs.TransportMode.Valid() {
			m, ok := emission.ParseMode(string(prefs.TransportMode))
			if !ok {
				m = emission.Bike
			}
			prefs.TransportMode = m
		}
		s.prefs = prefs
	}
	return s
}

func (s *Store) load(ctx context.Context, key string, dst any) bool {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn("persisted state unavailable, starting fresh", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("persisted state malformed, ignoring", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) commit(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Record, len(s.records), len(s.records)+1)
	copy(next, s.records)
	next = append(next, rec)

	if err := s.commit(ctx, RecordsKey, next); err != nil {
		return err
	}
	s.records = next
	return nil
}

// All returns a snapshot of the history in insertion order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.kv.Delete(ctx, RecordsKey)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", RecordsKey, err)
	}
	s.records = []Record{}
	return nil
}

func (s *Store) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

func (s *Store) UpdatePreferences(ctx context.Context, patch PreferencesPatch) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs.Apply(patch)
	if err := s.commit(ctx, PreferencesKey, next); err != nil {
		return Preferences{}, err
	}
	s.prefs = next
	return next, nil
}

// NewRecord finalises client-measured trip data into a record, deriving the
// id, timestamp, mode and footprint where they are not supplied.
func NewRecord(in RecordInput, prefs Preferences, now time.Time) Record {
	mode := prefs.TransportMode
	if m, ok := emission.ParseMode(in.TransportMode); ok {
		mode = m
	}
	ts := in.Timestamp
	if ts == 0 {
		ts = now.UnixMilli()
	}
	route := in.Route
	if route == nil {
		route = []Coordinate{}
	}

	return Record{
		ID:              uuid.NewString(),
		Timestamp:       ts,
		StartLocation:   in.StartLocation,
		EndLocation:     in.EndLocation,
		Route:           route,
		Distance:        in.Distance,
		Duration:        in.Duration,
		TransportMode:   mode,
		CarbonFootprint: emission.CarbonFootprint(in.Distance, mode),
		AirQualityIndex: in.AirQualityIndex,
		NetworkType:     in.NetworkType,
	}
}
