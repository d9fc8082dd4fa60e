package commute

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"backend-ecocommute/internal/emission"
	"backend-ecocommute/internal/kv"
)

type failingKV struct {
	*kv.Memory
	getErr    error
	setErr    error
	deleteErr error
}

func (f *failingKV) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Memory.Delete(ctx, key)
}

func (f *failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Memory.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Memory.Set(ctx, key, value)
}

func sampleRecord(id string) Record {
	return Record{
		ID:              id,
		Timestamp:       time.Now().UnixMilli(),
		StartLocation:   Coordinate{Lat: 37.77, Lng: -122.41},
		EndLocation:     Coordinate{Lat: 37.79, Lng: -122.40},
		Route:           []Coordinate{{Lat: 37.78, Lng: -122.41}, {Lat: 37.79, Lng: -122.40}},
		Distance:        2.5,
		Duration:        600000,
		TransportMode:   emission.Bike,
		CarbonFootprint: 0,
		AirQualityIndex: 82,
		NetworkType:     "4g",
	}
}

func TestOpenEmptyUsesDefaults(t *testing.T) {
	s := Open(context.Background(), kv.NewMemory(), nil)
	if len(s.All()) != 0 {
		t.Fatalf("expected empty history")
	}
	if s.Preferences() != DefaultPreferences() {
		t.Fatalf("expected default preferences, got %+v", s.Preferences())
	}
}

func TestAppendThenAll(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, kv.NewMemory(), nil)

	_ = s.Append(ctx, sampleRecord("a"))
	before := len(s.All())

	rec := sampleRecord("b")
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	all := s.All()
	if len(all) != before+1 {
		t.Fatalf("expected length %d, got %d", before+1, len(all))
	}
	if !reflect.DeepEqual(all[len(all)-1], rec) {
		t.Fatalf("last record differs: %+v", all[len(all)-1])
	}
	if all[0].ID != "a" {
		t.Fatalf("expected insertion order preserved")
	}
}

func TestAllReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, kv.NewMemory(), nil)
	_ = s.Append(ctx, sampleRecord("a"))

	snap := s.All()
	snap[0].ID = "mutated"
	if s.All()[0].ID != "a" {
		t.Fatalf("snapshot mutation leaked into store")
	}
}

func TestAppendPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := Open(ctx, backend, nil)

	rec := sampleRecord("persisted")
	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	raw, err := backend.Get(ctx, RecordsKey)
	if err != nil {
		t.Fatalf("expected records key written: %v", err)
	}
	var stored []Record
	if err := json.Unmarshal(raw, &stored); err != nil || len(stored) != 1 {
		t.Fatalf("unexpected persisted records: %s", raw)
	}

	reloaded := Open(ctx, backend, nil)
	if !reflect.DeepEqual(reloaded.All(), []Record{rec}) {
		t.Fatalf("reloaded history differs: %+v", reloaded.All())
	}
}

func TestOpenMalformedStateIsIgnored(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	_ = backend.Set(ctx, RecordsKey, []byte("{not json"))
	_ = backend.Set(ctx, PreferencesKey, []byte("[1,2,3]"))

	s := Open(ctx, backend, nil)
	if len(s.All()) != 0 {
		t.Fatalf("expected empty history for malformed data")
	}
	if s.Preferences() != DefaultPreferences() {
		t.Fatalf("expected defaults for malformed preferences")
	}
}

func TestOpenNullRecords(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	_ = backend.Set(ctx, RecordsKey, []byte("null"))

	s := Open(ctx, backend, nil)
	if s.All() == nil || len(s.All()) != 0 {
		t.Fatalf("expected empty, non-nil history")
	}
}

func TestOpenBackendErrorIsIgnored(t *testing.T) {
	s := Open(context.Background(), &failingKV{Memory: kv.NewMemory(), getErr: errStore}, nil)
	if len(s.All()) != 0 || s.Preferences() != DefaultPreferences() {
		t.Fatalf("expected fresh state when backend fails")
	}
}

func TestOpenNormalisesLegacyPreferences(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	_ = backend.Set(ctx, PreferencesKey, []byte(`{"transportMode":"ev","avoidTolls":false}`))

	prefs := Open(ctx, backend, nil).Preferences()
	if prefs.TransportMode != emission.ElectricVehicle {
		t.Fatalf("expected ev alias to map to electric-vehicle, got %q", prefs.TransportMode)
	}
	if prefs.AvoidTolls {
		t.Fatalf("expected stored avoidTolls")
	}
	if prefs.MaxTimeIncrease != 20 || !prefs.EcoFriendlyPriority {
		t.Fatalf("expected defaults for absent keys, got %+v", prefs)
	}

	_ = backend.Set(ctx, PreferencesKey, []byte(`{"transportMode":"jetpack"}`))
	if got := Open(ctx, backend, nil).Preferences().TransportMode; got != emission.Bike {
		t.Fatalf("expected unknown mode to fall back to bike, got %q", got)
	}
}

func TestAppendCommitFailureLeavesState(t *testing.T) {
	ctx := context.Background()
	backend := &failingKV{Memory: kv.NewMemory()}
	s := Open(ctx, backend, nil)
	_ = s.Append(ctx, sampleRecord("a"))

	backend.setErr = errStore
	if err := s.Append(ctx, sampleRecord("b")); !errors.Is(err, errStore) {
		t.Fatalf("expected commit error, got %v", err)
	}
	if len(s.All()) != 1 {
		t.Fatalf("expected failed append to leave history unchanged")
	}
}

func TestUpdatePreferencesMergesProvidedKeys(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := Open(ctx, backend, nil)

	mode := emission.PublicTransit
	prefs, err := s.UpdatePreferences(ctx, PreferencesPatch{TransportMode: &mode})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := DefaultPreferences()
	want.TransportMode = emission.PublicTransit
	if prefs != want || s.Preferences() != want {
		t.Fatalf("unexpected preferences %+v", prefs)
	}

	eco := false
	prefs, _ = s.UpdatePreferences(ctx, PreferencesPatch{EcoFriendlyPriority: &eco})
	if prefs.TransportMode != emission.PublicTransit || prefs.EcoFriendlyPriority {
		t.Fatalf("expected earlier update kept and new one applied: %+v", prefs)
	}

	if got := Open(ctx, backend, nil).Preferences(); got != prefs {
		t.Fatalf("expected persisted preferences, got %+v", got)
	}
}

func TestUpdatePreferencesCommitFailure(t *testing.T) {
	ctx := context.Background()
	backend := &failingKV{Memory: kv.NewMemory(), setErr: errStore}
	s := Open(ctx, backend, nil)

	tolls := false
	if _, err := s.UpdatePreferences(ctx, PreferencesPatch{AvoidTolls: &tolls}); err == nil {
		t.Fatalf("expected error")
	}
	if !s.Preferences().AvoidTolls {
		t.Fatalf("expected preferences unchanged after failed commit")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := Open(ctx, backend, nil)
	_ = s.Append(ctx, sampleRecord("a"))

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(s.All()) != 0 || len(Open(ctx, backend, nil).All()) != 0 {
		t.Fatalf("expected empty history after clear")
	}
	if _, err := backend.Get(ctx, RecordsKey); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected records key removed, got %v", err)
	}

	// clearing an already empty history is not an error
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestClearFailureKeepsHistory(t *testing.T) {
	ctx := context.Background()
	backend := &failingKV{Memory: kv.NewMemory()}
	s := Open(ctx, backend, nil)
	_ = s.Append(ctx, sampleRecord("a"))

	backend.deleteErr = errStore
	if err := s.Clear(ctx); !errors.Is(err, errStore) {
		t.Fatalf("expected delete error, got %v", err)
	}
	if len(s.All()) != 1 {
		t.Fatalf("expected history unchanged after failed clear")
	}
}

func TestNewRecordDerivesFields(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	rec := NewRecord(RecordInput{Distance: 10, Duration: 1800000}, DefaultPreferences(), now)

	if rec.ID == "" {
		t.Fatalf("expected generated id")
	}
	if rec.Timestamp != now.UnixMilli() {
		t.Fatalf("expected timestamp from clock")
	}
	if rec.TransportMode != emission.Bike || rec.CarbonFootprint != 0 {
		t.Fatalf("expected preferred mode bike with zero footprint, got %+v", rec)
	}
	if rec.Route == nil {
		t.Fatalf("expected non-nil route")
	}

	rec = NewRecord(RecordInput{Distance: 10, TransportMode: "public", Timestamp: 42}, DefaultPreferences(), now)
	if rec.TransportMode != emission.PublicTransit || rec.CarbonFootprint != 350 || rec.Timestamp != 42 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

var errStore = errors.New("store error")
