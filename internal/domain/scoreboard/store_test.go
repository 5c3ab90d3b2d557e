package scoreboard

import (
	"errors"
	"testing"
	"time"
)

func TestStore_PublishAndLatest(t *testing.T) {
	store := NewStore()
	now := time.Date(2025, time.November, 30, 18, 0, 0, 0, time.UTC)

	snapshot := &Snapshot{Week: 13, FetchedAt: now, Teams: []Team{{Name: "A"}}}
	store.Publish(snapshot, now)

	state := store.Latest()
	if state.Snapshot != snapshot {
		t.Fatalf("expected published snapshot pointer back")
	}
	if state.Degraded {
		t.Fatalf("fresh publish must not be degraded")
	}
}

func TestStore_MarkFailureKeepsLastSnapshot(t *testing.T) {
	store := NewStore()
	now := time.Date(2025, time.November, 30, 18, 0, 0, 0, time.UTC)

	snapshot := &Snapshot{Week: 13, Teams: []Team{{Name: "A", Score: 99}}}
	store.Publish(snapshot, now)
	store.MarkFailure(errors.New("espn: connection reset"), now.Add(90*time.Second))

	state := store.Latest()
	if state.Snapshot != snapshot {
		t.Fatalf("failure must not clear the previous snapshot")
	}
	if !state.Degraded || state.LastError == "" {
		t.Fatalf("failure must surface degraded state: %+v", state)
	}
	if !state.PublishedAt.Equal(now) {
		t.Fatalf("failure must keep the original publish time")
	}
}

func TestStore_HealthAgeGrowsUntilNextPublish(t *testing.T) {
	store := NewStore()
	base := time.Date(2025, time.November, 30, 18, 0, 0, 0, time.UTC)

	if h := store.HealthAt(base); h.HasSnapshot || h.AgeSeconds != 0 {
		t.Fatalf("empty store health: %+v", h)
	}

	store.Publish(&Snapshot{Week: 13}, base)

	h1 := store.HealthAt(base.Add(30 * time.Second))
	h2 := store.HealthAt(base.Add(60 * time.Second))
	if h1.AgeSeconds < 0 || h2.AgeSeconds <= h1.AgeSeconds {
		t.Fatalf("age must be >= 0 and increasing: %v then %v", h1.AgeSeconds, h2.AgeSeconds)
	}

	store.Publish(&Snapshot{Week: 13}, base.Add(90*time.Second))
	h3 := store.HealthAt(base.Add(91 * time.Second))
	if h3.AgeSeconds >= h2.AgeSeconds {
		t.Fatalf("age must reset after publish: %v", h3.AgeSeconds)
	}
	if h3.Week != 13 {
		t.Fatalf("health week: %d", h3.Week)
	}
}

func TestStore_HealthClampsNegativeAge(t *testing.T) {
	store := NewStore()
	base := time.Date(2025, time.November, 30, 18, 0, 0, 0, time.UTC)
	store.Publish(&Snapshot{Week: 1}, base)

	if h := store.HealthAt(base.Add(-time.Minute)); h.AgeSeconds != 0 {
		t.Fatalf("age must clamp to zero: %v", h.AgeSeconds)
	}
}
