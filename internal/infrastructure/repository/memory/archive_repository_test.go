package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/redzone/internal/domain/archive"
)

func TestArchiveRepository_UpsertMany(t *testing.T) {
	repo := NewArchiveRepository()
	capturedAt := time.Date(2025, time.September, 21, 17, 0, 0, 0, time.UTC)

	records := []archive.Record{
		{Source: archive.SourceFantasyAPI, EntityType: archive.EntityLeagueRaw, EntityKey: "league:2025:3", Season: 2025, Week: 3, PayloadJSON: `{"a":1}`, CapturedAt: capturedAt},
		{Source: archive.SourceScoreboard, EntityType: archive.EntityScoreboard, EntityKey: "scoreboard:2025:3", Season: 2025, Week: 3, PayloadJSON: `{"b":2}`, CapturedAt: capturedAt},
	}
	if err := repo.UpsertMany(context.Background(), records); err != nil {
		t.Fatalf("UpsertMany: %v", err)
	}
	if repo.Len() != 2 {
		t.Fatalf("len = %d, want 2", repo.Len())
	}

	// Same key replaces, never duplicates.
	records[0].PayloadJSON = `{"a":99}`
	if err := repo.UpsertMany(context.Background(), records[:1]); err != nil {
		t.Fatalf("UpsertMany replace: %v", err)
	}
	if repo.Len() != 2 {
		t.Fatalf("len after replace = %d, want 2", repo.Len())
	}

	for _, record := range repo.All() {
		if record.EntityKey == "league:2025:3" && record.PayloadJSON != `{"a":99}` {
			t.Fatalf("replace did not take: %+v", record)
		}
	}
}

func TestArchiveRepository_EmptyBatchIsNoop(t *testing.T) {
	repo := NewArchiveRepository()
	if err := repo.UpsertMany(context.Background(), nil); err != nil {
		t.Fatalf("UpsertMany(nil): %v", err)
	}
	if repo.Len() != 0 {
		t.Fatalf("len = %d, want 0", repo.Len())
	}
}
