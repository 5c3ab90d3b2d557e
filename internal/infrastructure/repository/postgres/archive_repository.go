package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/redzone/internal/domain/archive"
)

const upsertArchiveRecordQuery = `
INSERT INTO archive_records (
    source, entity_type, entity_key, season, week, payload, payload_hash, captured_at
) VALUES (
    :source, :entity_type, :entity_key, :season, :week, :payload, :payload_hash, :captured_at
)
ON CONFLICT (source, entity_type, entity_key)
DO UPDATE SET
    season = EXCLUDED.season,
    week = EXCLUDED.week,
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    captured_at = EXCLUDED.captured_at`

type ArchiveRepository struct {
	db *sqlx.DB
}

func NewArchiveRepository(db *sqlx.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) UpsertMany(ctx context.Context, items []archive.Record) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert archive records: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		payload := item.PayloadJSON
		if !jsoniter.Valid([]byte(payload)) {
			// The payload column is jsonb; wrap anything malformed so the
			// insert does not fail on provider garbage.
			wrapped, marshalErr := jsoniter.Marshal(map[string]string{"raw": payload})
			if marshalErr != nil {
				return fmt.Errorf("wrap malformed payload entity=%s key=%s: %w", item.EntityType, item.EntityKey, marshalErr)
			}
			payload = string(wrapped)
		}

		insertModel := archiveRecordInsertModel{
			Source:      item.Source,
			EntityType:  item.EntityType,
			EntityKey:   item.EntityKey,
			Season:      item.Season,
			Week:        item.Week,
			Payload:     payload,
			PayloadHash: hashPayload(payload),
			CapturedAt:  item.CapturedAt.UTC(),
		}
		if _, err := tx.NamedExecContext(ctx, upsertArchiveRecordQuery, insertModel); err != nil {
			return fmt.Errorf("upsert archive record entity=%s key=%s: %w", item.EntityType, item.EntityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert archive records tx: %w", err)
	}

	return nil
}

type archiveRecordInsertModel struct {
	Source      string    `db:"source"`
	EntityType  string    `db:"entity_type"`
	EntityKey   string    `db:"entity_key"`
	Season      int       `db:"season"`
	Week        int       `db:"week"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	CapturedAt  time.Time `db:"captured_at"`
}

func hashPayload(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
