package archive

import "context"

// Repository persists archive records. Writers treat failures as non-fatal.
type Repository interface {
	UpsertMany(ctx context.Context, items []Record) error
}
