package idgen

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgAllocator draws ids from the record_ids sequence, the single counter
// shared by every record type in the system.
type PgAllocator struct {
	db DB
}

func NewPgAllocator(db DB) *PgAllocator {
	return &PgAllocator{db: db}
}

func (a *PgAllocator) Next(ctx context.Context) (uint64, error) {
	var id uint64
	if err := a.db.QueryRow(ctx, `SELECT nextval('record_ids')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("next record id: %w", err)
	}
	return id, nil
}
