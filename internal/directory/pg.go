package directory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DB matches pgxpool.Pool; pgxmock satisfies it for tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgDirectory struct {
	db DB
}

func NewPgDirectory(db DB) *PgDirectory {
	return &PgDirectory{db: db}
}

func (d *PgDirectory) DoctorExists(ctx context.Context, doctorID uint64) (bool, error) {
	var exists bool
	err := d.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM doctors WHERE id = $1)`, doctorID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("doctor exists: %w", err)
	}
	return exists, nil
}

func (d *PgDirectory) PatientExists(ctx context.Context, patientID uint64) (bool, error) {
	var exists bool
	err := d.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, patientID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("patient exists: %w", err)
	}
	return exists, nil
}
