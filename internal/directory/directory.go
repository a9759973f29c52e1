// Package directory exposes the narrow existence lookups the booking
// subsystem consumes from the doctor and patient directories. Full directory
// CRUD is owned elsewhere; only these contracts cross into booking.
package directory

import "context"

type DoctorDirectory interface {
	DoctorExists(ctx context.Context, doctorID uint64) (bool, error)
}

type PatientDirectory interface {
	PatientExists(ctx context.Context, patientID uint64) (bool, error)
}
