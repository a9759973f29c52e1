package booking

import (
	"context"
	"errors"
)

var (
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrAvailabilityNotFound = errors.New("availability not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")

	// ErrSlotUnavailable carries the original user-facing message.
	ErrSlotUnavailable = errors.New("Selected slot is not available")

	ErrInvalidDayOfWeek = errors.New("invalid day of the week")
	ErrEmptyTimeWindow  = errors.New("start time or end time cannot be empty")
	ErrEmptyPhoneNo     = errors.New("phone_no cannot be empty")
)

// Repository contains all storage interactions needed by the two services.
// Both collections are keyed by a 64-bit id from a shared allocator.
type Repository interface {
	InsertAvailability(ctx context.Context, av Availability) error
	GetAvailability(ctx context.Context, id uint64) (*Availability, error)
	// UpdateAvailability fully replaces the record, returning
	// ErrAvailabilityNotFound if the id is absent.
	UpdateAvailability(ctx context.Context, av Availability) error
	DeleteAvailability(ctx context.Context, id uint64) error
	ListAvailabilities(ctx context.Context) ([]Availability, error)
	// ListAvailabilitiesByDoctor returns the doctor's slots; onlyFree
	// restricts to is_available = true.
	ListAvailabilitiesByDoctor(ctx context.Context, doctorID uint64, onlyFree bool) ([]Availability, error)

	// ClaimSlot flips the first free availability matching (doctorID,
	// start_time == slot) to unavailable and returns it, or
	// ErrSlotUnavailable when no free match exists.
	ClaimSlot(ctx context.Context, doctorID uint64, slot string) (*Availability, error)
	// ReleaseSlot sets is_available on the first availability matching
	// (doctorID, start_time == slot). Silent no-op when nothing matches.
	ReleaseSlot(ctx context.Context, doctorID uint64, slot string, available bool) error
	// ReleaseSlotByID re-opens the exact availability record. Silent no-op
	// when the record no longer exists.
	ReleaseSlotByID(ctx context.Context, id uint64) error

	InsertAppointment(ctx context.Context, ap Appointment) error
	GetAppointment(ctx context.Context, id uint64) (*Appointment, error)
	// UpdateAppointment fully replaces the record, returning
	// ErrAppointmentNotFound if the id is absent.
	UpdateAppointment(ctx context.Context, ap Appointment) error
	DeleteAppointment(ctx context.Context, id uint64) error
	ListAppointments(ctx context.Context) ([]Appointment, error)
	ListAppointmentsByDoctor(ctx context.Context, doctorID uint64) ([]Appointment, error)
	ListAppointmentsByPatient(ctx context.Context, patientID uint64) ([]Appointment, error)
}
