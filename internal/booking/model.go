package booking

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Availability is one doctor's bookable time window. StartTime and EndTime
// are opaque tokens compared only for exact equality; no calendar semantics.
type Availability struct {
	ID          uint64
	DoctorID    uint64
	DayOfWeek   uint8
	StartTime   string
	EndTime     string
	IsAvailable bool
}

// Appointment is a booking against one of a doctor's availability slots.
// Slot links to Availability by value: it must equal the StartTime of the
// claimed record, scoped to DoctorID. AvailabilityID records which record
// was actually claimed at creation so cancel/complete can release the exact
// slot; it is never exposed to callers.
type Appointment struct {
	ID              uint64
	PatientID       uint64
	DoctorID        uint64
	PhoneNo         string
	Slot            string
	Reason          string
	Symtoms         string
	Status          AppointmentStatus
	AppointmentType string

	AvailabilityID *uint64
}
