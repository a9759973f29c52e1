package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it too, which is how the repository is tested.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	db DB
}

func NewPgRepository(db DB) *PgRepository {
	return &PgRepository{db: db}
}

// Helpers

func scanAvailability(row pgx.Row) (*Availability, error) {
	var av Availability
	var day int16

	err := row.Scan(
		&av.ID,
		&av.DoctorID,
		&day,
		&av.StartTime,
		&av.EndTime,
		&av.IsAvailable,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAvailabilityNotFound
		}
		return nil, err
	}

	av.DayOfWeek = uint8(day)
	return &av, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var ap Appointment
	var availabilityID *uint64

	err := row.Scan(
		&ap.ID,
		&ap.PatientID,
		&ap.DoctorID,
		&ap.PhoneNo,
		&ap.Slot,
		&ap.Reason,
		&ap.Symtoms,
		&ap.Status,
		&ap.AppointmentType,
		&availabilityID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	ap.AvailabilityID = availabilityID
	return &ap, nil
}

// Interface methods

func (r *PgRepository) InsertAvailability(ctx context.Context, av Availability) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO availabilities (id, doctor_id, day_of_week, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, av.ID, av.DoctorID, int16(av.DayOfWeek), av.StartTime, av.EndTime, av.IsAvailable)
	if err != nil {
		return fmt.Errorf("insert availability: %w", err)
	}
	return nil
}

func (r *PgRepository) GetAvailability(ctx context.Context, id uint64) (*Availability, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, doctor_id, day_of_week, start_time, end_time, is_available
		FROM availabilities
		WHERE id = $1
	`, id)
	return scanAvailability(row)
}

func (r *PgRepository) UpdateAvailability(ctx context.Context, av Availability) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE availabilities
		SET doctor_id = $2,
		    day_of_week = $3,
		    start_time = $4,
		    end_time = $5,
		    is_available = $6
		WHERE id = $1
	`, av.ID, av.DoctorID, int16(av.DayOfWeek), av.StartTime, av.EndTime, av.IsAvailable)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

func (r *PgRepository) DeleteAvailability(ctx context.Context, id uint64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM availabilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

func (r *PgRepository) ListAvailabilities(ctx context.Context) ([]Availability, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, doctor_id, day_of_week, start_time, end_time, is_available
		FROM availabilities
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAvailabilities(rows)
}

func (r *PgRepository) ListAvailabilitiesByDoctor(ctx context.Context, doctorID uint64, onlyFree bool) ([]Availability, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, doctor_id, day_of_week, start_time, end_time, is_available
		FROM availabilities
		WHERE doctor_id = $1
		  AND ($2 = FALSE OR is_available)
		ORDER BY id
	`, doctorID, onlyFree)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAvailabilities(rows)
}

// ClaimSlot is a single conditional update. The subselect picks a candidate
// row, but the outer is_available guard is what makes the claim atomic: when
// two transactions race for the same row, the loser's post-row-lock recheck
// sees is_available already flipped, matches nothing, and falls into the
// ErrSlotUnavailable path.
func (r *PgRepository) ClaimSlot(ctx context.Context, doctorID uint64, slot string) (*Availability, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE availabilities
		SET is_available = FALSE
		WHERE is_available
		  AND id = (
			SELECT id FROM availabilities
			WHERE doctor_id = $1
			  AND start_time = $2
			  AND is_available
			ORDER BY id
			LIMIT 1
		)
		RETURNING id, doctor_id, day_of_week, start_time, end_time, is_available
	`, doctorID, slot)

	av, err := scanAvailability(row)
	if err != nil {
		if errors.Is(err, ErrAvailabilityNotFound) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}
	return av, nil
}

func (r *PgRepository) ReleaseSlot(ctx context.Context, doctorID uint64, slot string, available bool) error {
	_, err := r.db.Exec(ctx, `
		UPDATE availabilities
		SET is_available = $3
		WHERE id = (
			SELECT id FROM availabilities
			WHERE doctor_id = $1
			  AND start_time = $2
			ORDER BY id
			LIMIT 1
		)
	`, doctorID, slot, available)
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	return nil
}

func (r *PgRepository) ReleaseSlotByID(ctx context.Context, id uint64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE availabilities SET is_available = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("release slot by id: %w", err)
	}
	return nil
}

func (r *PgRepository) InsertAppointment(ctx context.Context, ap Appointment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, phone_no, slot, reason, symtoms, status, appointment_type, availability_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, ap.ID, ap.PatientID, ap.DoctorID, ap.PhoneNo, ap.Slot, ap.Reason, ap.Symtoms, ap.Status, ap.AppointmentType, ap.AvailabilityID)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *PgRepository) GetAppointment(ctx context.Context, id uint64) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, phone_no, slot, reason, symtoms, status, appointment_type, availability_id
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointment(ctx context.Context, ap Appointment) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET patient_id = $2,
		    doctor_id = $3,
		    phone_no = $4,
		    slot = $5,
		    reason = $6,
		    symtoms = $7,
		    status = $8,
		    appointment_type = $9,
		    availability_id = $10
		WHERE id = $1
	`, ap.ID, ap.PatientID, ap.DoctorID, ap.PhoneNo, ap.Slot, ap.Reason, ap.Symtoms, ap.Status, ap.AppointmentType, ap.AvailabilityID)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id uint64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) ListAppointments(ctx context.Context) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, patient_id, doctor_id, phone_no, slot, reason, symtoms, status, appointment_type, availability_id
		FROM appointments
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *PgRepository) ListAppointmentsByDoctor(ctx context.Context, doctorID uint64) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, patient_id, doctor_id, phone_no, slot, reason, symtoms, status, appointment_type, availability_id
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY id
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *PgRepository) ListAppointmentsByPatient(ctx context.Context, patientID uint64) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, patient_id, doctor_id, phone_no, slot, reason, symtoms, status, appointment_type, availability_id
		FROM appointments
		WHERE patient_id = $1
		ORDER BY id
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func collectAvailabilities(rows pgx.Rows) ([]Availability, error) {
	var result []Availability
	for rows.Next() {
		av, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *av)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	var result []Appointment
	for rows.Next() {
		ap, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
