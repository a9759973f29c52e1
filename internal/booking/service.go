package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/docsched/medical-booking/internal/directory"
	"github.com/docsched/medical-booking/internal/idgen"
	"github.com/docsched/medical-booking/internal/observability/metrics"
	redisclient "github.com/docsched/medical-booking/internal/redis"
)

// AppointmentParams carries the caller-supplied appointment fields. Status is
// accepted on create for wire compatibility but discarded: new appointments
// always start pending.
type AppointmentParams struct {
	PatientID       uint64
	DoctorID        uint64
	PhoneNo         string
	Slot            string
	Reason          string
	Symtoms         string
	Status          AppointmentStatus
	AppointmentType string
}

// AppointmentService is the booking manager: it keeps every appointment's
// lifecycle consistent with the availability slot it occupies. Creating an
// appointment claims the matching free slot; leaving the pending state
// releases it. Deleting an appointment leaves its slot claimed.
type AppointmentService struct {
	repo     Repository
	doctors  directory.DoctorDirectory
	patients directory.PatientDirectory
	ids      idgen.Allocator
	locker   redisclient.Locker
	log      *zap.Logger
	metrics  *metrics.BookingMetrics
}

func NewAppointmentService(
	repo Repository,
	doctors directory.DoctorDirectory,
	patients directory.PatientDirectory,
	ids idgen.Allocator,
	locker redisclient.Locker,
	log *zap.Logger,
	m *metrics.BookingMetrics,
) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		doctors:  doctors,
		patients: patients,
		ids:      ids,
		locker:   locker,
		log:      log,
		metrics:  m,
	}
}

// Create books an appointment against a free availability slot. The
// find-and-claim sequence runs under a per doctor/slot lock so that of N
// concurrent requests for the same slot exactly one succeeds; the rest fail
// with ErrSlotUnavailable. No retries happen here, the caller retries.
func (s *AppointmentService) Create(ctx context.Context, p AppointmentParams) (*Appointment, error) {
	if p.PhoneNo == "" {
		return nil, ErrEmptyPhoneNo
	}

	ok, err := s.doctors.DoctorExists(ctx, p.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("check doctor: %w", err)
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	ok, err = s.patients.PatientExists(ctx, p.PatientID)
	if err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	var created *Appointment

	err = s.locker.WithSlotLock(ctx, p.DoctorID, p.Slot, func(lockCtx context.Context) error {
		av, err := s.repo.ClaimSlot(lockCtx, p.DoctorID, p.Slot)
		if err != nil {
			if errors.Is(err, ErrSlotUnavailable) {
				s.metrics.ObserveSlotClaim("unavailable")
				return err
			}
			return fmt.Errorf("claim slot: %w", err)
		}
		s.metrics.ObserveSlotClaim("claimed")

		id, err := s.ids.Next(lockCtx)
		if err != nil {
			s.rollbackClaim(lockCtx, av.ID)
			return fmt.Errorf("allocate appointment id: %w", err)
		}

		availabilityID := av.ID
		appt := Appointment{
			ID:              id,
			PatientID:       p.PatientID,
			DoctorID:        p.DoctorID,
			PhoneNo:         p.PhoneNo,
			Slot:            p.Slot,
			Reason:          p.Reason,
			Symtoms:         p.Symtoms,
			Status:          StatusPending,
			AppointmentType: p.AppointmentType,
			AvailabilityID:  &availabilityID,
		}

		if err := s.repo.InsertAppointment(lockCtx, appt); err != nil {
			s.rollbackClaim(lockCtx, av.ID)
			return fmt.Errorf("store appointment: %w", err)
		}

		created = &appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			// A concurrent request holds the claim section; report the
			// slot as taken rather than surfacing a conflict error.
			s.metrics.ObserveSlotClaim("locked")
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	s.metrics.ObserveBooking(string(StatusPending))
	s.log.Info("appointment created",
		zap.Uint64("appointment_id", created.ID),
		zap.Uint64("doctor_id", created.DoctorID),
		zap.Uint64("patient_id", created.PatientID),
		zap.String("slot", created.Slot),
	)

	return created, nil
}

// rollbackClaim re-opens a slot claimed earlier in a create that cannot
// complete, so a storage failure never leaves an orphaned claim.
func (s *AppointmentService) rollbackClaim(ctx context.Context, availabilityID uint64) {
	if err := s.repo.ReleaseSlotByID(ctx, availabilityID); err != nil {
		s.log.Error("failed to roll back slot claim",
			zap.Uint64("availability_id", availabilityID),
			zap.Error(err),
		)
	}
}

// Update fully replaces an appointment. When the new status is cancelled or
// confirmed it first releases the slot matching the payload's doctor and
// slot token, not the stored appointment's; callers that change doctor or
// slot in the same request can therefore release a different record.
func (s *AppointmentService) Update(ctx context.Context, id uint64, p AppointmentParams) (*Appointment, error) {
	if p.PhoneNo == "" {
		return nil, ErrEmptyPhoneNo
	}

	current, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Status == StatusCancelled || p.Status == StatusConfirmed {
		if err := s.repo.ReleaseSlot(ctx, p.DoctorID, p.Slot, true); err != nil {
			return nil, fmt.Errorf("release slot: %w", err)
		}
		s.metrics.ObserveSlotRelease("value_match")
	}

	// The claimed-record link survives the update only while it still
	// describes the same doctor/slot pair.
	var availabilityID *uint64
	if p.DoctorID == current.DoctorID && p.Slot == current.Slot {
		availabilityID = current.AvailabilityID
	}

	updated := Appointment{
		ID:              id,
		PatientID:       p.PatientID,
		DoctorID:        p.DoctorID,
		PhoneNo:         p.PhoneNo,
		Slot:            p.Slot,
		Reason:          p.Reason,
		Symtoms:         p.Symtoms,
		Status:          p.Status,
		AppointmentType: p.AppointmentType,
		AvailabilityID:  availabilityID,
	}

	if err := s.repo.UpdateAppointment(ctx, updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Cancel marks the appointment cancelled and releases its slot using the
// stored record, never caller input.
func (s *AppointmentService) Cancel(ctx context.Context, id uint64) (*Appointment, error) {
	return s.close(ctx, id, StatusCancelled)
}

// Complete marks the appointment confirmed and releases its slot. The
// resulting status is "confirmed", not "completed"; the three-state
// lifecycle is pending/confirmed/cancelled.
func (s *AppointmentService) Complete(ctx context.Context, id uint64) (*Appointment, error) {
	return s.close(ctx, id, StatusConfirmed)
}

func (s *AppointmentService) close(ctx context.Context, id uint64, status AppointmentStatus) (*Appointment, error) {
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	appt.Status = status

	// Prefer the exact claimed record; fall back to value matching when the
	// link is gone. Releasing is a plain set, so repeating it is harmless.
	if appt.AvailabilityID != nil {
		if err := s.repo.ReleaseSlotByID(ctx, *appt.AvailabilityID); err != nil {
			return nil, fmt.Errorf("release slot: %w", err)
		}
		s.metrics.ObserveSlotRelease("exact")
	} else {
		if err := s.repo.ReleaseSlot(ctx, appt.DoctorID, appt.Slot, true); err != nil {
			return nil, fmt.Errorf("release slot: %w", err)
		}
		s.metrics.ObserveSlotRelease("value_match")
	}

	if err := s.repo.UpdateAppointment(ctx, *appt); err != nil {
		return nil, err
	}

	s.metrics.ObserveBooking(string(status))
	s.log.Info("appointment closed",
		zap.Uint64("appointment_id", appt.ID),
		zap.String("status", string(status)),
	)

	return appt, nil
}

// Delete removes the appointment record only. The claimed slot, if any,
// stays unavailable; releasing it requires cancel/complete first.
func (s *AppointmentService) Delete(ctx context.Context, id uint64) error {
	return s.repo.DeleteAppointment(ctx, id)
}

func (s *AppointmentService) Get(ctx context.Context, id uint64) (*Appointment, error) {
	return s.repo.GetAppointment(ctx, id)
}

func (s *AppointmentService) List(ctx context.Context) ([]Appointment, error) {
	return s.repo.ListAppointments(ctx)
}

func (s *AppointmentService) ListByDoctor(ctx context.Context, doctorID uint64) ([]Appointment, error) {
	return s.repo.ListAppointmentsByDoctor(ctx, doctorID)
}

func (s *AppointmentService) ListByPatient(ctx context.Context, patientID uint64) ([]Appointment, error) {
	return s.repo.ListAppointmentsByPatient(ctx, patientID)
}
