package booking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/docsched/medical-booking/internal/directory"
	"github.com/docsched/medical-booking/internal/idgen"
	"github.com/docsched/medical-booking/internal/observability/metrics"
)

// AvailabilityParams carries the caller-supplied fields for create and
// update; the record id is assigned (create) or addressed (update) separately.
type AvailabilityParams struct {
	DoctorID    uint64
	DayOfWeek   uint8
	StartTime   string
	EndTime     string
	IsAvailable bool
}

// AvailabilityService owns the availability collection: a doctor's bookable
// time windows and the per-record free/claimed flag.
type AvailabilityService struct {
	repo    Repository
	doctors directory.DoctorDirectory
	ids     idgen.Allocator
	log     *zap.Logger
	metrics *metrics.BookingMetrics
}

func NewAvailabilityService(repo Repository, doctors directory.DoctorDirectory, ids idgen.Allocator, log *zap.Logger, m *metrics.BookingMetrics) *AvailabilityService {
	return &AvailabilityService{
		repo:    repo,
		doctors: doctors,
		ids:     ids,
		log:     log,
		metrics: m,
	}
}

func validateAvailabilityParams(p AvailabilityParams) error {
	if p.DayOfWeek > 6 {
		return ErrInvalidDayOfWeek
	}
	if p.StartTime == "" || p.EndTime == "" {
		return ErrEmptyTimeWindow
	}
	return nil
}

// Create validates the window, checks the doctor via the directory lookup,
// and stores a new availability record under a freshly allocated id.
func (s *AvailabilityService) Create(ctx context.Context, p AvailabilityParams) (*Availability, error) {
	if err := validateAvailabilityParams(p); err != nil {
		return nil, err
	}

	ok, err := s.doctors.DoctorExists(ctx, p.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("check doctor: %w", err)
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	id, err := s.ids.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate availability id: %w", err)
	}

	av := Availability{
		ID:          id,
		DoctorID:    p.DoctorID,
		DayOfWeek:   p.DayOfWeek,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		IsAvailable: p.IsAvailable,
	}

	if err := s.repo.InsertAvailability(ctx, av); err != nil {
		return nil, fmt.Errorf("store availability: %w", err)
	}

	s.log.Info("availability created",
		zap.Uint64("availability_id", av.ID),
		zap.Uint64("doctor_id", av.DoctorID),
		zap.String("start_time", av.StartTime),
	)

	return &av, nil
}

func (s *AvailabilityService) Get(ctx context.Context, id uint64) (*Availability, error) {
	return s.repo.GetAvailability(ctx, id)
}

// Update fully replaces the record. The new doctor_id is not re-checked
// against the directory; only create validates doctor existence.
func (s *AvailabilityService) Update(ctx context.Context, id uint64, p AvailabilityParams) (*Availability, error) {
	if err := validateAvailabilityParams(p); err != nil {
		return nil, err
	}

	av := Availability{
		ID:          id,
		DoctorID:    p.DoctorID,
		DayOfWeek:   p.DayOfWeek,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		IsAvailable: p.IsAvailable,
	}

	if err := s.repo.UpdateAvailability(ctx, av); err != nil {
		return nil, err
	}

	return &av, nil
}

func (s *AvailabilityService) Delete(ctx context.Context, id uint64) error {
	return s.repo.DeleteAvailability(ctx, id)
}

func (s *AvailabilityService) List(ctx context.Context) ([]Availability, error) {
	return s.repo.ListAvailabilities(ctx)
}

// ListByDoctor returns the doctor's slots; onlyFree restricts the result to
// currently bookable ones.
func (s *AvailabilityService) ListByDoctor(ctx context.Context, doctorID uint64, onlyFree bool) ([]Availability, error) {
	return s.repo.ListAvailabilitiesByDoctor(ctx, doctorID, onlyFree)
}
