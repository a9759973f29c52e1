package booking

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is a mutex-guarded in-memory Repository used by the unit
// tests. Iteration is in ascending id order so list results are stable.
type MemoryRepository struct {
	mu             sync.Mutex
	availabilities map[uint64]Availability
	appointments   map[uint64]Appointment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		availabilities: make(map[uint64]Availability),
		appointments:   make(map[uint64]Appointment),
	}
}

func (r *MemoryRepository) sortedAvailabilityIDs() []uint64 {
	ids := make([]uint64, 0, len(r.availabilities))
	for id := range r.availabilities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *MemoryRepository) sortedAppointmentIDs() []uint64 {
	ids := make([]uint64, 0, len(r.appointments))
	for id := range r.appointments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *MemoryRepository) InsertAvailability(_ context.Context, av Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.availabilities[av.ID] = av
	return nil
}

func (r *MemoryRepository) GetAvailability(_ context.Context, id uint64) (*Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	av, ok := r.availabilities[id]
	if !ok {
		return nil, ErrAvailabilityNotFound
	}
	return &av, nil
}

func (r *MemoryRepository) UpdateAvailability(_ context.Context, av Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.availabilities[av.ID]; !ok {
		return ErrAvailabilityNotFound
	}
	r.availabilities[av.ID] = av
	return nil
}

func (r *MemoryRepository) DeleteAvailability(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.availabilities[id]; !ok {
		return ErrAvailabilityNotFound
	}
	delete(r.availabilities, id)
	return nil
}

func (r *MemoryRepository) ListAvailabilities(_ context.Context) ([]Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Availability, 0, len(r.availabilities))
	for _, id := range r.sortedAvailabilityIDs() {
		out = append(out, r.availabilities[id])
	}
	return out, nil
}

func (r *MemoryRepository) ListAvailabilitiesByDoctor(_ context.Context, doctorID uint64, onlyFree bool) ([]Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Availability
	for _, id := range r.sortedAvailabilityIDs() {
		av := r.availabilities[id]
		if av.DoctorID != doctorID {
			continue
		}
		if onlyFree && !av.IsAvailable {
			continue
		}
		out = append(out, av)
	}
	return out, nil
}

func (r *MemoryRepository) ClaimSlot(_ context.Context, doctorID uint64, slot string) (*Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.sortedAvailabilityIDs() {
		av := r.availabilities[id]
		if av.DoctorID == doctorID && av.StartTime == slot && av.IsAvailable {
			av.IsAvailable = false
			r.availabilities[id] = av
			return &av, nil
		}
	}
	return nil, ErrSlotUnavailable
}

func (r *MemoryRepository) ReleaseSlot(_ context.Context, doctorID uint64, slot string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.sortedAvailabilityIDs() {
		av := r.availabilities[id]
		if av.DoctorID == doctorID && av.StartTime == slot {
			av.IsAvailable = available
			r.availabilities[id] = av
			return nil
		}
	}
	return nil
}

func (r *MemoryRepository) ReleaseSlotByID(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	av, ok := r.availabilities[id]
	if !ok {
		return nil
	}
	av.IsAvailable = true
	r.availabilities[id] = av
	return nil
}

func (r *MemoryRepository) InsertAppointment(_ context.Context, ap Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[ap.ID] = ap
	return nil
}

func (r *MemoryRepository) GetAppointment(_ context.Context, id uint64) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &ap, nil
}

func (r *MemoryRepository) UpdateAppointment(_ context.Context, ap Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[ap.ID]; !ok {
		return ErrAppointmentNotFound
	}
	r.appointments[ap.ID] = ap
	return nil
}

func (r *MemoryRepository) DeleteAppointment(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *MemoryRepository) ListAppointments(_ context.Context) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Appointment, 0, len(r.appointments))
	for _, id := range r.sortedAppointmentIDs() {
		out = append(out, r.appointments[id])
	}
	return out, nil
}

func (r *MemoryRepository) ListAppointmentsByDoctor(_ context.Context, doctorID uint64) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Appointment
	for _, id := range r.sortedAppointmentIDs() {
		if ap := r.appointments[id]; ap.DoctorID == doctorID {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListAppointmentsByPatient(_ context.Context, patientID uint64) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Appointment
	for _, id := range r.sortedAppointmentIDs() {
		if ap := r.appointments[id]; ap.PatientID == patientID {
			out = append(out, ap)
		}
	}
	return out, nil
}
