package directory

import (
	"context"
	"sync"
)

// MemoryDirectory serves both lookup contracts from in-process sets.
type MemoryDirectory struct {
	mu       sync.RWMutex
	doctors  map[uint64]struct{}
	patients map[uint64]struct{}
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		doctors:  make(map[uint64]struct{}),
		patients: make(map[uint64]struct{}),
	}
}

func (d *MemoryDirectory) AddDoctor(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doctors[id] = struct{}{}
}

func (d *MemoryDirectory) AddPatient(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.patients[id] = struct{}{}
}

func (d *MemoryDirectory) DoctorExists(_ context.Context, doctorID uint64) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.doctors[doctorID]
	return ok, nil
}

func (d *MemoryDirectory) PatientExists(_ context.Context, patientID uint64) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.patients[patientID]
	return ok, nil
}
