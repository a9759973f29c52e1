package directory

import (
	"context"
	"testing"
)

func TestMemoryDirectoryLookups(t *testing.T) {
	d := NewMemoryDirectory()
	d.AddDoctor(1)
	d.AddPatient(2)

	ok, err := d.DoctorExists(context.Background(), 1)
	if err != nil || !ok {
		t.Errorf("doctor 1: got (%v, %v), want found", ok, err)
	}
	ok, err = d.DoctorExists(context.Background(), 2)
	if err != nil || ok {
		t.Errorf("doctor 2: got (%v, %v), want absent", ok, err)
	}

	ok, err = d.PatientExists(context.Background(), 2)
	if err != nil || !ok {
		t.Errorf("patient 2: got (%v, %v), want found", ok, err)
	}
	ok, err = d.PatientExists(context.Background(), 1)
	if err != nil || ok {
		t.Errorf("patient 1: got (%v, %v), want absent", ok, err)
	}
}
