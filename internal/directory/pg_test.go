package directory

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPgDirectoryDoctorExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(uint64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(uint64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	d := NewPgDirectory(mock)

	ok, err := d.DoctorExists(context.Background(), 1)
	if err != nil || !ok {
		t.Errorf("doctor 1: got (%v, %v), want found", ok, err)
	}
	ok, err = d.DoctorExists(context.Background(), 2)
	if err != nil || ok {
		t.Errorf("doctor 2: got (%v, %v), want absent", ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPgDirectoryPatientExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(uint64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	d := NewPgDirectory(mock)
	ok, err := d.PatientExists(context.Background(), 7)
	if err != nil || !ok {
		t.Errorf("patient 7: got (%v, %v), want found", ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
