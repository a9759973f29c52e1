package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docsched/medical-booking/internal/booking"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// writeDomainError maps booking errors onto the two caller-visible error
// kinds: absent entities are 404, every validation failure (including slot
// contention) is 400.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, booking.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, booking.ErrAvailabilityNotFound):
		writeError(w, http.StatusNotFound, "availability_not_found", err.Error())
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, booking.ErrSlotUnavailable):
		writeError(w, http.StatusBadRequest, "slot_unavailable", err.Error())
	case errors.Is(err, booking.ErrInvalidDayOfWeek):
		writeError(w, http.StatusBadRequest, "invalid_day_of_week", err.Error())
	case errors.Is(err, booking.ErrEmptyTimeWindow):
		writeError(w, http.StatusBadRequest, "empty_time_window", err.Error())
	case errors.Is(err, booking.ErrEmptyPhoneNo):
		writeError(w, http.StatusBadRequest, "empty_phone_no", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
