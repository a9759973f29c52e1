package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/docsched/medical-booking/internal/booking"
)

func availabilityParams(req AvailabilityRequest) booking.AvailabilityParams {
	return booking.AvailabilityParams{
		DoctorID:    req.DoctorID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable,
	}
}

func createAvailabilityHandler(svc *booking.AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AvailabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		av, err := svc.Create(r.Context(), availabilityParams(req))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAvailabilityResponse(av))
	}
}

func updateAvailabilityHandler(svc *booking.AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_availability_id", "id must be an unsigned integer")
			return
		}

		var req AvailabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		av, err := svc.Update(r.Context(), id, availabilityParams(req))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAvailabilityResponse(av))
	}
}

func deleteAvailabilityHandler(svc *booking.AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_availability_id", "id must be an unsigned integer")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func getAvailabilityHandler(svc *booking.AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_availability_id", "id must be an unsigned integer")
			return
		}

		av, err := svc.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAvailabilityResponse(av))
	}
}

// listAvailabilitiesHandler serves the plain listing, the per-doctor
// filtering, and with free=true the bookable-slots-only variant.
func listAvailabilitiesHandler(svc *booking.AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var (
			avs []booking.Availability
			err error
		)

		if q.Get("doctor_id") != "" {
			doctorID, parseErr := strconv.ParseUint(q.Get("doctor_id"), 10, 64)
			if parseErr != nil {
				writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be an unsigned integer")
				return
			}
			onlyFree := q.Get("free") == "true"
			avs, err = svc.ListByDoctor(r.Context(), doctorID, onlyFree)
		} else {
			avs, err = svc.List(r.Context())
		}

		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAvailabilityResponses(avs))
	}
}
