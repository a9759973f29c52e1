package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/docsched/medical-booking/internal/booking"
	"github.com/docsched/medical-booking/internal/directory"
	"github.com/docsched/medical-booking/internal/idgen"
	redisclient "github.com/docsched/medical-booking/internal/redis"
)

func newTestServer(t *testing.T) (*httptest.Server, *directory.MemoryDirectory) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	locker := redisclient.NewRedisSlotLocker(redisClient, 5*time.Second)

	repo := booking.NewMemoryRepository()
	dir := directory.NewMemoryDirectory()
	ids := idgen.NewMemoryAllocator()
	log := zap.NewNop()

	handler := NewRouter(RouterConfig{
		Appointments:   booking.NewAppointmentService(repo, dir, dir, ids, locker, log, nil),
		Availabilities: booking.NewAvailabilityService(repo, dir, ids, log, nil),
		Redis:          redisClient,
		Log:            log,
		Env:            "test",
		Version:        "test",
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, dir
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func seedSlot(t *testing.T, srv *httptest.Server, dir *directory.MemoryDirectory, doctorID uint64, token string) AvailabilityResponse {
	t.Helper()
	dir.AddDoctor(doctorID)

	resp := doJSON(t, http.MethodPost, srv.URL+"/availabilities", AvailabilityRequest{
		DoctorID:    doctorID,
		DayOfWeek:   1,
		StartTime:   token,
		EndTime:     "17:00",
		IsAvailable: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var av AvailabilityResponse
	decodeInto(t, resp, &av)
	return av
}

func appointmentBody(doctorID, patientID uint64, slot string) AppointmentRequest {
	return AppointmentRequest{
		PatientID:       patientID,
		DoctorID:        doctorID,
		PhoneNo:         "6395550100",
		Slot:            slot,
		Reason:          "checkup",
		Symtoms:         "none",
		AppointmentType: "consultation",
	}
}

func TestCreateAppointmentEndpoint(t *testing.T) {
	srv, dir := newTestServer(t)
	seedSlot(t, srv, dir, 1, "Mon 09:00")
	dir.AddPatient(2)

	body := appointmentBody(1, 2, "Mon 09:00")
	body.Status = "confirmed" // ignored on create

	resp := doJSON(t, http.MethodPost, srv.URL+"/appointments", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var appt AppointmentResponse
	decodeInto(t, resp, &appt)
	require.NotZero(t, appt.ID)
	require.Equal(t, "pending", appt.Status)
	require.Equal(t, "none", appt.Symtoms)
}

func TestCreateAppointmentSlotTaken(t *testing.T) {
	srv, dir := newTestServer(t)
	seedSlot(t, srv, dir, 1, "Mon 09:00")
	dir.AddPatient(2)
	dir.AddPatient(3)

	resp := doJSON(t, http.MethodPost, srv.URL+"/appointments", appointmentBody(1, 2, "Mon 09:00"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/appointments", appointmentBody(1, 3, "Mon 09:00"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	decodeInto(t, resp, &errResp)
	require.Equal(t, "slot_unavailable", errResp.Error)
	require.Equal(t, "Selected slot is not available", errResp.Details)
}

func TestCreateAppointmentUnknownEntities(t *testing.T) {
	srv, dir := newTestServer(t)
	seedSlot(t, srv, dir, 1, "Mon 09:00")
	dir.AddPatient(2)

	tests := []struct {
		name       string
		body       AppointmentRequest
		wantStatus int
		wantCode   string
	}{
		{"unknown doctor", appointmentBody(99, 2, "Mon 09:00"), http.StatusNotFound, "doctor_not_found"},
		{"unknown patient", appointmentBody(1, 99, "Mon 09:00"), http.StatusNotFound, "patient_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/appointments", tt.body)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			var errResp ErrorResponse
			decodeInto(t, resp, &errResp)
			require.Equal(t, tt.wantCode, errResp.Error)
		})
	}
}

func TestCreateAppointmentEmptyPhone(t *testing.T) {
	srv, dir := newTestServer(t)
	seedSlot(t, srv, dir, 1, "Mon 09:00")
	dir.AddPatient(2)

	body := appointmentBody(1, 2, "Mon 09:00")
	body.PhoneNo = ""
	resp := doJSON(t, http.MethodPost, srv.URL+"/appointments", body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	decodeInto(t, resp, &errResp)
	require.Equal(t, "empty_phone_no", errResp.Error)
}

func TestAppointmentBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/appointments", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/appointments/not-a-number", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp ErrorResponse
	decodeInto(t, resp, &errResp)
	require.Equal(t, "invalid_appointment_id", errResp.Error)
}

func TestGetAppointmentNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/appointments/404", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	decodeInto(t, resp, &errResp)
	require.Equal(t, "appointment_not_found", errResp.Error)
}

func TestCancelAppointmentEndpoint(t *testing.T) {
	srv, dir := newTestServer(t)
	av := seedSlot(t, srv, dir, 1, "Mon 09:00")
	dir.AddPatient(2)

	resp := doJSON(t, http.MethodPost, srv.URL+"/appointments", appointmentBody(1, 2, "Mon 09:00"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var appt AppointmentResponse
	decodeInto(t, resp, &appt)

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/appointments/%d/cancel", srv.URL, appt.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelled AppointmentResponse
	decodeInto(t, resp, &cancelled)
	require.Equal(t, "cancelled", cancelled.Status)

	// The slot shows up free again.
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/availabilities?doctor_id=1&free=true", srv.URL), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var free []AvailabilityResponse
	decodeInto(t, resp, &free)
	require.Len(t, free, 1)
	require.Equal(t, av.ID, free[0].ID)
}

func TestCompleteAppointmentEndpoint(t *testing.T) {
	srv, dir := newTestServer(t)
	seedSlot(t, srv, dir, 1, "Mon 09:00")
	dir.AddPatient(2)

	resp := doJSON(t, http.MethodPost, srv.URL+"/appointments", appointmentBody(1, 2, "Mon 09:00"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var appt AppointmentResponse
	decodeInto(t, resp, &appt)

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/appointments/%d/complete", srv.URL, appt.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var done AppointmentResponse
	decodeInto(t, resp, &done)
	require.Equal(t, "confirmed", done.Status)
}

func TestDeleteAppointmentEndpoint(t *testing.T) {
	srv, dir := newTestServer(t)
	seedSlot(t, srv, dir, 1, "Mon 09:00")
	dir.AddPatient(2)

	resp := doJSON(t, http.MethodPost, srv.URL+"/appointments", appointmentBody(1, 2, "Mon 09:00"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var appt AppointmentResponse
	decodeInto(t, resp, &appt)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/appointments/%d", srv.URL, appt.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/appointments/%d", srv.URL, appt.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The slot stays claimed; deleting never releases.
	resp = doJSON(t, http.MethodGet, srv.URL+"/availabilities?doctor_id=1&free=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var free []AvailabilityResponse
	decodeInto(t, resp, &free)
	require.Empty(t, free)
}

func TestListAppointmentsFilters(t *testing.T) {
	srv, dir := newTestServer(t)
	seedSlot(t, srv, dir, 1, "Mon 09:00")
	seedSlot(t, srv, dir, 7, "Tue 09:00")
	dir.AddPatient(2)

	resp := doJSON(t, http.MethodPost, srv.URL+"/appointments", appointmentBody(1, 2, "Mon 09:00"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, srv.URL+"/appointments", appointmentBody(7, 2, "Tue 09:00"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var appts []AppointmentResponse

	resp = doJSON(t, http.MethodGet, srv.URL+"/appointments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &appts)
	require.Len(t, appts, 2)

	resp = doJSON(t, http.MethodGet, srv.URL+"/appointments?doctor_id=7", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &appts)
	require.Len(t, appts, 1)
	require.Equal(t, uint64(7), appts[0].DoctorID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/appointments?patient_id=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &appts)
	require.Len(t, appts, 2)

	resp = doJSON(t, http.MethodGet, srv.URL+"/appointments?doctor_id=zero", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAvailabilityEndpoints(t *testing.T) {
	srv, dir := newTestServer(t)
	av := seedSlot(t, srv, dir, 1, "Mon 09:00")

	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/availabilities/%d", srv.URL, av.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got AvailabilityResponse
	decodeInto(t, resp, &got)
	require.Equal(t, av, got)

	update := AvailabilityRequest{DoctorID: 1, DayOfWeek: 3, StartTime: "Wed 09:00", EndTime: "17:00", IsAvailable: false}
	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/availabilities/%d", srv.URL, av.ID), update)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &got)
	require.Equal(t, uint8(3), got.DayOfWeek)
	require.False(t, got.IsAvailable)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/availabilities/%d", srv.URL, av.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/availabilities/%d", srv.URL, av.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errResp ErrorResponse
	decodeInto(t, resp, &errResp)
	require.Equal(t, "availability_not_found", errResp.Error)
}

func TestCreateAvailabilityInvalidDay(t *testing.T) {
	srv, dir := newTestServer(t)
	dir.AddDoctor(1)

	resp := doJSON(t, http.MethodPost, srv.URL+"/availabilities", AvailabilityRequest{
		DoctorID:  1,
		DayOfWeek: 9,
		StartTime: "09:00",
		EndTime:   "09:30",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	decodeInto(t, resp, &errResp)
	require.Equal(t, "invalid_day_of_week", errResp.Error)
}

func TestLivenessEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/health/live", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var live LivenessResponse
	decodeInto(t, resp, &live)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Env)
}

// The test server has Redis wired and no Postgres pool, so readiness must
// report error with postgres down and redis ok rather than panic.
func TestReadinessEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/health/ready", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var ready ReadinessResponse
	decodeInto(t, resp, &ready)
	require.Equal(t, "error", ready.Status)
	require.Equal(t, "down", ready.Dependencies["postgres"])
	require.Equal(t, "ok", ready.Dependencies["redis"])
}
