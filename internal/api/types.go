package api

import "github.com/docsched/medical-booking/internal/booking"

// Wire format follows the historical field names, including the "symtoms"
// spelling clients already depend on.

type AppointmentRequest struct {
	PatientID       uint64 `json:"patient_id"`
	DoctorID        uint64 `json:"doctor_id"`
	PhoneNo         string `json:"phone_no"`
	Slot            string `json:"slot"`
	Reason          string `json:"reason"`
	Symtoms         string `json:"symtoms"`
	Status          string `json:"status"`
	AppointmentType string `json:"appointment_type"`
}

type AppointmentResponse struct {
	ID              uint64 `json:"id"`
	PatientID       uint64 `json:"patient_id"`
	DoctorID        uint64 `json:"doctor_id"`
	PhoneNo         string `json:"phone_no"`
	Slot            string `json:"slot"`
	Reason          string `json:"reason"`
	Symtoms         string `json:"symtoms"`
	Status          string `json:"status"`
	AppointmentType string `json:"appointment_type"`
}

type AvailabilityRequest struct {
	DoctorID    uint64 `json:"doctor_id"`
	DayOfWeek   uint8  `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

type AvailabilityResponse struct {
	ID          uint64 `json:"id"`
	DoctorID    uint64 `json:"doctor_id"`
	DayOfWeek   uint8  `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toAppointmentResponse(ap *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              ap.ID,
		PatientID:       ap.PatientID,
		DoctorID:        ap.DoctorID,
		PhoneNo:         ap.PhoneNo,
		Slot:            ap.Slot,
		Reason:          ap.Reason,
		Symtoms:         ap.Symtoms,
		Status:          string(ap.Status),
		AppointmentType: ap.AppointmentType,
	}
}

func toAppointmentResponses(aps []booking.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(aps))
	for i := range aps {
		out = append(out, toAppointmentResponse(&aps[i]))
	}
	return out
}

func toAvailabilityResponse(av *booking.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:          av.ID,
		DoctorID:    av.DoctorID,
		DayOfWeek:   av.DayOfWeek,
		StartTime:   av.StartTime,
		EndTime:     av.EndTime,
		IsAvailable: av.IsAvailable,
	}
}

func toAvailabilityResponses(avs []booking.Availability) []AvailabilityResponse {
	out := make([]AvailabilityResponse, 0, len(avs))
	for i := range avs {
		out = append(out, toAvailabilityResponse(&avs[i]))
	}
	return out
}
