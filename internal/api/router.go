package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/docsched/medical-booking/internal/booking"
	"github.com/docsched/medical-booking/internal/observability/metrics"
)

type RouterConfig struct {
	Appointments   *booking.AppointmentService
	Availabilities *booking.AvailabilityService
	PgPool         *pgxpool.Pool
	Redis          *redis.Client
	Log            *zap.Logger
	Metrics        *metrics.BookingMetrics
	Env            string
	Version        string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log, cfg.Metrics))

	// Health and metrics endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Appointment endpoints
	r.Post("/appointments", createAppointmentHandler(cfg.Appointments))
	r.Get("/appointments", listAppointmentsHandler(cfg.Appointments))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Appointments))
	r.Put("/appointments/{id}", updateAppointmentHandler(cfg.Appointments))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Appointments))
	r.Post("/appointments/{id}/complete", completeAppointmentHandler(cfg.Appointments))
	r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Appointments))

	// Availability endpoints
	r.Post("/availabilities", createAvailabilityHandler(cfg.Availabilities))
	r.Get("/availabilities", listAvailabilitiesHandler(cfg.Availabilities))
	r.Get("/availabilities/{id}", getAvailabilityHandler(cfg.Availabilities))
	r.Put("/availabilities/{id}", updateAvailabilityHandler(cfg.Availabilities))
	r.Delete("/availabilities/{id}", deleteAvailabilityHandler(cfg.Availabilities))

	return r
}
