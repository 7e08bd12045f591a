package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"log/slog"

	"github.com/diwise/traffic-metrics-alerting/internal/pkg/application/alerting"
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/application/ingest"
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/application/runner"
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/infrastructure/storage"
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/presentation/api/auth"
	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("traffic-metrics-alerting/api")

// MeasurementQuerier is the read side of the measurement store exposed over
// the API.
type MeasurementQuerier interface {
	QueryMeasurements(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.MetricObservation], error)
}

func RegisterHandlers(ctx context.Context, router *chi.Mux, policies io.Reader, alertSvc alerting.AlertService, measurements MeasurementQuerier, ingestSvc ingest.IngestService, evaluator runner.Runner) (*chi.Mux, error) {

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	log := logging.GetFromContext(ctx)

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return nil, fmt.Errorf("failed to create api authenticator: %w", err)
	}

	router.Route("/api/v0", func(r chi.Router) {
		r.Route("/alerts", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authenticator.RequireAccess(auth.ScopeAlertsRead))
				r.Get("/", queryAlertsHandler(log, alertSvc))
				r.Get("/{alertID}", getAlertHandler(log, alertSvc))
			})
			r.Group(func(r chi.Router) {
				r.Use(authenticator.RequireAccess(auth.ScopeAlertsWrite))
				r.Post("/{alertID}/acknowledge", acknowledgeAlertHandler(log, alertSvc))
			})
		})

		r.Route("/measurements", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authenticator.RequireAccess(auth.ScopeMetricsRead))
				r.Get("/", queryMeasurementsHandler(log, measurements))
			})
			r.Group(func(r chi.Router) {
				r.Use(authenticator.RequireAccess(auth.ScopeMetricsPush))
				r.Post("/", addMeasurementHandler(log, ingestSvc))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator.RequireAccess(auth.ScopeAlertsWrite))
			r.Post("/runs", triggerRunHandler(log, evaluator))
		})
	})

	return router, nil
}

func queryAlertsHandler(log *slog.Logger, svc alerting.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		allowedTenants := auth.GetTenantsWithAllowedScopes(r.Context(), auth.ScopeAlertsRead)

		ctx, span := tracer.Start(r.Context(), "query-alerts")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		alerts, err := svc.Query(ctx, r.URL.Query(), allowedTenants)
		if err != nil {
			requestLogger.Error("unable to fetch alerts", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(NewApiResponse(alerts, r.URL.Path).Byte())
	}
}

func getAlertHandler(log *slog.Logger, svc alerting.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		allowedTenants := auth.GetTenantsWithAllowedScopes(r.Context(), auth.ScopeAlertsRead)

		ctx, span := tracer.Start(r.Context(), "get-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		alertID := chi.URLParam(r, "alertID")
		if alertID != "" {
			requestLogger = requestLogger.With(slog.String("alert_id", alertID))
		}

		alert, err := svc.GetByID(ctx, alertID, allowedTenants)
		if errors.Is(err, alerting.ErrAlertNotFound) {
			requestLogger.Debug("alert not found")
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			requestLogger.Error("could not fetch alert", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		b, err := json.Marshal(ApiResponse{Data: alert})
		if err != nil {
			requestLogger.Error("unable to marshal alert", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}
}

func acknowledgeAlertHandler(log *slog.Logger, svc alerting.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		allowedTenants := auth.GetTenantsWithAllowedScopes(r.Context(), auth.ScopeAlertsWrite)

		ctx, span := tracer.Start(r.Context(), "acknowledge-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		alertID := chi.URLParam(r, "alertID")
		if alertID != "" {
			requestLogger = requestLogger.With(slog.String("alert_id", alertID))
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			requestLogger.Error("unable to read body", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		ack := acknowledgeRequest{}
		err = json.Unmarshal(body, &ack)
		if err != nil || ack.AcknowledgedBy == "" {
			requestLogger.Error("acknowledgedBy is required")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		err = svc.Acknowledge(ctx, alertID, ack.AcknowledgedBy, allowedTenants)
		if errors.Is(err, alerting.ErrAlertNotFound) {
			requestLogger.Debug("alert not found")
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			requestLogger.Error("unable to acknowledge alert", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func queryMeasurementsHandler(log *slog.Logger, querier MeasurementQuerier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		allowedTenants := auth.GetTenantsWithAllowedScopes(r.Context(), auth.ScopeMetricsRead)

		ctx, span := tracer.Start(r.Context(), "query-measurements")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		conditions := append(storage.ParseConditions(ctx, r.URL.Query()), storage.WithTenants(allowedTenants))

		measurements, err := querier.QueryMeasurements(ctx, conditions...)
		if err != nil {
			requestLogger.Error("unable to fetch measurements", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(NewApiResponse(measurements, r.URL.Path).Byte())
	}
}

func addMeasurementHandler(log *slog.Logger, svc ingest.IngestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "add-measurement")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			requestLogger.Error("unable to read body", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var m types.MetricObservation
		err = json.Unmarshal(body, &m)
		if err != nil {
			requestLogger.Error("unable to unmarshal body", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		err = svc.Ingest(ctx, m)
		if err != nil {
			requestLogger.Error("unable to store measurement", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

func triggerRunHandler(log *slog.Logger, evaluator runner.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "trigger-run")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		// default to the day that last completed
		date := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

		if d := r.URL.Query().Get("date"); d != "" {
			date, err = time.Parse("2006-01-02", d)
			if err != nil {
				requestLogger.Error("invalid date", "date", d)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
		}

		report, err := evaluator.RunForDate(ctx, date)
		if err != nil {
			requestLogger.Error("evaluation run failed", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		b, err := json.Marshal(triggerRunResponse{Report: report})
		if err != nil {
			requestLogger.Error("unable to marshal run report", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}
}
