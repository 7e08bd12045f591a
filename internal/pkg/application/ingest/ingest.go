package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

var ErrDataUnavailable = fmt.Errorf("metric data unavailable")

// MetricSource fetches daily traffic measurements from an upstream
// measurement provider.
//
//go:generate moq -rm -out metricsource_mock.go . MetricSource
type MetricSource interface {
	FetchDaily(ctx context.Context, date time.Time) ([]types.MetricObservation, error)
}

//go:generate moq -rm -out measurementstorage_mock.go . MeasurementStorage
type MeasurementStorage interface {
	AddMeasurement(ctx context.Context, m types.MetricObservation) error
}

//go:generate moq -rm -out ingestservice_mock.go . IngestService
type IngestService interface {
	Ingest(ctx context.Context, m types.MetricObservation) error
	IngestDay(ctx context.Context, date time.Time) (int, error)
}

type ingestSvc struct {
	source  MetricSource
	storage MeasurementStorage
}

func New(source MetricSource, storage MeasurementStorage) IngestService {
	return &ingestSvc{
		source:  source,
		storage: storage,
	}
}

// Ingest stores a single observation. The storage layer guarantees that a
// final value supersedes a preliminary one for the same day, and never the
// other way around.
func (svc ingestSvc) Ingest(ctx context.Context, m types.MetricObservation) error {
	if m.Site == "" || m.Platform == "" || m.Metric == "" {
		return fmt.Errorf("observation is missing site, platform or metric")
	}

	if m.Date.IsZero() {
		return fmt.Errorf("observation is missing a date")
	}

	if m.Tenant == "" {
		m.Tenant = "default"
	}

	return svc.storage.AddMeasurement(ctx, m)
}

// IngestDay pulls all measurements for one day from the upstream source and
// stores them. A failing store does not abort the rest of the batch.
func (svc ingestSvc) IngestDay(ctx context.Context, date time.Time) (int, error) {
	log := logging.GetFromContext(ctx)

	measurements, err := svc.source.FetchDaily(ctx, date)
	if err != nil {
		return 0, errors.Join(ErrDataUnavailable, err)
	}

	stored := 0

	for _, m := range measurements {
		err := svc.Ingest(ctx, m)
		if err != nil {
			log.Error("could not store measurement", "site", m.Site, "platform", m.Platform, "metric", m.Metric, "err", err.Error())
			continue
		}
		stored++
	}

	return stored, nil
}
