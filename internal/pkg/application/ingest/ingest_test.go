package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/matryer/is"
)

func testObservation(site string, value int64) types.MetricObservation {
	return types.MetricObservation{
		Site:     site,
		Platform: "web",
		Metric:   "visits",
		Date:     time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
		Value:    value,
		Tenant:   "default",
	}
}

func TestIngestStoresObservation(t *testing.T) {
	is := is.New(t)

	s := &MeasurementStorageMock{
		AddMeasurementFunc: func(ctx context.Context, m types.MetricObservation) error {
			return nil
		},
	}

	svc := New(&MetricSourceMock{}, s)
	err := svc.Ingest(context.Background(), testObservation("example-site", 600000))

	is.NoErr(err)
	is.Equal(len(s.AddMeasurementCalls()), 1)
}

func TestIngestRejectsIncompleteObservation(t *testing.T) {
	is := is.New(t)

	s := &MeasurementStorageMock{}
	svc := New(&MetricSourceMock{}, s)

	m := testObservation("example-site", 600000)
	m.Metric = ""

	err := svc.Ingest(context.Background(), m)
	is.True(err != nil)
	is.Equal(len(s.AddMeasurementCalls()), 0)
}

func TestIngestDefaultsTenant(t *testing.T) {
	is := is.New(t)

	s := &MeasurementStorageMock{
		AddMeasurementFunc: func(ctx context.Context, m types.MetricObservation) error {
			return nil
		},
	}

	svc := New(&MetricSourceMock{}, s)

	m := testObservation("example-site", 600000)
	m.Tenant = ""

	err := svc.Ingest(context.Background(), m)
	is.NoErr(err)
	is.Equal(s.AddMeasurementCalls()[0].M.Tenant, "default")
}

func TestIngestDayStoresWholeBatch(t *testing.T) {
	is := is.New(t)

	source := &MetricSourceMock{
		FetchDailyFunc: func(ctx context.Context, date time.Time) ([]types.MetricObservation, error) {
			return []types.MetricObservation{
				testObservation("site-a", 600000),
				testObservation("site-b", 45000),
			}, nil
		},
	}
	s := &MeasurementStorageMock{
		AddMeasurementFunc: func(ctx context.Context, m types.MetricObservation) error {
			return nil
		},
	}

	svc := New(source, s)
	stored, err := svc.IngestDay(context.Background(), time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))

	is.NoErr(err)
	is.Equal(stored, 2)
	is.Equal(len(s.AddMeasurementCalls()), 2)
}

func TestIngestDayContinuesPastStoreFailures(t *testing.T) {
	is := is.New(t)

	source := &MetricSourceMock{
		FetchDailyFunc: func(ctx context.Context, date time.Time) ([]types.MetricObservation, error) {
			return []types.MetricObservation{
				testObservation("site-a", 600000),
				testObservation("site-b", 45000),
			}, nil
		},
	}

	calls := 0
	s := &MeasurementStorageMock{
		AddMeasurementFunc: func(ctx context.Context, m types.MetricObservation) error {
			calls++
			if calls == 1 {
				return errors.New("connection reset")
			}
			return nil
		},
	}

	svc := New(source, s)
	stored, err := svc.IngestDay(context.Background(), time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))

	is.NoErr(err)
	is.Equal(stored, 1)
	is.Equal(len(s.AddMeasurementCalls()), 2)
}

func TestIngestDayWrapsSourceFailure(t *testing.T) {
	is := is.New(t)

	source := &MetricSourceMock{
		FetchDailyFunc: func(ctx context.Context, date time.Time) ([]types.MetricObservation, error) {
			return nil, errors.New("upstream timeout")
		},
	}

	svc := New(source, &MeasurementStorageMock{})
	_, err := svc.IngestDay(context.Background(), time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))

	is.True(errors.Is(err, ErrDataUnavailable))
}
