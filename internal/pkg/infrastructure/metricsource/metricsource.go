package metricsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/diwise/traffic-metrics-alerting/internal/pkg/application/ingest"
	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("traffic-metrics-alerting/metric-source")

type measurementDTO struct {
	Site        string `json:"site"`
	Platform    string `json:"platform"`
	Metric      string `json:"metric"`
	Date        string `json:"date"`
	Value       int64  `json:"value"`
	Preliminary bool   `json:"preliminary"`
}

type client struct {
	url    string
	apiKey string
	tenant string

	httpClient http.Client
}

// New creates a metric source backed by the upstream measurement provider's
// HTTP API.
func New(url, apiKey, tenant string) ingest.MetricSource {
	return &client{
		url:    url,
		apiKey: apiKey,
		tenant: tenant,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *client) FetchDaily(ctx context.Context, date time.Time) ([]types.MetricObservation, error) {
	var err error
	ctx, span := tracer.Start(ctx, "fetch-daily-measurements")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	url := fmt.Sprintf("%s/api/v1/measurements?date=%s", c.url, date.UTC().Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("failed to create http request: %w", err)
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to retrieve measurements: %w", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("measurement provider responded with status code %d", resp.StatusCode)
		return nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed to read response body: %w", err)
		return nil, err
	}

	dtos := []measurementDTO{}

	err = json.Unmarshal(respBody, &dtos)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal response body: %w", err)
		return nil, err
	}

	observations := make([]types.MetricObservation, 0, len(dtos))

	for _, dto := range dtos {
		day, parseErr := time.Parse("2006-01-02", dto.Date)
		if parseErr != nil {
			log.Warn("measurement with unparseable date dropped", "site", dto.Site, "date", dto.Date)
			continue
		}

		observations = append(observations, types.MetricObservation{
			Site:        dto.Site,
			Platform:    dto.Platform,
			Metric:      dto.Metric,
			Date:        day,
			Value:       dto.Value,
			Preliminary: dto.Preliminary,
			Tenant:      c.tenant,
		})
	}

	return observations, nil
}
