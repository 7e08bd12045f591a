package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("traffic-metrics-alerting-client")

var ErrNotFound = fmt.Errorf("alert not found")

type AlertingClient interface {
	QueryAlerts(ctx context.Context, params url.Values) ([]types.Alert, error)
	GetAlert(ctx context.Context, alertID string) (types.Alert, error)
	AcknowledgeAlert(ctx context.Context, alertID, acknowledgedBy string) error
}

type alertingClient struct {
	url        string
	token      string
	httpClient http.Client
}

func New(serviceUrl, token string) AlertingClient {
	return &alertingClient{
		url:   serviceUrl,
		token: token,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type apiResponse struct {
	Data json.RawMessage `json:"data"`
}

func (c *alertingClient) QueryAlerts(ctx context.Context, params url.Values) ([]types.Alert, error) {
	var err error
	ctx, span := tracer.Start(ctx, "query-alerts")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	requestUrl := c.url + "/api/v0/alerts"
	if len(params) > 0 {
		requestUrl = requestUrl + "?" + params.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, err
	}

	response := apiResponse{}
	err = json.Unmarshal(body, &response)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal response body: %w", err)
		return nil, err
	}

	alerts := []types.Alert{}
	err = json.Unmarshal(response.Data, &alerts)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal alerts: %w", err)
		return nil, err
	}

	return alerts, nil
}

func (c *alertingClient) GetAlert(ctx context.Context, alertID string) (types.Alert, error) {
	var err error
	ctx, span := tracer.Start(ctx, "get-alert")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := c.do(ctx, http.MethodGet, c.url+"/api/v0/alerts/"+alertID, nil)
	if err != nil {
		return types.Alert{}, err
	}

	response := apiResponse{}
	err = json.Unmarshal(body, &response)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal response body: %w", err)
		return types.Alert{}, err
	}

	alert := types.Alert{}
	err = json.Unmarshal(response.Data, &alert)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal alert: %w", err)
		return types.Alert{}, err
	}

	return alert, nil
}

func (c *alertingClient) AcknowledgeAlert(ctx context.Context, alertID, acknowledgedBy string) error {
	var err error
	ctx, span := tracer.Start(ctx, "acknowledge-alert")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)
	log.Debug("acknowledging alert", "alert_id", alertID)

	ack, _ := json.Marshal(map[string]string{"acknowledgedBy": acknowledgedBy})

	_, err = c.do(ctx, http.MethodPost, c.url+"/api/v0/alerts/"+alertID+"/acknowledge", ack)
	return err
}

func (c *alertingClient) do(ctx context.Context, method, requestUrl string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestUrl, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("request failed with status code %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return respBody, nil
}
