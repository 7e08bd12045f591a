package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"go.opentelemetry.io/otel"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
)

type measurementReceived struct {
	Site        string    `json:"site"`
	Platform    string    `json:"platform"`
	Metric      string    `json:"metric"`
	Date        time.Time `json:"date"`
	Value       int64     `json:"value"`
	Preliminary bool      `json:"preliminary"`
	Tenant      string    `json:"tenant"`
}

var tracer = otel.Tracer("traffic-metrics-alerting/ingest")

func NewMeasurementReceivedHandler(messenger messaging.MsgContext, svc IngestService) messaging.TopicMessageHandler {
	return func(ctx context.Context, itm messaging.IncomingTopicMessage, l *slog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "measurement-received")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, l, ctx)

		msg := measurementReceived{}

		err = json.Unmarshal(itm.Body(), &msg)
		if err != nil {
			log.Error("failed to unmarshal message", "err", err.Error())
			return
		}

		err = svc.Ingest(ctx, types.MetricObservation{
			Site:        msg.Site,
			Platform:    msg.Platform,
			Metric:      msg.Metric,
			Date:        msg.Date,
			Value:       msg.Value,
			Preliminary: msg.Preliminary,
			Tenant:      msg.Tenant,
		})
		if err != nil {
			log.Error("could not store measurement", "site", msg.Site, "platform", msg.Platform, "metric", msg.Metric, "err", err.Error())
			return
		}
	}
}
