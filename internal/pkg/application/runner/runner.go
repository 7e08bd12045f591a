package runner

import (
	"context"
	"errors"
	"time"

	"github.com/diwise/traffic-metrics-alerting/internal/pkg/application/alerting"
	"github.com/diwise/traffic-metrics-alerting/internal/pkg/infrastructure/storage"
	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("traffic-metrics-alerting/runner")

// RunStorage is the slice of the measurement store the runner needs to
// evaluate one day.
//
//go:generate moq -rm -out runstorage_mock.go . RunStorage
type RunStorage interface {
	GetDailyValue(ctx context.Context, site, platform, metric string, date time.Time) (types.MetricObservation, error)
	GetHistory(ctx context.Context, site, platform, metric string, before time.Time, days int) ([]float64, error)
	GetComparablePrior(ctx context.Context, site, platform, metric string, date time.Time, comparison string) (*float64, error)
}

//go:generate moq -rm -out runner_mock.go . Runner
type Runner interface {
	RunForDate(ctx context.Context, date time.Time) (types.RunReport, error)
}

type runner struct {
	storage   RunStorage
	alerts    alerting.AlertService
	messenger messaging.MsgContext
	cfg       *alerting.Config
}

func New(s RunStorage, alerts alerting.AlertService, messenger messaging.MsgContext, cfg *alerting.Config) Runner {
	return &runner{
		storage:   s,
		alerts:    alerts,
		messenger: messenger,
		cfg:       cfg,
	}
}

// RunForDate evaluates every configured tuple for one day. Tuples are
// isolated from each other: a missing value or a failing persist marks that
// tuple and the run moves on. The run itself only fails on gross
// misconfiguration, never on per tuple trouble.
func (r *runner) RunForDate(ctx context.Context, date time.Time) (types.RunReport, error) {
	var err error

	ctx, span := tracer.Start(ctx, "evaluation-run")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	report := types.RunReport{
		Date:      date,
		StartedAt: time.Now().UTC(),
	}

	for _, tuple := range r.cfg.Tuples() {
		result := r.evaluateTuple(ctx, tuple, date)
		report.Results = append(report.Results, result)

		switch result.Status {
		case types.TupleStatusOK:
			report.Evaluated++
		case types.TupleStatusSkippedNoConfig, types.TupleStatusSkippedNoData:
			report.Skipped++
			log.Info("tuple skipped", "site", tuple.Site, "platform", tuple.Platform, "metric", tuple.Metric, "status", result.Status)
		default:
			report.Failed++
			log.Error("tuple failed", "site", tuple.Site, "platform", tuple.Platform, "metric", tuple.Metric, "status", result.Status, "severity", result.Severity.String(), "err", result.Error)
		}

		if result.Alert != nil && result.Alert.Severity > types.SeverityNone {
			report.Alerts = append(report.Alerts, *result.Alert)
		}
	}

	report.CompletedAt = time.Now().UTC()

	pubErr := r.messenger.PublishOnTopic(ctx, &alerting.RunCompleted{
		Report:    report,
		Timestamp: report.CompletedAt,
	})
	if pubErr != nil {
		log.Error("could not publish run report", "err", pubErr.Error())
	}

	return report, nil
}

func (r *runner) evaluateTuple(ctx context.Context, tuple alerting.Tuple, date time.Time) types.TupleResult {
	result := types.TupleResult{
		Site:     tuple.Site,
		Platform: tuple.Platform,
		Metric:   tuple.Metric,
	}

	log := logging.GetFromContext(ctx)

	thresholds, err := r.cfg.GetThresholds(tuple.Site, tuple.Metric)
	if err != nil {
		result.Status = types.TupleStatusSkippedNoConfig
		result.Error = err.Error()
		return result
	}

	obs, err := r.storage.GetDailyValue(ctx, tuple.Site, tuple.Platform, tuple.Metric, date)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			result.Status = types.TupleStatusSkippedNoData
		} else {
			result.Status = types.TupleStatusFailed
			result.Error = err.Error()
		}
		return result
	}

	history, err := r.storage.GetHistory(ctx, tuple.Site, tuple.Platform, tuple.Metric, date, r.cfg.HistoryWindow)
	if err != nil {
		result.Status = types.TupleStatusFailed
		result.Error = err.Error()
		return result
	}

	baseline := alerting.NewBaseline(history, r.cfg.MinimumWindow)

	prior, err := r.storage.GetComparablePrior(ctx, tuple.Site, tuple.Platform, tuple.Metric, date, thresholds.Comparison)
	if err != nil {
		// the percent change rule degrades to not applicable
		log.Warn("could not fetch comparable prior period", "site", tuple.Site, "metric", tuple.Metric, "err", err.Error())
		prior = nil
	}

	evaluation := alerting.Evaluate(obs, baseline, prior, thresholds)
	alert := alerting.NewAlert(obs, evaluation, time.Now().UTC())

	outcome, err := r.alerts.Record(ctx, alert)
	if err != nil {
		result.Status = types.TupleStatusFailedToPersist
		result.Error = err.Error()
		result.Severity = evaluation.Severity
		return result
	}

	result.Status = types.TupleStatusOK
	result.Severity = evaluation.Severity

	if evaluation.Severity > types.SeverityNone {
		result.Alert = &alert
	}

	if outcome == alerting.OutcomeCreated || outcome == alerting.OutcomeUpgraded {
		log.Info("alert recorded", "site", tuple.Site, "platform", tuple.Platform, "metric", tuple.Metric, "severity", evaluation.Severity.String(), "outcome", string(outcome))
	}

	return result
}
