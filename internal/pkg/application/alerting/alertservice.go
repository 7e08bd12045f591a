package alerting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diwise/traffic-metrics-alerting/internal/pkg/infrastructure/storage"
	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
)

var ErrAlertNotFound = fmt.Errorf("alert not found")

// RecordOutcome describes what recording a resolved evaluation did to the
// alert slot.
type RecordOutcome string

const (
	OutcomeCreated   RecordOutcome = "created"
	OutcomeUpgraded  RecordOutcome = "upgraded"
	OutcomeUnchanged RecordOutcome = "unchanged"
	OutcomeSkipped   RecordOutcome = "skipped"
)

//go:generate moq -rm -out alertservice_mock.go . AlertService
type AlertService interface {
	Query(ctx context.Context, params map[string][]string, tenants []string) (types.Collection[types.Alert], error)
	GetByID(ctx context.Context, alertID string, tenants []string) (types.Alert, error)
	Record(ctx context.Context, alert types.Alert) (RecordOutcome, error)
	Acknowledge(ctx context.Context, alertID, acknowledgedBy string, tenants []string) error
}

//go:generate moq -rm -out alertstorage_mock.go . AlertStorage
type AlertStorage interface {
	QueryAlerts(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Alert], error)
	GetAlert(ctx context.Context, conditions ...storage.ConditionFunc) (types.Alert, error)
	AddAlert(ctx context.Context, alert types.Alert) error
	UpdateAlert(ctx context.Context, alert types.Alert) error
	AcknowledgeAlert(ctx context.Context, alertID, acknowledgedBy string, at time.Time) error
}

type alertSvc struct {
	storage   AlertStorage
	messenger messaging.MsgContext
}

func NewAlertService(s AlertStorage, m messaging.MsgContext) AlertService {
	return &alertSvc{
		storage:   s,
		messenger: m,
	}
}

func (svc alertSvc) Query(ctx context.Context, params map[string][]string, tenants []string) (types.Collection[types.Alert], error) {
	conditions := append(storage.ParseConditions(ctx, params), storage.WithTenants(tenants))

	alerts, err := svc.storage.QueryAlerts(ctx, conditions...)
	if err != nil {
		return types.Collection[types.Alert]{}, err
	}

	return alerts, nil
}

func (svc alertSvc) GetByID(ctx context.Context, alertID string, tenants []string) (types.Alert, error) {
	alert, err := svc.storage.GetAlert(ctx, storage.WithAlertID(alertID), storage.WithTenants(tenants))
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return types.Alert{}, ErrAlertNotFound
		}
		return types.Alert{}, err
	}

	return alert, nil
}

// Record maps a resolved alert onto its identity slot. New slots are created
// only for severities above none, existing slots are upgraded in place when
// the new severity is worse, and anything else is a no-op so that re-running
// a day never duplicates or downgrades records.
func (svc alertSvc) Record(ctx context.Context, alert types.Alert) (RecordOutcome, error) {
	log := logging.GetFromContext(ctx)

	existing, err := svc.storage.GetAlert(ctx, storage.WithIdentityKey(alert.IdentityKey()))
	if err != nil && !errors.Is(err, storage.ErrNoRows) {
		return "", err
	}

	if errors.Is(err, storage.ErrNoRows) {
		if alert.Severity == types.SeverityNone {
			return OutcomeSkipped, nil
		}

		if alert.ID == "" {
			alert.ID = uuid.NewString()
		}
		now := time.Now().UTC()
		if alert.CreatedAt.IsZero() {
			alert.CreatedAt = now
		}
		alert.UpdatedAt = now

		err = svc.storage.AddAlert(ctx, alert)
		if err != nil {
			return "", err
		}

		err = svc.messenger.PublishOnTopic(ctx, &AlertCreated{
			Alert:     alert,
			Tenant:    alert.Tenant,
			Timestamp: alert.CreatedAt,
		})
		if err != nil {
			log.Error("could not publish alert created", "alert_id", alert.ID, "err", err.Error())
		}

		return OutcomeCreated, nil
	}

	if alert.Severity <= existing.Severity {
		return OutcomeUnchanged, nil
	}

	previous := existing.Severity

	// upgrade in place, preserving identity and creation time
	existing.Severity = alert.Severity
	existing.CurrentValue = alert.CurrentValue
	existing.BaselineMedian = alert.BaselineMedian
	existing.PercentChange = alert.PercentChange
	existing.ZScore = alert.ZScore
	existing.TriggeredRules = alert.TriggeredRules
	existing.Message = alert.Message
	existing.UpdatedAt = time.Now().UTC()

	err = svc.storage.UpdateAlert(ctx, existing)
	if err != nil {
		return "", err
	}

	err = svc.messenger.PublishOnTopic(ctx, &AlertUpgraded{
		Alert:            existing,
		PreviousSeverity: previous,
		Tenant:           existing.Tenant,
		Timestamp:        existing.UpdatedAt,
	})
	if err != nil {
		log.Error("could not publish alert upgraded", "alert_id", existing.ID, "err", err.Error())
	}

	return OutcomeUpgraded, nil
}

func (svc alertSvc) Acknowledge(ctx context.Context, alertID, acknowledgedBy string, tenants []string) error {
	alert, err := svc.GetByID(ctx, alertID, tenants)
	if err != nil {
		return err
	}

	if alert.Acknowledged {
		return nil
	}

	return svc.storage.AcknowledgeAlert(ctx, alertID, acknowledgedBy, time.Now().UTC())
}
