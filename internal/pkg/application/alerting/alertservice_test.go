package alerting

import (
	"context"
	"testing"
	"time"

	"github.com/diwise/traffic-metrics-alerting/internal/pkg/infrastructure/storage"
	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/matryer/is"
)

func testSetup(t *testing.T) (*is.I, *AlertStorageMock, *messaging.MsgContextMock) {
	is := is.New(t)

	s := &AlertStorageMock{
		AddAlertFunc: func(ctx context.Context, alert types.Alert) error {
			return nil
		},
		UpdateAlertFunc: func(ctx context.Context, alert types.Alert) error {
			return nil
		},
	}

	m := &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
	}

	return is, s, m
}

func testAlert(severity types.Severity) types.Alert {
	return types.Alert{
		Site:           "example-site",
		Platform:       "web",
		Metric:         "visits",
		Date:           time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
		Tenant:         "default",
		Severity:       severity,
		CurrentValue:   600000,
		BaselineMedian: 820000,
		TriggeredRules: []string{types.RuleAbsoluteFloor},
		Message:        "CRITICAL: example-site web visits on 2025-03-17: ...",
	}
}

func TestRecordCreatesNewAlert(t *testing.T) {
	is, s, m := testSetup(t)

	s.GetAlertFunc = func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Alert, error) {
		return types.Alert{}, storage.ErrNoRows
	}

	svc := NewAlertService(s, m)
	outcome, err := svc.Record(context.Background(), testAlert(types.SeverityCritical))

	is.NoErr(err)
	is.Equal(outcome, OutcomeCreated)
	is.Equal(len(s.AddAlertCalls()), 1)
	is.True(s.AddAlertCalls()[0].Alert.ID != "")
	is.Equal(len(m.PublishOnTopicCalls()), 1)
	is.Equal(m.PublishOnTopicCalls()[0].Message.TopicName(), "alerts.alertCreated")
}

func TestRecordSkipsQuietResultsWithoutSlot(t *testing.T) {
	is, s, m := testSetup(t)

	s.GetAlertFunc = func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Alert, error) {
		return types.Alert{}, storage.ErrNoRows
	}

	svc := NewAlertService(s, m)
	outcome, err := svc.Record(context.Background(), testAlert(types.SeverityNone))

	is.NoErr(err)
	is.Equal(outcome, OutcomeSkipped)
	is.Equal(len(s.AddAlertCalls()), 0)
	is.Equal(len(m.PublishOnTopicCalls()), 0)
}

func TestRecordUpgradesInPlace(t *testing.T) {
	is, s, m := testSetup(t)

	existing := testAlert(types.SeverityWarning)
	existing.ID = "a-1"
	existing.CreatedAt = time.Date(2025, 3, 17, 6, 0, 0, 0, time.UTC)

	s.GetAlertFunc = func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Alert, error) {
		return existing, nil
	}

	svc := NewAlertService(s, m)
	outcome, err := svc.Record(context.Background(), testAlert(types.SeverityEmergency))

	is.NoErr(err)
	is.Equal(outcome, OutcomeUpgraded)
	is.Equal(len(s.UpdateAlertCalls()), 1)

	updated := s.UpdateAlertCalls()[0].Alert
	is.Equal(updated.ID, "a-1")
	is.Equal(updated.CreatedAt, existing.CreatedAt)
	is.Equal(updated.Severity, types.SeverityEmergency)

	is.Equal(len(m.PublishOnTopicCalls()), 1)
	is.Equal(m.PublishOnTopicCalls()[0].Message.TopicName(), "alerts.alertUpgraded")
}

func TestRecordNeverDowngrades(t *testing.T) {
	is, s, m := testSetup(t)

	existing := testAlert(types.SeverityCritical)
	existing.ID = "a-1"

	s.GetAlertFunc = func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Alert, error) {
		return existing, nil
	}

	svc := NewAlertService(s, m)
	outcome, err := svc.Record(context.Background(), testAlert(types.SeverityWarning))

	is.NoErr(err)
	is.Equal(outcome, OutcomeUnchanged)
	is.Equal(len(s.UpdateAlertCalls()), 0)
	is.Equal(len(m.PublishOnTopicCalls()), 0)
}

func TestRecordIsIdempotentForEqualSeverity(t *testing.T) {
	is, s, m := testSetup(t)

	existing := testAlert(types.SeverityCritical)
	existing.ID = "a-1"

	s.GetAlertFunc = func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Alert, error) {
		return existing, nil
	}

	svc := NewAlertService(s, m)
	outcome, err := svc.Record(context.Background(), testAlert(types.SeverityCritical))

	is.NoErr(err)
	is.Equal(outcome, OutcomeUnchanged)
	is.Equal(len(s.UpdateAlertCalls()), 0)
}

func TestGetByIDTranslatesNoRows(t *testing.T) {
	is, s, m := testSetup(t)

	s.GetAlertFunc = func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Alert, error) {
		return types.Alert{}, storage.ErrNoRows
	}

	svc := NewAlertService(s, m)
	_, err := svc.GetByID(context.Background(), "missing", []string{"default"})

	is.Equal(err, ErrAlertNotFound)
}

func TestAcknowledgeIsANoOpWhenAlreadyAcknowledged(t *testing.T) {
	is, s, m := testSetup(t)

	acked := testAlert(types.SeverityCritical)
	acked.ID = "a-1"
	acked.Acknowledged = true

	s.GetAlertFunc = func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Alert, error) {
		return acked, nil
	}
	s.AcknowledgeAlertFunc = func(ctx context.Context, alertID, acknowledgedBy string, at time.Time) error {
		return nil
	}

	svc := NewAlertService(s, m)
	err := svc.Acknowledge(context.Background(), "a-1", "ops@example.com", []string{"default"})

	is.NoErr(err)
	is.Equal(len(s.AcknowledgeAlertCalls()), 0)
}

func TestAcknowledgeRecordsOperatorAndTime(t *testing.T) {
	is, s, m := testSetup(t)

	alert := testAlert(types.SeverityCritical)
	alert.ID = "a-1"

	s.GetAlertFunc = func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Alert, error) {
		return alert, nil
	}
	s.AcknowledgeAlertFunc = func(ctx context.Context, alertID, acknowledgedBy string, at time.Time) error {
		return nil
	}

	svc := NewAlertService(s, m)
	err := svc.Acknowledge(context.Background(), "a-1", "ops@example.com", []string{"default"})

	is.NoErr(err)
	is.Equal(len(s.AcknowledgeAlertCalls()), 1)
	is.Equal(s.AcknowledgeAlertCalls()[0].AcknowledgedBy, "ops@example.com")
}
