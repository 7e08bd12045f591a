package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/google/uuid"
	"github.com/matryer/is"
)

func testSetup(t *testing.T) (context.Context, *Storage) {
	ctx := context.Background()

	config := Config{
		host:     "localhost",
		user:     "postgres",
		password: "password",
		port:     "5432",
		dbname:   "postgres",
		sslmode:  "disable",
	}

	s, err := New(ctx, config)
	if err != nil {
		t.SkipNow()
	}

	err = s.CreateTables(ctx)
	if err != nil {
		t.SkipNow()
	}

	return ctx, s
}

func testStorageAlert(site string, severity types.Severity) types.Alert {
	return types.Alert{
		ID:             uuid.NewString(),
		Site:           site,
		Platform:       "web",
		Metric:         "visits",
		Date:           time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
		Tenant:         "default",
		Severity:       severity,
		CurrentValue:   600000,
		BaselineMedian: 820000,
		TriggeredRules: []string{types.RuleAbsoluteFloor, types.RulePercentChange},
		Message:        "CRITICAL: site web visits on 2025-03-17: ...",
	}
}

func TestAddAndGetAlert(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	alert := testStorageAlert(fmt.Sprintf("site-%s", uuid.NewString()), types.SeverityCritical)

	err := s.AddAlert(ctx, alert)
	is.NoErr(err)

	fetched, err := s.GetAlert(ctx, WithIdentityKey(alert.IdentityKey()))
	is.NoErr(err)
	is.Equal(fetched.ID, alert.ID)
	is.Equal(fetched.Severity, types.SeverityCritical)
	is.Equal(fetched.TriggeredRules, alert.TriggeredRules)
}

func TestGetAlertNoRows(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	_, err := s.GetAlert(ctx, WithIdentityKey("no-such-site|web|visits|2025-03-17"))
	is.Equal(err, ErrNoRows)
}

func TestAddAlertTwiceViolatesIdentity(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	alert := testStorageAlert(fmt.Sprintf("site-%s", uuid.NewString()), types.SeverityWarning)

	err := s.AddAlert(ctx, alert)
	is.NoErr(err)

	dup := alert
	dup.ID = uuid.NewString()

	err = s.AddAlert(ctx, dup)
	is.True(err != nil)
}

func TestUpdateAlert(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	alert := testStorageAlert(fmt.Sprintf("site-%s", uuid.NewString()), types.SeverityWarning)

	err := s.AddAlert(ctx, alert)
	is.NoErr(err)

	alert.Severity = types.SeverityEmergency
	alert.Message = "EMERGENCY: worse"

	err = s.UpdateAlert(ctx, alert)
	is.NoErr(err)

	fetched, err := s.GetAlert(ctx, WithAlertID(alert.ID))
	is.NoErr(err)
	is.Equal(fetched.Severity, types.SeverityEmergency)
	is.Equal(fetched.Message, "EMERGENCY: worse")
}

func TestAcknowledgeAlert(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	alert := testStorageAlert(fmt.Sprintf("site-%s", uuid.NewString()), types.SeverityCritical)

	err := s.AddAlert(ctx, alert)
	is.NoErr(err)

	err = s.AcknowledgeAlert(ctx, alert.ID, "ops@example.com", time.Now().UTC())
	is.NoErr(err)

	fetched, err := s.GetAlert(ctx, WithAlertID(alert.ID))
	is.NoErr(err)
	is.True(fetched.Acknowledged)
	is.Equal(fetched.AcknowledgedBy, "ops@example.com")

	err = s.AcknowledgeAlert(ctx, alert.ID, "someone@example.com", time.Now().UTC())
	is.Equal(err, ErrNoRows)
}

func TestQueryAlertsBySeverityAndTenant(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	site := fmt.Sprintf("site-%s", uuid.NewString())

	err := s.AddAlert(ctx, testStorageAlert(site, types.SeverityEmergency))
	is.NoErr(err)

	c, err := s.QueryAlerts(ctx,
		WithSite(site),
		WithSeverities([]types.Severity{types.SeverityEmergency}),
		WithTenants([]string{"default"}),
	)
	is.NoErr(err)
	is.Equal(len(c.Data), 1)
	is.Equal(c.Data[0].Site, site)
}

func TestMeasurementUpsertSupersedesPreliminary(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	site := fmt.Sprintf("site-%s", uuid.NewString())
	date := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	m := types.MetricObservation{
		Site: site, Platform: "web", Metric: "visits",
		Date: date, Value: 500000, Preliminary: true, Tenant: "default",
	}

	err := s.AddMeasurement(ctx, m)
	is.NoErr(err)

	m.Value = 600000
	m.Preliminary = false

	err = s.AddMeasurement(ctx, m)
	is.NoErr(err)

	got, err := s.GetDailyValue(ctx, site, "web", "visits", date)
	is.NoErr(err)
	is.Equal(got.Value, int64(600000))
	is.True(!got.Preliminary)

	// a late preliminary value must not clobber the final one
	m.Value = 100
	m.Preliminary = true

	err = s.AddMeasurement(ctx, m)
	is.NoErr(err)

	got, err = s.GetDailyValue(ctx, site, "web", "visits", date)
	is.NoErr(err)
	is.Equal(got.Value, int64(600000))
}

func TestGetHistoryExcludesEvaluationDay(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	site := fmt.Sprintf("site-%s", uuid.NewString())
	day := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	for i := 0; i <= 10; i++ {
		err := s.AddMeasurement(ctx, types.MetricObservation{
			Site: site, Platform: "web", Metric: "visits",
			Date: day.AddDate(0, 0, -i), Value: int64(100000 + i), Tenant: "default",
		})
		is.NoErr(err)
	}

	history, err := s.GetHistory(ctx, site, "web", "visits", day, 7)
	is.NoErr(err)
	is.Equal(len(history), 7)
	// newest first, starting the day before the evaluation day
	is.Equal(history[0], float64(100001))
}

func TestGetComparablePrior(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	site := fmt.Sprintf("site-%s", uuid.NewString())
	day := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	prior, err := s.GetComparablePrior(ctx, site, "web", "visits", day, types.ComparisonSameWeekday)
	is.NoErr(err)
	is.True(prior == nil)

	err = s.AddMeasurement(ctx, types.MetricObservation{
		Site: site, Platform: "web", Metric: "visits",
		Date: day.AddDate(0, 0, -7), Value: 838874, Tenant: "default",
	})
	is.NoErr(err)

	prior, err = s.GetComparablePrior(ctx, site, "web", "visits", day, types.ComparisonSameWeekday)
	is.NoErr(err)
	is.True(prior != nil)
	is.Equal(*prior, float64(838874))

	avg, err := s.GetComparablePrior(ctx, site, "web", "visits", day, types.ComparisonWeekOverWeek)
	is.NoErr(err)
	is.True(avg != nil)
	is.Equal(*avg, float64(838874))
}
