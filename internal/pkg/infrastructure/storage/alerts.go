package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/jackc/pgx/v5"
)

func (s *Storage) QueryAlerts(ctx context.Context, conditions ...ConditionFunc) (types.Collection[types.Alert], error) {
	condition := &Condition{}
	for _, f := range conditions {
		f(condition)
	}

	if condition.sortBy == "" {
		condition.sortBy = "date"
		condition.sortOrder = "DESC"
	}

	args := condition.NamedArgs()
	where := condition.Where()

	var offsetLimit string

	if condition.offset != nil {
		offsetLimit += fmt.Sprintf("OFFSET %d ", condition.Offset())
	}

	if condition.limit != nil {
		offsetLimit += fmt.Sprintf("LIMIT %d ", condition.Limit())
	}

	query := fmt.Sprintf(`
		SELECT alert_id, identity_key, site, platform, metric, date, severity, current_value, baseline_median,
		       percent_change, zscore, triggered_rules, message, tenant, created_on, modified_on,
		       acknowledged, acknowledged_on, acknowledged_by, count(*) OVER () AS count
		FROM alerts
		%s
		ORDER BY %s %s
		%s
	`, where, condition.SortBy(), condition.SortOrder(), offsetLimit)

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return types.Collection[types.Alert]{}, err
	}

	var alertID, identityKey, site, platform, metric, tenant string
	var message, acknowledgedBy *string
	var date, createdOn, modifiedOn time.Time
	var acknowledgedOn *time.Time
	var severity int
	var currentValue, baselineMedian float64
	var percentChange, zscore *float64
	var triggeredRules []byte
	var acknowledged bool
	var count int64

	alerts := make([]types.Alert, 0)

	_, err = pgx.ForEachRow(rows, []any{
		&alertID, &identityKey, &site, &platform, &metric, &date, &severity, &currentValue, &baselineMedian,
		&percentChange, &zscore, &triggeredRules, &message, &tenant, &createdOn, &modifiedOn,
		&acknowledged, &acknowledgedOn, &acknowledgedBy, &count,
	}, func() error {
		alert, err := scanAlert(alertID, site, platform, metric, date, severity, currentValue, baselineMedian,
			percentChange, zscore, triggeredRules, message, tenant, createdOn, modifiedOn,
			acknowledged, acknowledgedOn, acknowledgedBy)
		if err != nil {
			return err
		}

		alerts = append(alerts, alert)

		return nil
	})
	if err != nil {
		return types.Collection[types.Alert]{}, err
	}

	return types.Collection[types.Alert]{
		Data:       alerts,
		Count:      uint64(len(alerts)),
		Limit:      uint64(condition.Limit()),
		Offset:     uint64(condition.Offset()),
		TotalCount: uint64(count),
	}, nil
}

func (s *Storage) GetAlert(ctx context.Context, conditions ...ConditionFunc) (types.Alert, error) {
	condition := &Condition{}
	for _, f := range conditions {
		f(condition)
	}

	args := condition.NamedArgs()
	where := condition.Where()

	query := fmt.Sprintf(`
		SELECT alert_id, site, platform, metric, date, severity, current_value, baseline_median,
		       percent_change, zscore, triggered_rules, message, tenant, created_on, modified_on,
		       acknowledged, acknowledged_on, acknowledged_by
		FROM alerts
		%s
	`, where)

	var alertID, site, platform, metric, tenant string
	var message, acknowledgedBy *string
	var date, createdOn, modifiedOn time.Time
	var acknowledgedOn *time.Time
	var severity int
	var currentValue, baselineMedian float64
	var percentChange, zscore *float64
	var triggeredRules []byte
	var acknowledged bool

	err := s.pool.QueryRow(ctx, query, args).Scan(
		&alertID, &site, &platform, &metric, &date, &severity, &currentValue, &baselineMedian,
		&percentChange, &zscore, &triggeredRules, &message, &tenant, &createdOn, &modifiedOn,
		&acknowledged, &acknowledgedOn, &acknowledgedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Alert{}, ErrNoRows
		}
		return types.Alert{}, err
	}

	return scanAlert(alertID, site, platform, metric, date, severity, currentValue, baselineMedian,
		percentChange, zscore, triggeredRules, message, tenant, createdOn, modifiedOn,
		acknowledged, acknowledgedOn, acknowledgedBy)
}

func scanAlert(alertID, site, platform, metric string, date time.Time, severity int,
	currentValue, baselineMedian float64, percentChange, zscore *float64, triggeredRules []byte,
	message *string, tenant string, createdOn, modifiedOn time.Time,
	acknowledged bool, acknowledgedOn *time.Time, acknowledgedBy *string) (types.Alert, error) {

	alert := types.Alert{
		ID:             alertID,
		Site:           site,
		Platform:       platform,
		Metric:         metric,
		Date:           date,
		Tenant:         tenant,
		Severity:       types.Severity(severity),
		CurrentValue:   currentValue,
		BaselineMedian: baselineMedian,
		PercentChange:  percentChange,
		ZScore:         zscore,
		CreatedAt:      createdOn,
		UpdatedAt:      modifiedOn,
		Acknowledged:   acknowledged,
		AcknowledgedAt: acknowledgedOn,
	}

	if message != nil {
		alert.Message = *message
	}
	if acknowledgedBy != nil {
		alert.AcknowledgedBy = *acknowledgedBy
	}

	if len(triggeredRules) > 0 {
		err := json.Unmarshal(triggeredRules, &alert.TriggeredRules)
		if err != nil {
			return types.Alert{}, err
		}
	}

	return alert, nil
}

func (s *Storage) AddAlert(ctx context.Context, alert types.Alert) error {
	if alert.ID == "" {
		return ErrNoID
	}

	if alert.Tenant == "" {
		return ErrMissingTenant
	}

	rules, err := json.Marshal(alert.TriggeredRules)
	if err != nil {
		return err
	}

	args := pgx.NamedArgs{
		"alert_id":        alert.ID,
		"identity_key":    alert.IdentityKey(),
		"site":            alert.Site,
		"platform":        alert.Platform,
		"metric":          alert.Metric,
		"date":            alert.Date.UTC().Format("2006-01-02"),
		"severity":        int(alert.Severity),
		"current_value":   alert.CurrentValue,
		"baseline_median": alert.BaselineMedian,
		"percent_change":  alert.PercentChange,
		"zscore":          alert.ZScore,
		"triggered_rules": string(rules),
		"message":         alert.Message,
		"tenant":          alert.Tenant,
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO alerts (alert_id, identity_key, site, platform, metric, date, severity, current_value,
		                    baseline_median, percent_change, zscore, triggered_rules, message, tenant)
		VALUES (@alert_id, @identity_key, @site, @platform, @metric, @date, @severity, @current_value,
		        @baseline_median, @percent_change, @zscore, @triggered_rules, @message, @tenant)
	`, args)
	if err != nil {
		return err
	}

	return nil
}

// UpdateAlert rewrites the mutable evidence of an existing slot. Identity
// columns and created_on are left untouched.
func (s *Storage) UpdateAlert(ctx context.Context, alert types.Alert) error {
	if alert.ID == "" {
		return ErrNoID
	}

	rules, err := json.Marshal(alert.TriggeredRules)
	if err != nil {
		return err
	}

	args := pgx.NamedArgs{
		"alert_id":        alert.ID,
		"severity":        int(alert.Severity),
		"current_value":   alert.CurrentValue,
		"baseline_median": alert.BaselineMedian,
		"percent_change":  alert.PercentChange,
		"zscore":          alert.ZScore,
		"triggered_rules": string(rules),
		"message":         alert.Message,
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE alerts
		SET severity = @severity, current_value = @current_value, baseline_median = @baseline_median,
		    percent_change = @percent_change, zscore = @zscore, triggered_rules = @triggered_rules,
		    message = @message, modified_on = CURRENT_TIMESTAMP
		WHERE alert_id = @alert_id
	`, args)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

func (s *Storage) AcknowledgeAlert(ctx context.Context, alertID, acknowledgedBy string, at time.Time) error {
	args := pgx.NamedArgs{
		"alert_id":        alertID,
		"acknowledged_by": acknowledgedBy,
		"acknowledged_on": at,
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE alerts
		SET acknowledged = TRUE, acknowledged_on = @acknowledged_on, acknowledged_by = @acknowledged_by,
		    modified_on = CURRENT_TIMESTAMP
		WHERE alert_id = @alert_id AND acknowledged = FALSE
	`, args)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}
