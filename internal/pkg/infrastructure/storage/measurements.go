package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/jackc/pgx/v5"
)

// AddMeasurement upserts one daily value. A final value supersedes any
// earlier preliminary value for the same day, but a preliminary value never
// overwrites a final one.
func (s *Storage) AddMeasurement(ctx context.Context, m types.MetricObservation) error {
	if m.Site == "" || m.Platform == "" || m.Metric == "" {
		return ErrNoID
	}

	if m.Tenant == "" {
		return ErrMissingTenant
	}

	args := pgx.NamedArgs{
		"site":        m.Site,
		"platform":    m.Platform,
		"metric":      m.Metric,
		"date":        m.Date.UTC().Format("2006-01-02"),
		"value":       m.Value,
		"preliminary": m.Preliminary,
		"tenant":      m.Tenant,
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO measurements (site, platform, metric, date, value, preliminary, tenant)
		VALUES (@site, @platform, @metric, @date, @value, @preliminary, @tenant)
		ON CONFLICT (site, platform, metric, date) DO UPDATE
		SET value = EXCLUDED.value, preliminary = EXCLUDED.preliminary, modified_on = CURRENT_TIMESTAMP
		WHERE NOT (measurements.preliminary = FALSE AND EXCLUDED.preliminary = TRUE)
	`, args)
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) QueryMeasurements(ctx context.Context, conditions ...ConditionFunc) (types.Collection[types.MetricObservation], error) {
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
		SELECT site, platform, metric, date, value, preliminary, tenant, count(*) OVER () AS count
		FROM measurements
		%s
		ORDER BY %s %s
		%s
	`, where, condition.SortBy(), condition.SortOrder(), offsetLimit)

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return types.Collection[types.MetricObservation]{}, err
	}

	var site, platform, metric, tenant string
	var date time.Time
	var value int64
	var preliminary bool
	var count int64

	measurements := make([]types.MetricObservation, 0)

	_, err = pgx.ForEachRow(rows, []any{&site, &platform, &metric, &date, &value, &preliminary, &tenant, &count}, func() error {
		measurements = append(measurements, types.MetricObservation{
			Site:        site,
			Platform:    platform,
			Metric:      metric,
			Date:        date,
			Value:       value,
			Preliminary: preliminary,
			Tenant:      tenant,
		})

		return nil
	})
	if err != nil {
		return types.Collection[types.MetricObservation]{}, err
	}

	return types.Collection[types.MetricObservation]{
		Data:       measurements,
		Count:      uint64(len(measurements)),
		Limit:      uint64(condition.Limit()),
		Offset:     uint64(condition.Offset()),
		TotalCount: uint64(count),
	}, nil
}

func (s *Storage) GetDailyValue(ctx context.Context, site, platform, metric string, date time.Time) (types.MetricObservation, error) {
	args := pgx.NamedArgs{
		"site":     site,
		"platform": platform,
		"metric":   metric,
		"date":     date.UTC().Format("2006-01-02"),
	}

	var value int64
	var preliminary bool
	var tenant string

	err := s.pool.QueryRow(ctx, `
		SELECT value, preliminary, tenant
		FROM measurements
		WHERE site = @site AND platform = @platform AND metric = @metric AND date = @date
	`, args).Scan(&value, &preliminary, &tenant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.MetricObservation{}, ErrNoRows
		}
		return types.MetricObservation{}, err
	}

	return types.MetricObservation{
		Site:        site,
		Platform:    platform,
		Metric:      metric,
		Date:        date,
		Value:       value,
		Preliminary: preliminary,
		Tenant:      tenant,
	}, nil
}

// GetHistory returns the most recent daily values strictly before the given
// day, newest first, at most days entries. Missing days are simply absent,
// never zero filled.
func (s *Storage) GetHistory(ctx context.Context, site, platform, metric string, before time.Time, days int) ([]float64, error) {
	args := pgx.NamedArgs{
		"site":        site,
		"platform":    platform,
		"metric":      metric,
		"before_date": before.UTC().Format("2006-01-02"),
		"days":        days,
	}

	rows, err := s.pool.Query(ctx, `
		SELECT value
		FROM measurements
		WHERE site = @site AND platform = @platform AND metric = @metric AND date < @before_date
		ORDER BY date DESC
		LIMIT @days
	`, args)
	if err != nil {
		return nil, err
	}

	var value int64

	history := make([]float64, 0, days)

	_, err = pgx.ForEachRow(rows, []any{&value}, func() error {
		history = append(history, float64(value))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return history, nil
}

// GetComparablePrior returns the prior period value for the percent change
// rule, or nil when no comparable data exists. Same weekday comparison reads
// the single value one week back, week over week averages the seven
// preceding days.
func (s *Storage) GetComparablePrior(ctx context.Context, site, platform, metric string, date time.Time, comparison string) (*float64, error) {
	switch comparison {
	case types.ComparisonWeekOverWeek:
		args := pgx.NamedArgs{
			"site":     site,
			"platform": platform,
			"metric":   metric,
			"from":     date.AddDate(0, 0, -7).UTC().Format("2006-01-02"),
			"to":       date.AddDate(0, 0, -1).UTC().Format("2006-01-02"),
		}

		var avg *float64

		err := s.pool.QueryRow(ctx, `
			SELECT AVG(value)
			FROM measurements
			WHERE site = @site AND platform = @platform AND metric = @metric AND date BETWEEN @from AND @to
		`, args).Scan(&avg)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil
			}
			return nil, err
		}

		return avg, nil
	default:
		prior, err := s.GetDailyValue(ctx, site, platform, metric, date.AddDate(0, 0, -7))
		if err != nil {
			if errors.Is(err, ErrNoRows) {
				return nil, nil
			}
			return nil, err
		}

		v := float64(prior.Value)
		return &v, nil
	}
}
