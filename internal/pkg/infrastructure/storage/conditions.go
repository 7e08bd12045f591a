package storage

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
)

type ConditionFunc func(*Condition) *Condition

type Condition struct {
	AlertID     string
	IdentityKey string

	Site     string
	Platform string
	Metric   string

	Severities []int
	Tenant     string
	Tenants    []string

	DateFrom time.Time
	DateTo   time.Time

	// BeforeDate bounds history queries to rows strictly before the day
	// under evaluation.
	BeforeDate time.Time

	Acknowledged   *bool
	FinalOnly      bool
	ActiveSeverity bool

	sortBy    string
	sortOrder string

	offset *int
	limit  *int
}

func (c Condition) SortBy() string {
	return c.sortBy
}

func (c Condition) SortOrder() string {
	if c.sortOrder == "" {
		return "ASC"
	}
	return c.sortOrder
}

func (c Condition) Offset() int {
	if c.offset != nil {
		return *c.offset
	}
	return 0
}

func (c Condition) Limit() int {
	if c.limit != nil {
		return *c.limit
	}
	return 0
}

func (c Condition) NamedArgs() pgx.NamedArgs {
	args := pgx.NamedArgs{}

	if c.AlertID != "" {
		args["alert_id"] = c.AlertID
	}
	if c.IdentityKey != "" {
		args["identity_key"] = c.IdentityKey
	}
	if c.Site != "" {
		args["site"] = c.Site
	}
	if c.Platform != "" {
		args["platform"] = c.Platform
	}
	if c.Metric != "" {
		args["metric"] = c.Metric
	}
	if len(c.Severities) > 0 {
		args["severities"] = c.Severities
	}
	if c.Tenant != "" {
		args["tenant"] = c.Tenant
	}
	if c.Tenants != nil {
		args["tenants"] = c.Tenants
	}
	if !c.DateFrom.IsZero() {
		args["date_from"] = c.DateFrom.UTC().Format("2006-01-02")
	}
	if !c.DateTo.IsZero() {
		args["date_to"] = c.DateTo.UTC().Format("2006-01-02")
	}
	if !c.BeforeDate.IsZero() {
		args["before_date"] = c.BeforeDate.UTC().Format("2006-01-02")
	}
	if c.Acknowledged != nil {
		args["acknowledged"] = *c.Acknowledged
	}

	return args
}

func (c Condition) Where() string {
	where := []string{}

	if c.AlertID != "" {
		where = append(where, "alert_id = @alert_id")
	}
	if c.IdentityKey != "" {
		where = append(where, "identity_key = @identity_key")
	}
	if c.Site != "" {
		where = append(where, "site = @site")
	}
	if c.Platform != "" {
		where = append(where, "platform = @platform")
	}
	if c.Metric != "" {
		where = append(where, "metric = @metric")
	}
	if len(c.Severities) > 0 {
		where = append(where, "severity = ANY(@severities)")
	}
	if c.Tenant != "" {
		where = append(where, "tenant = @tenant")
	} else if len(c.Tenants) > 0 {
		where = append(where, "tenant = ANY(@tenants)")
	}
	if !c.DateFrom.IsZero() {
		where = append(where, "date >= @date_from")
	}
	if !c.DateTo.IsZero() {
		where = append(where, "date <= @date_to")
	}
	if !c.BeforeDate.IsZero() {
		where = append(where, "date < @before_date")
	}
	if c.Acknowledged != nil {
		where = append(where, "acknowledged = @acknowledged")
	}
	if c.FinalOnly {
		where = append(where, "preliminary = FALSE")
	}
	if c.ActiveSeverity {
		where = append(where, "severity > 0")
	}

	if len(where) == 0 {
		return ""
	}

	return "WHERE " + strings.Join(where, " AND ")
}

func WithAlertID(alertID string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.AlertID = alertID
		return c
	}
}

func WithIdentityKey(key string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.IdentityKey = key
		return c
	}
}

func WithSite(site string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Site = site
		return c
	}
}

func WithPlatform(platform string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Platform = platform
		return c
	}
}

func WithMetric(metric string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Metric = metric
		return c
	}
}

func WithSeverities(severities []types.Severity) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Severities = lo.Map(severities, func(s types.Severity, _ int) int {
			return int(s)
		})
		return c
	}
}

func WithTenant(tenant string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Tenant = tenant
		return c
	}
}

func WithTenants(tenants []string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Tenants = lo.Uniq(tenants)
		return c
	}
}

func WithDateBetween(from, to time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		c.DateFrom = from
		c.DateTo = to
		return c
	}
}

func WithDate(date time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		c.DateFrom = date
		c.DateTo = date
		return c
	}
}

func WithBeforeDate(date time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		c.BeforeDate = date
		return c
	}
}

func WithAcknowledged(acknowledged bool) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Acknowledged = &acknowledged
		return c
	}
}

func WithFinalOnly() ConditionFunc {
	return func(c *Condition) *Condition {
		c.FinalOnly = true
		return c
	}
}

func WithActiveSeverity() ConditionFunc {
	return func(c *Condition) *Condition {
		c.ActiveSeverity = true
		return c
	}
}

func WithSortBy(sortBy string) ConditionFunc {
	return func(c *Condition) *Condition {
		switch strings.ToLower(sortBy) {
		case "date":
			c.sortBy = "date"
		case "severity":
			c.sortBy = "severity"
		case "site":
			c.sortBy = "site"
		case "metric":
			c.sortBy = "metric"
		case "created_on":
			c.sortBy = "created_on"
		case "modified_on":
			c.sortBy = "modified_on"
		}
		return c
	}
}

func WithSortDesc(desc bool) ConditionFunc {
	return func(c *Condition) *Condition {
		if desc {
			c.sortOrder = "DESC"
		} else {
			c.sortOrder = "ASC"
		}
		return c
	}
}

func WithOffset(offset int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.offset = &offset
		return c
	}
}

func WithLimit(limit int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.limit = &limit
		return c
	}
}

func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func ParseConditions(ctx context.Context, params map[string][]string) []ConditionFunc {
	log := logging.GetFromContext(ctx)

	conditions := make([]ConditionFunc, 0)

	for k, v := range params {
		switch strings.ToLower(k) {
		case "site":
			conditions = append(conditions, WithSite(v[0]))
		case "platform":
			conditions = append(conditions, WithPlatform(v[0]))
		case "metric":
			conditions = append(conditions, WithMetric(v[0]))
		case "severity":
			severities := make([]types.Severity, 0, len(v))
			for _, name := range v {
				s, err := types.ParseSeverity(name)
				if err != nil {
					log.Debug("unknown severity in query", "value", name)
					continue
				}
				severities = append(severities, s)
			}
			if len(severities) > 0 {
				conditions = append(conditions, WithSeverities(severities))
			}
		case "acknowledged":
			acknowledged, _ := strconv.ParseBool(v[0])
			conditions = append(conditions, WithAcknowledged(acknowledged))
		case "active":
			conditions = append(conditions, WithActiveSeverity())
		case "from":
			if t, ok := parseDay(v[0]); ok {
				conditions = append(conditions, func(c *Condition) *Condition {
					c.DateFrom = t
					return c
				})
			}
		case "to":
			if t, ok := parseDay(v[0]); ok {
				conditions = append(conditions, func(c *Condition) *Condition {
					c.DateTo = t
					return c
				})
			}
		case "date":
			if t, ok := parseDay(v[0]); ok {
				conditions = append(conditions, WithDate(t))
			}
		case "tenant":
			conditions = append(conditions, WithTenant(v[0]))
		case "limit":
			limit, _ := strconv.Atoi(v[0])
			conditions = append(conditions, WithLimit(limit))
		case "offset":
			offset, _ := strconv.Atoi(v[0])
			conditions = append(conditions, WithOffset(offset))
		case "sortby":
			conditions = append(conditions, WithSortBy(v[0]))
		case "sortorder":
			conditions = append(conditions, WithSortDesc(strings.EqualFold(v[0], "desc")))
		default:
			log.Debug("unknown query parameter", "param", k, "value", v[0])
		}
	}

	return conditions
}
