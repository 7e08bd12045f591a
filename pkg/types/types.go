package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	SeverityNone      Severity = 0
	SeverityWarning   Severity = 1
	SeverityCritical  Severity = 2
	SeverityEmergency Severity = 3
)

// Severity is a totally ordered alert level. Higher is worse.
type Severity int

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	case SeverityEmergency:
		return "emergency"
	default:
		return "none"
	}
}

func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "none":
		return SeverityNone, nil
	case "warning":
		return SeverityWarning, nil
	case "critical":
		return SeverityCritical, nil
	case "emergency":
		return SeverityEmergency, nil
	}
	return SeverityNone, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	sev, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// MetricObservation is one measured daily value for a (site, platform, metric)
// tuple. Preliminary observations may later be superseded by a final
// observation with the same key.
type MetricObservation struct {
	Site        string    `json:"site"`
	Platform    string    `json:"platform"`
	Metric      string    `json:"metric"`
	Date        time.Time `json:"date"`
	Value       int64     `json:"value"`
	Preliminary bool      `json:"preliminary"`
	Tenant      string    `json:"tenant"`
}

// SeverityLadder holds one threshold per severity tier. For floors and
// z-scores emergency is the lowest value, for percent change it is the most
// negative fraction.
type SeverityLadder struct {
	Warning   float64 `json:"warning" yaml:"warning"`
	Critical  float64 `json:"critical" yaml:"critical"`
	Emergency float64 `json:"emergency" yaml:"emergency"`
}

const (
	ComparisonSameWeekday  string = "sameweekday"
	ComparisonWeekOverWeek string = "weekoverweek"
)

// ThresholdConfig is the per (site, metric) alerting policy. Platform
// specific overrides are not supported; the policy applies to every platform
// of the site.
type ThresholdConfig struct {
	Site   string `json:"site" yaml:"site"`
	Metric string `json:"metric" yaml:"metric"`

	// Comparison selects the prior comparable period for the percent
	// change rule: a single value from the same weekday one week back, or
	// the average over the seven preceding days.
	Comparison string `json:"comparison" yaml:"comparison"`

	AbsoluteFloor SeverityLadder `json:"absolutefloor" yaml:"absolutefloor"`
	PercentChange SeverityLadder `json:"percentchange" yaml:"percentchange"`
	ZScore        SeverityLadder `json:"zscore" yaml:"zscore"`

	Description string `json:"description,omitempty" yaml:"description"`
}

func (tc ThresholdConfig) Validate() error {
	if tc.Site == "" || tc.Metric == "" {
		return fmt.Errorf("threshold config requires both site and metric")
	}

	switch tc.Comparison {
	case "", ComparisonSameWeekday, ComparisonWeekOverWeek:
	default:
		return fmt.Errorf("unknown comparison %q", tc.Comparison)
	}

	if !(tc.AbsoluteFloor.Emergency <= tc.AbsoluteFloor.Critical && tc.AbsoluteFloor.Critical <= tc.AbsoluteFloor.Warning) {
		return fmt.Errorf("absolute floor ladder for %s/%s is not ordered emergency <= critical <= warning", tc.Site, tc.Metric)
	}
	if !(tc.PercentChange.Emergency <= tc.PercentChange.Critical && tc.PercentChange.Critical <= tc.PercentChange.Warning) {
		return fmt.Errorf("percent change ladder for %s/%s is not ordered emergency <= critical <= warning", tc.Site, tc.Metric)
	}
	if !(tc.ZScore.Emergency <= tc.ZScore.Critical && tc.ZScore.Critical <= tc.ZScore.Warning) {
		return fmt.Errorf("zscore ladder for %s/%s is not ordered emergency <= critical <= warning", tc.Site, tc.Metric)
	}

	return nil
}

// MaxRobustZScore caps z-scores when the baseline dispersion is degenerate,
// so that a deviation from an all-identical history still walks the ladder
// as a maximal trigger instead of dividing by zero.
const MaxRobustZScore float64 = 10.0

// Baseline holds robust statistics over a history window. MAD is scaled by
// 1.4826 so that it approximates a standard deviation for normally
// distributed data. Sufficient is false when the window held fewer points
// than the configured minimum, which disables the z-score rule.
type Baseline struct {
	Median     float64 `json:"median"`
	MAD        float64 `json:"mad"`
	WindowSize int     `json:"windowSize"`
	Sufficient bool    `json:"sufficient"`
}

// ZScore returns the number of scaled-MAD units v lies from the median.
// A zero MAD means the window was constant: a value equal to the median
// scores 0, anything else scores the cap.
func (b Baseline) ZScore(v float64) float64 {
	diff := v - b.Median

	if b.MAD == 0 {
		if diff == 0 {
			return 0
		}
		if diff > 0 {
			return MaxRobustZScore
		}
		return -MaxRobustZScore
	}

	z := diff / b.MAD
	if z > MaxRobustZScore {
		return MaxRobustZScore
	}
	if z < -MaxRobustZScore {
		return -MaxRobustZScore
	}
	return z
}

const (
	RuleAbsoluteFloor string = "absolute_floor"
	RulePercentChange string = "percent_change"
	RuleZScore        string = "zscore"
)

// Alert is the engine's output artifact. One alert slot exists per identity
// key; severity only ever increases unless an operator acknowledges the
// alert out of band.
type Alert struct {
	ID       string    `json:"id"`
	Site     string    `json:"site"`
	Platform string    `json:"platform"`
	Metric   string    `json:"metric"`
	Date     time.Time `json:"date"`
	Tenant   string    `json:"tenant"`

	Severity       Severity `json:"severity"`
	CurrentValue   float64  `json:"currentValue"`
	BaselineMedian float64  `json:"baselineMedian"`
	PercentChange  *float64 `json:"percentChange,omitempty"`
	ZScore         *float64 `json:"zscore,omitempty"`
	TriggeredRules []string `json:"triggeredRules"`
	Message        string   `json:"message"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	AcknowledgedBy string     `json:"acknowledgedBy,omitempty"`
}

// IdentityKey identifies the alert slot for one (site, platform, metric, day)
// tuple. Severity is deliberately excluded so that re-evaluation always maps
// to the same slot.
func (a Alert) IdentityKey() string {
	return IdentityKey(a.Site, a.Platform, a.Metric, a.Date)
}

func IdentityKey(site, platform, metric string, date time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s", site, platform, metric, date.UTC().Format("2006-01-02"))
}

type Collection[T any] struct {
	Data       []T    `json:"data"`
	Count      uint64 `json:"count"`
	Offset     uint64 `json:"offset"`
	Limit      uint64 `json:"limit"`
	TotalCount uint64 `json:"totalCount"`
}

const (
	TupleStatusOK              string = "ok"
	TupleStatusSkippedNoConfig string = "skipped-no-config"
	TupleStatusSkippedNoData   string = "skipped-no-data"
	TupleStatusFailedToPersist string = "failed-to-persist"
	TupleStatusFailed          string = "failed"
)

// TupleResult reports the outcome of evaluating a single
// (site, platform, metric) tuple within one run.
type TupleResult struct {
	Site     string `json:"site"`
	Platform string `json:"platform"`
	Metric   string `json:"metric"`

	Status   string   `json:"status"`
	Severity Severity `json:"severity"`
	Error    string   `json:"error,omitempty"`

	Alert *Alert `json:"alert,omitempty"`
}

// RunReport is the structured per-run summary. It doubles as the
// notification payload: every entry in Alerts has severity above none, and
// delivery to chat or mail is an external concern.
type RunReport struct {
	Date        time.Time     `json:"date"`
	StartedAt   time.Time     `json:"startedAt"`
	CompletedAt time.Time     `json:"completedAt"`
	Results     []TupleResult `json:"results"`
	Alerts      []Alert       `json:"alerts"`

	Evaluated int `json:"evaluated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
