package alerting

import (
	"fmt"
	"strings"
	"time"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"
)

// RuleResult is the outcome of one threshold rule. Evaluated is false when
// the rule could not be applied at all (no comparable prior period, or an
// insufficient baseline), in which case Severity is none and the rule is
// excluded from the triggered set.
type RuleResult struct {
	Rule      string
	Severity  types.Severity
	Evaluated bool

	// Observed is the numeric evidence the ladder was walked with: the raw
	// value for the floor rule, the change fraction for the percent rule
	// and the robust z-score for the z-score rule.
	Observed  float64
	Threshold float64
}

// Evaluation is the resolved result for one (site, platform, metric, day)
// tuple: the worst severity across the three rules plus their evidence.
type Evaluation struct {
	Severity       types.Severity
	TriggeredRules []string
	Message        string

	Baseline      types.Baseline
	PercentChange *float64
	ZScore        *float64

	Floor   RuleResult
	Percent RuleResult
	Z       RuleResult
}

// walkLadder walks a severity ladder from most to least severe and returns
// the first tier the observed value falls at or below.
func walkLadder(observed float64, ladder types.SeverityLadder) (types.Severity, float64) {
	switch {
	case observed <= ladder.Emergency:
		return types.SeverityEmergency, ladder.Emergency
	case observed <= ladder.Critical:
		return types.SeverityCritical, ladder.Critical
	case observed <= ladder.Warning:
		return types.SeverityWarning, ladder.Warning
	}
	return types.SeverityNone, 0
}

func evaluateAbsoluteFloor(value float64, ladder types.SeverityLadder) RuleResult {
	severity, threshold := walkLadder(value, ladder)
	return RuleResult{
		Rule:      types.RuleAbsoluteFloor,
		Severity:  severity,
		Evaluated: true,
		Observed:  value,
		Threshold: threshold,
	}
}

// evaluatePercentChange compares value against the comparable prior period.
// A nil or zero prior makes the rule inapplicable, never a division fault.
func evaluatePercentChange(value float64, prior *float64, ladder types.SeverityLadder) RuleResult {
	r := RuleResult{Rule: types.RulePercentChange}

	if prior == nil || *prior == 0 {
		return r
	}

	change := (value - *prior) / *prior
	severity, threshold := walkLadder(change, ladder)

	r.Severity = severity
	r.Evaluated = true
	r.Observed = change
	r.Threshold = threshold

	return r
}

// evaluateZScore walks the z-score ladder, or reports not-evaluated when the
// baseline window was too small to yield trustworthy statistics.
func evaluateZScore(value float64, baseline types.Baseline, ladder types.SeverityLadder) RuleResult {
	r := RuleResult{Rule: types.RuleZScore}

	if !baseline.Sufficient {
		return r
	}

	z := baseline.ZScore(value)
	severity, threshold := walkLadder(z, ladder)

	r.Severity = severity
	r.Evaluated = true
	r.Observed = z
	r.Threshold = threshold

	return r
}

// Evaluate runs all three rules independently and resolves them into a
// single severity. Rules never short-circuit each other, so the triggered
// set may contain more than one entry. prior is the comparable prior period
// value, or nil when not applicable.
func Evaluate(obs types.MetricObservation, baseline types.Baseline, prior *float64, cfg types.ThresholdConfig) Evaluation {
	value := float64(obs.Value)

	floor := evaluateAbsoluteFloor(value, cfg.AbsoluteFloor)
	percent := evaluatePercentChange(value, prior, cfg.PercentChange)
	z := evaluateZScore(value, baseline, cfg.ZScore)

	e := Evaluation{
		Severity: maxSeverity(floor.Severity, percent.Severity, z.Severity),
		Baseline: baseline,
		Floor:    floor,
		Percent:  percent,
		Z:        z,
	}

	if percent.Evaluated {
		pct := percent.Observed
		e.PercentChange = &pct
	}
	if z.Evaluated {
		zs := z.Observed
		e.ZScore = &zs
	}

	// Fixed rule priority order keeps the triggered set and the composed
	// message reproducible for identical inputs.
	for _, r := range []RuleResult{floor, percent, z} {
		if r.Evaluated && r.Severity > types.SeverityNone {
			e.TriggeredRules = append(e.TriggeredRules, r.Rule)
		}
	}

	e.Message = composeMessage(obs, e)

	return e
}

func maxSeverity(severities ...types.Severity) types.Severity {
	m := types.SeverityNone
	for _, s := range severities {
		if s > m {
			m = s
		}
	}
	return m
}

// composeMessage builds the human readable explanation from whichever rules
// fired, always in the order floor, percent change, z-score.
func composeMessage(obs types.MetricObservation, e Evaluation) string {
	if e.Severity == types.SeverityNone {
		return ""
	}

	parts := make([]string, 0, 3)

	if e.Floor.Severity > types.SeverityNone {
		parts = append(parts, fmt.Sprintf("value %.0f at or below %s floor %.0f",
			e.Floor.Observed, e.Floor.Severity, e.Floor.Threshold))
	}
	if e.Percent.Severity > types.SeverityNone {
		parts = append(parts, fmt.Sprintf("%+.1f%% vs prior period (threshold %+.0f%%)",
			e.Percent.Observed*100, e.Percent.Threshold*100))
	}
	if e.Z.Severity > types.SeverityNone {
		parts = append(parts, fmt.Sprintf("z-score %+.2f below %+.2f (median %.0f, mad %.0f)",
			e.Z.Observed, e.Z.Threshold, e.Baseline.Median, e.Baseline.MAD))
	}

	return fmt.Sprintf("%s: %s %s %s on %s: %s",
		strings.ToUpper(e.Severity.String()),
		obs.Site, obs.Platform, obs.Metric,
		obs.Date.UTC().Format("2006-01-02"),
		strings.Join(parts, "; "))
}

// NewAlert maps a resolved evaluation to its alert slot. The caller decides
// whether the slot should be created, upgraded or left alone.
func NewAlert(obs types.MetricObservation, e Evaluation, now time.Time) types.Alert {
	return types.Alert{
		Site:           obs.Site,
		Platform:       obs.Platform,
		Metric:         obs.Metric,
		Date:           obs.Date,
		Tenant:         obs.Tenant,
		Severity:       e.Severity,
		CurrentValue:   float64(obs.Value),
		BaselineMedian: e.Baseline.Median,
		PercentChange:  e.PercentChange,
		ZScore:         e.ZScore,
		TriggeredRules: e.TriggeredRules,
		Message:        e.Message,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
