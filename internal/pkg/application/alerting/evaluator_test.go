package alerting

import (
	"strings"
	"testing"
	"time"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/matryer/is"
)

func testThresholds() types.ThresholdConfig {
	return types.ThresholdConfig{
		Site:          "example-site",
		Metric:        "visits",
		AbsoluteFloor: types.SeverityLadder{Warning: 700000, Critical: 500000, Emergency: 300000},
		PercentChange: types.SeverityLadder{Warning: -0.15, Critical: -0.25, Emergency: -0.40},
		ZScore:        types.SeverityLadder{Warning: -2.0, Critical: -3.5, Emergency: -5.0},
	}
}

func testObservation(value int64) types.MetricObservation {
	return types.MetricObservation{
		Site:     "example-site",
		Platform: "web",
		Metric:   "visits",
		Date:     time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
		Value:    value,
		Tenant:   "default",
	}
}

func TestFloorLadderWalksMostSevereFirst(t *testing.T) {
	is := is.New(t)
	ladder := testThresholds().AbsoluteFloor

	r := evaluateAbsoluteFloor(250000, ladder)
	is.Equal(r.Severity, types.SeverityEmergency)
	is.Equal(r.Threshold, 300000.0)

	r = evaluateAbsoluteFloor(400000, ladder)
	is.Equal(r.Severity, types.SeverityCritical)

	r = evaluateAbsoluteFloor(650000, ladder)
	is.Equal(r.Severity, types.SeverityWarning)

	r = evaluateAbsoluteFloor(700001, ladder)
	is.Equal(r.Severity, types.SeverityNone)
}

func TestFloorThresholdsAreInclusive(t *testing.T) {
	is := is.New(t)
	ladder := testThresholds().AbsoluteFloor

	is.Equal(evaluateAbsoluteFloor(700000, ladder).Severity, types.SeverityWarning)
	is.Equal(evaluateAbsoluteFloor(500000, ladder).Severity, types.SeverityCritical)
	is.Equal(evaluateAbsoluteFloor(300000, ladder).Severity, types.SeverityEmergency)
}

func TestPercentChangeRequiresComparablePrior(t *testing.T) {
	is := is.New(t)
	ladder := testThresholds().PercentChange

	r := evaluatePercentChange(600000, nil, ladder)
	is.True(!r.Evaluated)
	is.Equal(r.Severity, types.SeverityNone)

	zero := 0.0
	r = evaluatePercentChange(600000, &zero, ladder)
	is.True(!r.Evaluated)
}

func TestPercentChangeIgnoresIncreases(t *testing.T) {
	is := is.New(t)

	prior := 500000.0
	r := evaluatePercentChange(900000, &prior, testThresholds().PercentChange)

	is.True(r.Evaluated)
	is.Equal(r.Severity, types.SeverityNone)
}

func TestZScoreRuleSkippedOnInsufficientBaseline(t *testing.T) {
	is := is.New(t)

	baseline := types.Baseline{Median: 800000, MAD: 50000, WindowSize: 3, Sufficient: false}
	r := evaluateZScore(600000, baseline, testThresholds().ZScore)

	is.True(!r.Evaluated)
	is.Equal(r.Severity, types.SeverityNone)
}

func TestEvaluateResolvesWorstSeverity(t *testing.T) {
	is := is.New(t)

	baseline := types.Baseline{Median: 820000, MAD: 120000, WindowSize: 14, Sufficient: true}
	prior := 838874.0

	e := Evaluate(testObservation(600000), baseline, &prior, testThresholds())

	// floor trips warning, percent change (-28.5%) trips critical,
	// z-score (-1.83) stays quiet
	is.Equal(e.Severity, types.SeverityCritical)
	is.Equal(e.TriggeredRules, []string{types.RuleAbsoluteFloor, types.RulePercentChange})

	is.True(e.PercentChange != nil)
	is.True(*e.PercentChange < -0.28 && *e.PercentChange > -0.29)
	is.True(e.ZScore != nil)
}

func TestEvaluateQuietDay(t *testing.T) {
	is := is.New(t)

	baseline := types.Baseline{Median: 820000, MAD: 50000, WindowSize: 14, Sufficient: true}
	prior := 810000.0

	e := Evaluate(testObservation(815000), baseline, &prior, testThresholds())

	is.Equal(e.Severity, types.SeverityNone)
	is.Equal(len(e.TriggeredRules), 0)
	is.Equal(e.Message, "")
}

func TestMessageLeadsWithSeverityAndKeepsRuleOrder(t *testing.T) {
	is := is.New(t)

	baseline := types.Baseline{Median: 820000, MAD: 120000, WindowSize: 14, Sufficient: true}
	prior := 838874.0

	e := Evaluate(testObservation(600000), baseline, &prior, testThresholds())

	is.True(strings.HasPrefix(e.Message, "CRITICAL: example-site web visits on 2025-03-17"))
	is.True(strings.Index(e.Message, "floor") < strings.Index(e.Message, "prior period"))
}

func TestNewAlertCarriesEvidence(t *testing.T) {
	is := is.New(t)

	baseline := types.Baseline{Median: 820000, MAD: 120000, WindowSize: 14, Sufficient: true}
	prior := 838874.0
	obs := testObservation(600000)

	now := time.Now().UTC()
	alert := NewAlert(obs, Evaluate(obs, baseline, &prior, testThresholds()), now)

	is.Equal(alert.Severity, types.SeverityCritical)
	is.Equal(alert.CurrentValue, 600000.0)
	is.Equal(alert.BaselineMedian, 820000.0)
	is.Equal(alert.IdentityKey(), "example-site|web|visits|2025-03-17")
	is.Equal(alert.CreatedAt, now)
}
