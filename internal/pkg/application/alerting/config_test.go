package alerting

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"github.com/matryer/is"
)

const configYaml string = `
minimumwindow: 7
historywindow: 21
platforms:
  - web
  - mobile
thresholds:
  - site: example-site
    metric: visits
    comparison: sameweekday
    absolutefloor:
      warning: 700000
      critical: 500000
      emergency: 300000
    percentchange:
      warning: -0.15
      critical: -0.25
      emergency: -0.40
    zscore:
      warning: -2.0
      critical: -3.5
      emergency: -5.0
    description: total daily visits
  - site: other-site
    metric: pageviews
    comparison: weekoverweek
    absolutefloor:
      warning: 50000
      critical: 30000
      emergency: 10000
    percentchange:
      warning: -0.20
      critical: -0.35
      emergency: -0.50
    zscore:
      warning: -2.5
      critical: -4.0
      emergency: -6.0
`

func TestLoadConfig(t *testing.T) {
	is := is.New(t)

	cfg, err := NewConfig(io.NopCloser(strings.NewReader(configYaml)))
	is.NoErr(err)

	is.Equal(cfg.MinimumWindow, 7)
	is.Equal(cfg.HistoryWindow, 21)
	is.Equal(len(cfg.Thresholds), 2)

	tc, err := cfg.GetThresholds("example-site", "visits")
	is.NoErr(err)
	is.Equal(tc.AbsoluteFloor.Critical, 500000.0)
	is.Equal(tc.PercentChange.Emergency, -0.40)
}

func TestConfigDefaults(t *testing.T) {
	is := is.New(t)

	cfg, err := NewConfig(io.NopCloser(strings.NewReader("thresholds: []")))
	is.NoErr(err)

	is.Equal(cfg.MinimumWindow, DefaultMinimumWindow)
	is.Equal(cfg.HistoryWindow, 14)
}

func TestMissingThresholdsAreAnError(t *testing.T) {
	is := is.New(t)

	cfg, err := NewConfig(io.NopCloser(strings.NewReader(configYaml)))
	is.NoErr(err)

	_, err = cfg.GetThresholds("example-site", "uniques")
	is.True(errors.Is(err, ErrConfigMissing))
}

func TestUnorderedLadderIsRejected(t *testing.T) {
	is := is.New(t)

	_, err := NewConfig(io.NopCloser(strings.NewReader(`
thresholds:
  - site: example-site
    metric: visits
    absolutefloor:
      warning: 100
      critical: 500
      emergency: 50
`)))
	is.True(err != nil)
}

func TestTuplesExpandOverPlatforms(t *testing.T) {
	is := is.New(t)

	cfg, err := NewConfig(io.NopCloser(strings.NewReader(configYaml)))
	is.NoErr(err)

	tuples := cfg.Tuples()
	is.Equal(len(tuples), 4)
	is.Equal(tuples[0], Tuple{Site: "example-site", Platform: "web", Metric: "visits"})
	is.Equal(tuples[1], Tuple{Site: "example-site", Platform: "mobile", Metric: "visits"})
}

func TestTuplesDefaultToWebPlatform(t *testing.T) {
	is := is.New(t)

	cfg := Config{Thresholds: []types.ThresholdConfig{testThresholds()}}

	tuples := cfg.Tuples()
	is.Equal(len(tuples), 1)
	is.Equal(tuples[0].Platform, "web")
}
