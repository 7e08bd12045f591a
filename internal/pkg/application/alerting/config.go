package alerting

import (
	"fmt"
	"io"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"

	"gopkg.in/yaml.v2"
)

var ErrConfigMissing = fmt.Errorf("no threshold configuration for site and metric")

// Config is the alerting policy for the whole service: which tuples are
// evaluated on a scheduled run and the thresholds that apply to them.
// Configuration is loaded once per run and threaded through as an argument;
// there is no process wide mutable threshold state.
type Config struct {
	// MinimumWindow is the fewest history points required before the
	// z-score rule is trusted.
	MinimumWindow int `yaml:"minimumwindow"`

	// HistoryWindow is the number of days of history fetched for the
	// baseline.
	HistoryWindow int `yaml:"historywindow"`

	Platforms  []string                `yaml:"platforms"`
	Thresholds []types.ThresholdConfig `yaml:"thresholds"`
}

func NewConfig(r io.ReadCloser) (*Config, error) {
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(b, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.MinimumWindow == 0 {
		cfg.MinimumWindow = DefaultMinimumWindow
	}
	if cfg.HistoryWindow == 0 {
		cfg.HistoryWindow = 14
	}

	for _, tc := range cfg.Thresholds {
		if err := tc.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// GetThresholds returns the policy for a (site, metric) tuple. A missing
// policy is fatal for that tuple only; the caller skips the evaluation with
// a logged reason instead of defaulting to arbitrary numbers.
func (c Config) GetThresholds(site, metric string) (types.ThresholdConfig, error) {
	for _, tc := range c.Thresholds {
		if tc.Site == site && tc.Metric == metric {
			return tc, nil
		}
	}
	return types.ThresholdConfig{}, ErrConfigMissing
}

// Tuple is one (site, platform, metric) combination subject to evaluation.
type Tuple struct {
	Site     string
	Platform string
	Metric   string
}

// Tuples expands the configured thresholds over the configured platforms.
func (c Config) Tuples() []Tuple {
	platforms := c.Platforms
	if len(platforms) == 0 {
		platforms = []string{"web"}
	}

	tuples := make([]Tuple, 0, len(c.Thresholds)*len(platforms))
	for _, tc := range c.Thresholds {
		for _, p := range platforms {
			tuples = append(tuples, Tuple{Site: tc.Site, Platform: p, Metric: tc.Metric})
		}
	}

	return tuples
}
