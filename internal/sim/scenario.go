// Package sim replays synthetic typing traffic against the prediction engine.
package sim

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML scenarios can say "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode duration: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("failed to parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Scenario describes one synthetic traffic run.
type Scenario struct {
	Name         string   `yaml:"name"`
	Users        int      `yaml:"users"`
	Workers      int      `yaml:"workers"`
	Messages     int      `yaml:"messages"` // per user
	WordsPerMsg  int      `yaml:"words_per_msg"`
	PredictEvery int      `yaml:"predict_every"` // 0 disables predictions
	Limit        int      `yaml:"limit"`
	Seed         int64    `yaml:"seed"` // 0 seeds from the clock
	Zipf         float64  `yaml:"zipf"` // <=1 falls back to uniform draws
	CapsPct      float64  `yaml:"caps_pct"`
	PunctPct     float64  `yaml:"punct_pct"`
	PunctSet     string   `yaml:"punct_set"`
	Wordlist     string   `yaml:"wordlist"`
	Duration     Duration `yaml:"duration"` // 0 runs to completion
	Archive      bool     `yaml:"archive"`
}

// DefaultScenario returns the stock traffic shape.
func DefaultScenario() Scenario {
	return Scenario{
		Name:         "default",
		Users:        50,
		Workers:      8,
		Messages:     40,
		WordsPerMsg:  8,
		PredictEvery: 1,
		Limit:        5,
		Zipf:         1.3,
		CapsPct:      0.1,
		PunctPct:     0.15,
		PunctSet:     ".,?!",
	}
}

// LoadScenario reads a YAML scenario over the defaults.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc := DefaultScenario()
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Validate rejects traffic shapes the runner cannot execute.
func (s Scenario) Validate() error {
	if s.Users < 1 {
		return fmt.Errorf("scenario needs at least 1 user, got %d", s.Users)
	}
	if s.Workers < 1 {
		return fmt.Errorf("scenario needs at least 1 worker, got %d", s.Workers)
	}
	if s.Messages < 1 {
		return fmt.Errorf("scenario needs at least 1 message per user, got %d", s.Messages)
	}
	if s.WordsPerMsg < 1 {
		return fmt.Errorf("scenario needs at least 1 word per message, got %d", s.WordsPerMsg)
	}
	if s.PredictEvery < 0 {
		return fmt.Errorf("predict_every cannot be negative, got %d", s.PredictEvery)
	}
	if s.CapsPct < 0 || s.CapsPct > 1 {
		return fmt.Errorf("caps_pct must be within [0,1], got %g", s.CapsPct)
	}
	if s.PunctPct < 0 || s.PunctPct > 1 {
		return fmt.Errorf("punct_pct must be within [0,1], got %g", s.PunctPct)
	}
	if s.Duration < 0 {
		return fmt.Errorf("duration cannot be negative, got %s", time.Duration(s.Duration))
	}
	return nil
}
