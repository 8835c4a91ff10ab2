package r3y

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

type (
	// configFile is the top-level JSON structure.
	configFile struct {
		Schedules map[string]StrategyConfig `json:"schedules"`
	}

	// StrategyConfig holds the decoded configuration for a single retry
	// schedule. Export it to embed in your own app config structs for JSON
	// or YAML unmarshaling, then call [BuildStrategy] to obtain a
	// [Strategy].
	StrategyConfig struct {
		// Backoff is the schedule generator name.
		// Required. One of: "constant", "exponential", "linear",
		// "exponential_jitter".
		Backoff *string `json:"backoff,omitempty" yaml:"backoff,omitempty"`
		// BaseDelay is the base delay for the generator.
		// Required. Parsed via time.ParseDuration. Example: "100ms".
		BaseDelay *string `json:"base_delay,omitempty" yaml:"base_delay,omitempty"`
		// MaxDelay clamps each generated delay.
		// Optional. Parsed via time.ParseDuration. Example: "30s".
		MaxDelay *string `json:"max_delay,omitempty" yaml:"max_delay,omitempty"`
		// MaxRetries truncates the schedule to a finite number of
		// delays. Optional; omitted means the schedule never exhausts.
		// Example: 3.
		MaxRetries *int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
	}
)

// LoadConfig reads a JSON configuration file and returns one [Strategy] per
// named schedule entry.
//
// Duration values (base_delay, max_delay) are parsed using
// [time.ParseDuration]. Supported generators: "constant", "exponential",
// "linear", "exponential_jitter".
func LoadConfig(path string) (map[string]Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("r3y: read config: %w", err)
	}

	var cfg configFile
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("r3y: parse config: %w", err)
	}

	schedules := make(map[string]Strategy, len(cfg.Schedules))

	for name, sc := range cfg.Schedules {
		strategy, buildErr := BuildStrategy(&sc)
		if buildErr != nil {
			return nil, fmt.Errorf("r3y: schedule %q: %w", name, buildErr)
		}

		schedules[name] = strategy
	}

	return schedules, nil
}

// BuildStrategy converts a [StrategyConfig] into a [Strategy]. Use this when
// you embed [StrategyConfig] in your own config struct instead of going
// through [LoadConfig].
//
//nolint:ireturn // returns interface by design for strategy pattern
func BuildStrategy(sc *StrategyConfig) (Strategy, error) {
	const errCtx = "building retry schedule"

	if sc.Backoff == nil {
		return nil, fmt.Errorf("%s: backoff is required", errCtx)
	}

	if sc.BaseDelay == nil {
		return nil, fmt.Errorf("%s: base_delay is required", errCtx)
	}

	base, err := time.ParseDuration(*sc.BaseDelay)
	if err != nil {
		return nil, fmt.Errorf("base_delay: %w", err)
	}

	var strategy Strategy

	switch *sc.Backoff {
	case "constant":
		strategy = Constant(base)
	case "exponential":
		strategy = Exponential(base)
	case "linear":
		strategy = Linear(base)
	case "exponential_jitter":
		strategy = ExponentialJitter(base)
	default:
		return nil, fmt.Errorf(
			"unknown backoff strategy: %q",
			*sc.Backoff,
		)
	}

	if sc.MaxDelay != nil {
		maxDel, maxDelErr := time.ParseDuration(*sc.MaxDelay)
		if maxDelErr != nil {
			return nil, fmt.Errorf("max_delay: %w", maxDelErr)
		}

		strategy = CapDelay(strategy, maxDel)
	}

	if sc.MaxRetries != nil {
		strategy = Limit(strategy, *sc.MaxRetries)
	}

	return strategy, nil
}
