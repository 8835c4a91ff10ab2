package r3y

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// ---------------------------------------------------------------------------
// Tests: BuildStrategy
// ---------------------------------------------------------------------------

func TestBuildStrategyConstant(t *testing.T) {
	s, err := BuildStrategy(&StrategyConfig{
		Backoff:   strPtr("constant"),
		BaseDelay: strPtr("100ms"),
	})
	if err != nil {
		t.Fatalf("BuildStrategy() error = %v, want nil", err)
	}

	cur := s.Delays()
	for i := range 3 {
		d, ok := cur.Next()
		if !ok || d != 100*time.Millisecond {
			t.Fatalf("delay %d = %v, %v, want 100ms, true", i, d, ok)
		}
	}
}

func TestBuildStrategyExponentialWithCapAndLimit(t *testing.T) {
	s, err := BuildStrategy(&StrategyConfig{
		Backoff:    strPtr("exponential"),
		BaseDelay:  strPtr("100ms"),
		MaxDelay:   strPtr("150ms"),
		MaxRetries: intPtr(3),
	})
	if err != nil {
		t.Fatalf("BuildStrategy() error = %v, want nil", err)
	}

	got := drain(s.Delays(), 10)
	want := []time.Duration{
		100 * time.Millisecond,
		150 * time.Millisecond, // 200ms capped
		150 * time.Millisecond, // 400ms capped
	}
	if len(got) != len(want) {
		t.Fatalf("delays = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delay %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBuildStrategyLinear(t *testing.T) {
	s, err := BuildStrategy(&StrategyConfig{
		Backoff:   strPtr("linear"),
		BaseDelay: strPtr("1s"),
	})
	if err != nil {
		t.Fatalf("BuildStrategy() error = %v, want nil", err)
	}

	got := drain(s.Delays(), 2)
	if got[0] != time.Second || got[1] != 2*time.Second {
		t.Fatalf("delays = %v, want [1s 2s]", got)
	}
}

func TestBuildStrategyExponentialJitter(t *testing.T) {
	s, err := BuildStrategy(&StrategyConfig{
		Backoff:    strPtr("exponential_jitter"),
		BaseDelay:  strPtr("100ms"),
		MaxRetries: intPtr(2),
	})
	if err != nil {
		t.Fatalf("BuildStrategy() error = %v, want nil", err)
	}

	got := drain(s.Delays(), 10)
	if len(got) != 2 {
		t.Fatalf("got %d delays, want 2", len(got))
	}
	if got[0] < 0 || got[0] > 100*time.Millisecond {
		t.Fatalf("delay 0 = %v, want in [0, 100ms]", got[0])
	}
}

func TestBuildStrategyErrors(t *testing.T) {
	cases := []struct {
		name string
		cfg  StrategyConfig
	}{
		{"missing backoff", StrategyConfig{BaseDelay: strPtr("1s")}},
		{"missing base_delay", StrategyConfig{Backoff: strPtr("constant")}},
		{
			"bad base_delay",
			StrategyConfig{
				Backoff:   strPtr("constant"),
				BaseDelay: strPtr("not-a-duration"),
			},
		},
		{
			"bad max_delay",
			StrategyConfig{
				Backoff:   strPtr("constant"),
				BaseDelay: strPtr("1s"),
				MaxDelay:  strPtr("???"),
			},
		},
		{
			"unknown backoff",
			StrategyConfig{
				Backoff:   strPtr("fibonacci"),
				BaseDelay: strPtr("1s"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BuildStrategy(&tc.cfg); err == nil {
				t.Fatal("BuildStrategy() error = nil, want error")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Tests: LoadConfig
// ---------------------------------------------------------------------------

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "r3y.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"schedules": {
			"api": {
				"backoff": "exponential",
				"base_delay": "100ms",
				"max_delay": "2s",
				"max_retries": 3
			},
			"db": {
				"backoff": "constant",
				"base_delay": "1s"
			}
		}
	}`)

	schedules, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}
	if len(schedules) != 2 {
		t.Fatalf("got %d schedules, want 2", len(schedules))
	}

	got := drain(schedules["api"].Delays(), 10)
	if len(got) != 3 || got[0] != 100*time.Millisecond {
		t.Fatalf("api delays = %v, want 3 delays starting at 100ms", got)
	}

	d, ok := schedules["db"].Delays().Next()
	if !ok || d != time.Second {
		t.Fatalf("db first delay = %v, %v, want 1s, true", d, ok)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("LoadConfig() error = nil, want error")
	}
}

func TestLoadConfigMalformedJSON(t *testing.T) {
	path := writeConfigFile(t, `{"schedules": `)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() error = nil, want error")
	}
}

func TestLoadConfigInvalidSchedule(t *testing.T) {
	path := writeConfigFile(t, `{
		"schedules": {
			"broken": {"backoff": "warp", "base_delay": "1s"}
		}
	}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() error = nil, want error")
	}
}
