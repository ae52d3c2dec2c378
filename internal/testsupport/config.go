package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"cardsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The GPIO driver is always simulated and the sorter timings are shrunk so
// actuation tests run in milliseconds.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Dictionary.Path = filepath.Join(base, "card_names.txt")
	cfg.GPIO.Driver = "simulated"
	cfg.Sorter.SensorTimeout = 1
	cfg.Sorter.SensorPollMS = 1
	cfg.Sorter.FlapPulseMS = 2
	cfg.Sorter.MainFlapLeadMS = 1
	cfg.Sorter.MotorSettleMS = 2

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithDictionary writes the provided dictionary contents to the config's
// dictionary path.
func WithDictionary(t testing.TB, contents string) ConfigOption {
	return func(cfg *config.Config) {
		t.Helper()
		if err := os.MkdirAll(filepath.Dir(cfg.Dictionary.Path), 0o755); err != nil {
			t.Fatalf("mkdir dictionary dir: %v", err)
		}
		if err := os.WriteFile(cfg.Dictionary.Path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write dictionary: %v", err)
		}
	}
}

// WithSensorTimeout overrides the sorter sensor timeout in seconds.
func WithSensorTimeout(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sorter.SensorTimeout = seconds
	}
}
