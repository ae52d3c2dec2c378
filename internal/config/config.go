package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
}

// OCR contains settings for the Tesseract-backed name extraction.
type OCR struct {
	Language    string `toml:"language"`
	DPI         int    `toml:"dpi"`
	PageSegMode string `toml:"page_seg_mode"`
	Crop        Crop   `toml:"crop"`
}

// Crop holds the four ratios describing the name-bearing band of a card
// photo. Ratios are relative to image width (left/right) and height
// (top/bottom).
type Crop struct {
	Left   float64 `toml:"left"`
	Top    float64 `toml:"top"`
	Right  float64 `toml:"right"`
	Bottom float64 `toml:"bottom"`
}

// Dictionary configures the card-name dictionary and the fuzzy index built
// from it.
type Dictionary struct {
	Path            string `toml:"path"`
	MaxEditDistance int    `toml:"max_edit_distance"`
}

// Scryfall contains configuration for the card metadata service.
type Scryfall struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	RequestTimeout int    `toml:"request_timeout"`
}

// GPIO selects the pin driver and the BCM pin assignments of the sorter.
type GPIO struct {
	Driver      string `toml:"driver"`
	MotorPin    int    `toml:"motor_pin"`
	SensorPin   int    `toml:"sensor_pin"`
	FlapLeftA   int    `toml:"flap_left_a_pin"`
	FlapLeftB   int    `toml:"flap_left_b_pin"`
	MainSortPin int    `toml:"main_sort_pin"`
}

// Sorter contains actuation timing for the mechanical sorter.
type Sorter struct {
	SensorTimeout  int `toml:"sensor_timeout"`
	SensorPollMS   int `toml:"sensor_poll_ms"`
	FlapPulseMS    int `toml:"flap_pulse_ms"`
	MainFlapLeadMS int `toml:"main_flap_lead_ms"`
	MotorSettleMS  int `toml:"motor_settle_ms"`
}

// Camera configures the capture-device presence monitor. Image capture
// itself happens outside the pipeline; the monitor only reports readiness.
type Camera struct {
	Enabled bool   `toml:"enabled"`
	Device  string `toml:"device"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cardsort.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and API bind address
//   - OCR: Tesseract language, DPI, and the default crop band
//   - Dictionary: card-name dictionary path and fuzzy-match distance
//   - Scryfall: metadata service endpoint
//   - GPIO: pin driver selection and pin assignments
//   - Sorter: sensor timeout and actuation timing
//   - Camera: capture device presence monitoring
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	OCR        OCR        `toml:"ocr"`
	Dictionary Dictionary `toml:"dictionary"`
	Scryfall   Scryfall   `toml:"scryfall"`
	GPIO       GPIO       `toml:"gpio"`
	Sorter     Sorter     `toml:"sorter"`
	Camera     Camera     `toml:"camera"`
	Logging    Logging    `toml:"logging"`
}

// SampleConfig returns the annotated sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cardsort/config.toml")
}

// ExpandPath resolves ~ and relative segments to an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// CreateSample writes the annotated sample configuration to path, creating
// parent directories as needed.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// EnsureDirectories creates the data and log directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err = os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("cardsort.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}
