package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize default config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[paths]
data_dir = "` + dir + `/data"
log_dir = "` + dir + `/logs"
api_bind = "127.0.0.1:0"

[gpio]
driver = "simulated"
motor_pin = 5
sensor_pin = 6
flap_left_a_pin = 7
flap_left_b_pin = 8
main_sort_pin = 9

[sorter]
sensor_timeout = 3
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.GPIO.MotorPin != 5 || cfg.Sorter.SensorTimeout != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.OCR.Language != defaultOCRLanguage {
		t.Fatalf("expected default OCR language, got %q", cfg.OCR.Language)
	}
	if cfg.Sorter.FlapPulseMS != defaultFlapPulseMS {
		t.Fatalf("expected default flap pulse, got %d", cfg.Sorter.FlapPulseMS)
	}
}

func TestLoadRejectsBadCrop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[ocr.crop]
left = 0.7
right = 0.2
top = 0.1
bottom = 0.3
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "ocr.crop") {
		t.Fatalf("expected crop validation error, got %v", err)
	}
}

func TestValidateRejectsDuplicatePins(t *testing.T) {
	cfg := Default()
	cfg.GPIO.MotorPin = cfg.GPIO.SensorPin
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected duplicate pin error")
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.GPIO.Driver = "mock"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected driver validation error")
	}
}

func TestCropValidate(t *testing.T) {
	good := Crop{Left: 0.1, Top: 0.1, Right: 0.9, Bottom: 0.2}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid crop rejected: %v", err)
	}
	bad := Crop{Left: -0.1, Top: 0.1, Right: 0.9, Bottom: 0.2}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := expandPath("~/cards")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "cards") {
		t.Fatalf("expandPath = %q", got)
	}
}
