package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDictionary(); err != nil {
		return err
	}
	c.normalizeOCR()
	c.normalizeScryfall()
	c.normalizeGPIO()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeDictionary() error {
	var err error
	if strings.TrimSpace(c.Dictionary.Path) == "" {
		c.Dictionary.Path = defaultDictionaryPath
	}
	if c.Dictionary.Path, err = expandPath(c.Dictionary.Path); err != nil {
		return fmt.Errorf("dictionary.path: %w", err)
	}
	if c.Dictionary.MaxEditDistance == 0 {
		c.Dictionary.MaxEditDistance = defaultMaxEditDistance
	}
	return nil
}

func (c *Config) normalizeOCR() {
	c.OCR.Language = strings.TrimSpace(c.OCR.Language)
	if c.OCR.Language == "" {
		c.OCR.Language = defaultOCRLanguage
	}
	if c.OCR.DPI == 0 {
		c.OCR.DPI = defaultOCRDPI
	}
	c.OCR.PageSegMode = strings.TrimSpace(c.OCR.PageSegMode)
}

func (c *Config) normalizeScryfall() {
	c.Scryfall.BaseURL = strings.TrimSpace(c.Scryfall.BaseURL)
	if c.Scryfall.BaseURL == "" {
		c.Scryfall.BaseURL = defaultScryfallBaseURL
	}
	c.Scryfall.UserAgent = strings.TrimSpace(c.Scryfall.UserAgent)
	if c.Scryfall.UserAgent == "" {
		c.Scryfall.UserAgent = defaultScryfallAgent
	}
	if c.Scryfall.RequestTimeout == 0 {
		c.Scryfall.RequestTimeout = defaultScryfallTimeout
	}
}

func (c *Config) normalizeGPIO() {
	c.GPIO.Driver = strings.ToLower(strings.TrimSpace(c.GPIO.Driver))
	if c.GPIO.Driver == "" {
		c.GPIO.Driver = defaultGPIODriver
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path must not be empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			trimmed = home
		} else {
			trimmed = filepath.Join(home, trimmed[2:])
		}
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}
