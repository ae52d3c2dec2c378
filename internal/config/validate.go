package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateDictionary(); err != nil {
		return err
	}
	if err := c.validateGPIO(); err != nil {
		return err
	}
	if err := c.validateSorter(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOCR() error {
	if err := c.OCR.Crop.Validate(); err != nil {
		return fmt.Errorf("ocr.crop: %w", err)
	}
	if c.OCR.DPI < 0 {
		return errors.New("ocr.dpi must not be negative")
	}
	return nil
}

// Validate checks that the crop ratios describe a non-empty band inside the
// unit square.
func (cr Crop) Validate() error {
	for name, v := range map[string]float64{
		"left":   cr.Left,
		"top":    cr.Top,
		"right":  cr.Right,
		"bottom": cr.Bottom,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s ratio %v outside [0, 1]", name, v)
		}
	}
	if cr.Left >= cr.Right {
		return fmt.Errorf("left ratio %v must be less than right ratio %v", cr.Left, cr.Right)
	}
	if cr.Top >= cr.Bottom {
		return fmt.Errorf("top ratio %v must be less than bottom ratio %v", cr.Top, cr.Bottom)
	}
	return nil
}

func (c *Config) validateDictionary() error {
	if c.Dictionary.MaxEditDistance < 1 || c.Dictionary.MaxEditDistance > 3 {
		return errors.New("dictionary.max_edit_distance must be between 1 and 3")
	}
	return nil
}

func (c *Config) validateGPIO() error {
	switch c.GPIO.Driver {
	case "hardware", "simulated":
	default:
		return fmt.Errorf("gpio.driver must be %q or %q, got %q", "hardware", "simulated", c.GPIO.Driver)
	}

	pins := map[string]int{
		"gpio.motor_pin":       c.GPIO.MotorPin,
		"gpio.sensor_pin":      c.GPIO.SensorPin,
		"gpio.flap_left_a_pin": c.GPIO.FlapLeftA,
		"gpio.flap_left_b_pin": c.GPIO.FlapLeftB,
		"gpio.main_sort_pin":   c.GPIO.MainSortPin,
	}
	seen := make(map[int]string, len(pins))
	for name, pin := range pins {
		if pin <= 0 {
			return fmt.Errorf("%s must be a positive BCM pin number", name)
		}
		if other, dup := seen[pin]; dup {
			return fmt.Errorf("%s and %s both use pin %d", name, other, pin)
		}
		seen[pin] = name
	}
	return nil
}

func (c *Config) validateSorter() error {
	return ensurePositiveMap(map[string]int{
		"sorter.sensor_timeout":    c.Sorter.SensorTimeout,
		"sorter.sensor_poll_ms":    c.Sorter.SensorPollMS,
		"sorter.flap_pulse_ms":     c.Sorter.FlapPulseMS,
		"sorter.main_flap_lead_ms": c.Sorter.MainFlapLeadMS,
		"sorter.motor_settle_ms":   c.Sorter.MotorSettleMS,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
