package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classify failures raised by pipeline stages. Callers use
// errors.Is against these markers to pick a recovery path; everything except
// ErrHardware is recoverable and downgrades the scan outcome instead of
// aborting it.
var (
	ErrExtraction      = errors.New("extraction failure")
	ErrNoMatch         = errors.New("no dictionary match")
	ErrEnrichment      = errors.New("enrichment failure")
	ErrCatalogConflict = errors.New("catalog conflict")
	ErrSensorTimeout   = errors.New("sensor timeout")
	ErrHardware        = errors.New("hardware fault")
	ErrBusy            = errors.New("sorter busy")
	ErrValidation      = errors.New("validation error")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether the error must halt further scans. Only hardware
// faults (inability to return the mechanism to rest) qualify.
func Fatal(err error) bool {
	return errors.Is(err, ErrHardware)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
