package pipeline

import (
	"fmt"
	"time"

	"cardsort/internal/catalog"
	"cardsort/internal/dictionary"
)

// Outcome classifies a finished scan.
type Outcome string

const (
	OutcomeRecognized   Outcome = "recognized"
	OutcomeUnrecognized Outcome = "unrecognized"
)

// ScanResult is the full record of one scan: what was read, what it
// resolved to, where the card went, and which stages degraded along the
// way.
type ScanResult struct {
	ScanID    string
	Outcome   Outcome
	RawText   string
	Match     *dictionary.Match
	Card      *catalog.Card
	Direction catalog.Direction
	Rule      *catalog.Rule
	Errors    []string
	Elapsed   time.Duration
}

func (r *ScanResult) recordError(stage string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", stage, err))
}

func (r *ScanResult) displayName() string {
	if r.Card == nil {
		return "(unrecognized)"
	}
	return r.Card.DisplayName()
}
