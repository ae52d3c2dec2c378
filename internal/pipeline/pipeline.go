package pipeline

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cardsort/internal/catalog"
	"cardsort/internal/config"
	"cardsort/internal/dictionary"
	"cardsort/internal/logging"
	"cardsort/internal/ocr"
	"cardsort/internal/rules"
	"cardsort/internal/scryfall"
	"cardsort/internal/services"
)

// Extractor recognizes raw text from a card photo.
type Extractor interface {
	Extract(ctx context.Context, img image.Image, ratios config.Crop) (string, error)
}

// Corrector resolves raw OCR text to a canonical card name.
type Corrector interface {
	CorrectText(raw string) (dictionary.Match, bool)
}

// Enricher fetches card metadata by exact canonical name.
type Enricher interface {
	Named(ctx context.Context, name string) (*scryfall.Card, error)
}

// Catalog is the slice of the store the pipeline needs.
type Catalog interface {
	Upsert(ctx context.Context, card catalog.Card) (*catalog.Card, error)
	ListRules(ctx context.Context) ([]catalog.Rule, error)
}

// Actuator executes one mechanical sort cycle.
type Actuator interface {
	Execute(ctx context.Context, direction catalog.Direction) error
}

// Pipeline runs a card photo through extraction, correction, enrichment,
// cataloging, routing, and actuation. One scan runs at a time; a second
// request while one is in flight fails fast with services.ErrBusy instead
// of queueing behind the conveyor.
type Pipeline struct {
	crop      *ocr.CropStore
	extractor Extractor
	corrector Corrector
	enricher  Enricher
	catalog   Catalog
	actuator  Actuator
	logger    *slog.Logger

	mu sync.Mutex
}

// New assembles the scan pipeline.
func New(crop *ocr.CropStore, extractor Extractor, corrector Corrector, enricher Enricher, cat Catalog, actuator Actuator, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		crop:      crop,
		extractor: extractor,
		corrector: corrector,
		enricher:  enricher,
		catalog:   cat,
		actuator:  actuator,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Crop exposes the crop store for reconfiguration endpoints.
func (p *Pipeline) Crop() *ocr.CropStore {
	return p.crop
}

// ProcessScan runs one card through the full pipeline. Stage failures
// before actuation degrade the scan instead of aborting it: a failed
// extraction or correction produces an unrecognized card, a failed
// enrichment a bare recognized one. The card still gets cataloged and
// sorted. Actuation errors are returned alongside the result so callers
// can distinguish a routed-but-unsorted card from a pipeline failure.
func (p *Pipeline) ProcessScan(ctx context.Context, img image.Image) (*ScanResult, error) {
	if !p.mu.TryLock() {
		return nil, services.Wrap(services.ErrBusy, "pipeline", "scan", "scan already in flight", nil)
	}
	defer p.mu.Unlock()

	start := time.Now()
	result := &ScanResult{ScanID: uuid.New().String()}
	logger := p.logger.With(logging.String("scan_id", result.ScanID))

	raw := p.extract(ctx, img, result, logger)
	card := p.resolve(ctx, raw, result, logger)
	p.persist(ctx, card, result, logger)
	p.route(ctx, result, logger)

	result.Elapsed = time.Since(start)

	sortErr := p.actuator.Execute(ctx, result.Direction)
	if sortErr != nil {
		result.recordError("sort", sortErr)
		logger.Error("sort cycle failed",
			logging.String("direction", string(result.Direction)),
			logging.Error(sortErr))
		return result, sortErr
	}

	logger.Info("scan complete",
		logging.String("outcome", string(result.Outcome)),
		logging.String("card", result.displayName()),
		logging.String("direction", string(result.Direction)),
		logging.Duration("elapsed", result.Elapsed))
	return result, nil
}

func (p *Pipeline) extract(ctx context.Context, img image.Image, result *ScanResult, logger *slog.Logger) string {
	var raw string
	err := p.crop.WithSnapshot(func(ratios config.Crop) error {
		text, extractErr := p.extractor.Extract(ctx, img, ratios)
		raw = text
		return extractErr
	})
	if err != nil {
		result.recordError("extract", err)
		logger.Warn("extraction failed, continuing unrecognized", logging.Error(err))
		return ""
	}
	result.RawText = raw
	return raw
}

// resolve corrects the raw text and enriches the matched name. The
// returned card is what gets cataloged.
func (p *Pipeline) resolve(ctx context.Context, raw string, result *ScanResult, logger *slog.Logger) catalog.Card {
	card := catalog.Card{RawOCRText: raw}
	if raw == "" {
		result.Outcome = OutcomeUnrecognized
		return card
	}

	match, ok := p.corrector.CorrectText(raw)
	if !ok {
		result.Outcome = OutcomeUnrecognized
		result.recordError("correct", services.Wrap(services.ErrNoMatch, "correct", "lookup", raw, nil))
		logger.Info("no dictionary match", logging.String("raw", raw))
		return card
	}

	result.Outcome = OutcomeRecognized
	result.Match = &match
	name := match.Name
	card.Name = &name

	meta, err := p.enricher.Named(ctx, match.Name)
	if err != nil {
		result.recordError("enrich", services.Wrap(services.ErrEnrichment, "enrich", "named", match.Name, err))
		logger.Warn("enrichment failed, cataloging bare card",
			logging.String("name", match.Name),
			logging.Error(err))
		return card
	}

	card.Price = meta.Prices.Price()
	card.ColorIdentity = meta.ColorIdentityString()
	cmc := int64(meta.CMC)
	card.CMC = &cmc
	card.TypeLine = meta.TypeLine
	card.ImageURL = meta.ImageURI()
	return card
}

func (p *Pipeline) persist(ctx context.Context, card catalog.Card, result *ScanResult, logger *slog.Logger) {
	stored, err := p.catalog.Upsert(ctx, card)
	if err != nil {
		result.recordError("catalog", err)
		logger.Error("catalog upsert failed", logging.Error(err))
		// Route on the in-memory card so the conveyor keeps moving.
		result.Card = &card
		return
	}
	result.Card = stored
}

func (p *Pipeline) route(ctx context.Context, result *ScanResult, logger *slog.Logger) {
	ruleset, err := p.catalog.ListRules(ctx)
	if err != nil {
		result.recordError("rules", err)
		logger.Warn("rule listing failed, using defaults", logging.Error(err))
	}

	direction, matched := rules.Decide(*result.Card, ruleset)
	result.Direction = direction
	result.Rule = matched
	if matched != nil {
		logger.Info("rule matched",
			logging.String("rule", matched.Name),
			logging.String("direction", string(direction)))
	}
}
