package main

import (
	"fmt"
	"log/slog"
	"time"

	"cardsort/internal/catalog"
	"cardsort/internal/config"
	"cardsort/internal/daemon"
	"cardsort/internal/dictionary"
	"cardsort/internal/gpio"
	"cardsort/internal/ocr"
	"cardsort/internal/pipeline"
	"cardsort/internal/scryfall"
	"cardsort/internal/sorter"
)

// buildDaemon wires every pipeline component from configuration.
func buildDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	corrector, err := dictionary.NewCorrector(cfg.Dictionary.Path, cfg.Dictionary.MaxEditDistance, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build corrector: %w", err)
	}

	controller, err := buildController(cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	actuator := sorter.New(controller, cfg.Sorter, logger)

	client, err := scryfall.New(
		cfg.Scryfall.BaseURL,
		cfg.Scryfall.UserAgent,
		time.Duration(cfg.Scryfall.RequestTimeout)*time.Second,
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build scryfall client: %w", err)
	}

	crop := ocr.NewCropStore(cfg.OCR.Crop)
	extractor := ocr.NewExtractor(ocr.NewTesseractEngine(cfg.OCR), logger)
	pl := pipeline.New(crop, extractor, corrector, client, store, actuator, logger)

	d, err := daemon.New(cfg, store, pl, corrector, actuator, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return d, nil
}

func buildController(cfg *config.Config, logger *slog.Logger) (gpio.Controller, error) {
	switch cfg.GPIO.Driver {
	case "hardware":
		return gpio.NewHardwareController(cfg.GPIO, logger)
	case "simulated":
		logger.Warn("using simulated gpio driver; no hardware will move")
		return gpio.NewSimulator(), nil
	default:
		return nil, fmt.Errorf("unknown gpio driver %q", cfg.GPIO.Driver)
	}
}
