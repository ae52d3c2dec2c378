package ocr

import (
	"context"
	"fmt"
	"strconv"

	"github.com/otiai10/gosseract/v2"

	"cardsort/internal/config"
)

// TesseractEngine recognizes text using the gosseract client. A fresh client
// is created per call, which keeps the engine safe for concurrent use at the
// cost of per-call setup.
type TesseractEngine struct {
	language      string
	dpi           int
	pageSegMode   string
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine from the OCR
// configuration section.
func NewTesseractEngine(cfg config.OCR) *TesseractEngine {
	return &TesseractEngine{
		language:      cfg.Language,
		dpi:           cfg.DPI,
		pageSegMode:   cfg.PageSegMode,
		clientFactory: gosseract.NewClient,
	}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize runs Tesseract over the encoded image and returns its raw text.
func (e *TesseractEngine) Recognize(ctx context.Context, png []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if e.language != "" {
		if err := c.SetLanguage(e.language); err != nil {
			return "", fmt.Errorf("set language: %w", err)
		}
	}
	if e.dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(e.dpi)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}
	if e.pageSegMode != "" {
		mode, err := strconv.Atoi(e.pageSegMode)
		if err != nil {
			return "", fmt.Errorf("parse page_seg_mode %q: %w", e.pageSegMode, err)
		}
		if err := c.SetPageSegMode(gosseract.PageSegMode(mode)); err != nil {
			return "", fmt.Errorf("set page seg mode: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
