package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	xdraw "golang.org/x/image/draw"

	"cardsort/internal/config"
	"cardsort/internal/logging"
	"cardsort/internal/services"
)

// upscaleFactor enlarges the cropped name band before recognition. The band
// is a narrow strip; Tesseract's accuracy drops sharply below ~20px glyph
// height.
const upscaleFactor = 3

// Extractor turns a card photo into raw name text.
type Extractor struct {
	engine Engine
	logger *slog.Logger
}

// NewExtractor wires an OCR engine into the extraction stage.
func NewExtractor(engine Engine, logger *slog.Logger) *Extractor {
	return &Extractor{
		engine: engine,
		logger: logging.NewComponentLogger(logger, "extract"),
	}
}

// Extract crops the name band from the image and recognizes its text.
// Failures are recoverable: callers continue the scan with empty raw text.
func (e *Extractor) Extract(ctx context.Context, img image.Image, ratios config.Crop) (string, error) {
	if img == nil {
		return "", services.Wrap(services.ErrExtraction, "extract", "crop", "nil image", nil)
	}

	rect := CropRect(img.Bounds(), ratios)
	prepared, err := encodeBand(img, rect)
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, "extract", "prepare", "", err)
	}

	text, err := e.engine.Recognize(ctx, prepared)
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, "extract", e.engine.Name(), "", err)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", services.Wrap(services.ErrExtraction, "extract", e.engine.Name(), "empty recognition result", nil)
	}

	e.logger.Debug("name band recognized",
		logging.String("engine", e.engine.Name()),
		logging.Int("band_width", rect.Dx()),
		logging.Int("band_height", rect.Dy()),
	)
	return trimmed, nil
}

// encodeBand grayscales and upscales the crop rectangle, then encodes it as
// PNG for the engine.
func encodeBand(img image.Image, rect image.Rectangle) ([]byte, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("empty crop rectangle %v", rect)
	}
	dst := image.NewGray(image.Rect(0, 0, rect.Dx()*upscaleFactor, rect.Dy()*upscaleFactor))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, rect, xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode band: %w", err)
	}
	return buf.Bytes(), nil
}
