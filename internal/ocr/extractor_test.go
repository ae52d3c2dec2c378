package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"cardsort/internal/config"
	"cardsort/internal/logging"
	"cardsort/internal/services"
)

type fakeEngine struct {
	text string
	err  error

	lastBounds image.Rectangle
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, data []byte) (string, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	f.lastBounds = img.Bounds()
	return f.text, f.err
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestExtractReturnsTrimmedText(t *testing.T) {
	engine := &fakeEngine{text: "  Lightning Bolt \n"}
	e := NewExtractor(engine, logging.NewNop())

	ratios := config.Crop{Left: 0.1, Top: 0.1, Right: 0.5, Bottom: 0.2}
	got, err := e.Extract(context.Background(), testImage(200, 300), ratios)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "Lightning Bolt" {
		t.Fatalf("Extract = %q", got)
	}
}

func TestExtractUsesCropBand(t *testing.T) {
	engine := &fakeEngine{text: "x"}
	e := NewExtractor(engine, logging.NewNop())

	ratios := config.Crop{Left: 0.25, Top: 0.5, Right: 0.75, Bottom: 0.75}
	if _, err := e.Extract(context.Background(), testImage(400, 400), ratios); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// Band is 200x100, upscaled 3x before recognition.
	want := image.Rect(0, 0, 600, 300)
	if engine.lastBounds != want {
		t.Fatalf("engine saw %v, want %v", engine.lastBounds, want)
	}
}

func TestExtractEmptyTextIsExtractionFailure(t *testing.T) {
	engine := &fakeEngine{text: "   "}
	e := NewExtractor(engine, logging.NewNop())

	_, err := e.Extract(context.Background(), testImage(100, 100), config.Crop{Left: 0, Top: 0, Right: 1, Bottom: 1})
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractEngineErrorIsExtractionFailure(t *testing.T) {
	engine := &fakeEngine{err: errors.New("tesseract exploded")}
	e := NewExtractor(engine, logging.NewNop())

	_, err := e.Extract(context.Background(), testImage(100, 100), config.Crop{Left: 0, Top: 0, Right: 1, Bottom: 1})
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractNilImage(t *testing.T) {
	e := NewExtractor(&fakeEngine{text: "x"}, logging.NewNop())
	if _, err := e.Extract(context.Background(), nil, config.Crop{}); !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected ErrExtraction for nil image, got %v", err)
	}
}
