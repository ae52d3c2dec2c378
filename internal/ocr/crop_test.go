package ocr

import (
	"image"
	"testing"

	"cardsort/internal/config"
)

func TestCropRect(t *testing.T) {
	bounds := image.Rect(0, 0, 1000, 1400)
	ratios := config.Crop{Left: 0.32, Top: 0.23, Right: 0.6, Bottom: 0.255}
	rect := CropRect(bounds, ratios)
	want := image.Rect(320, 322, 600, 357)
	if rect != want {
		t.Fatalf("CropRect = %v, want %v", rect, want)
	}
}

func TestCropRectClampsToBounds(t *testing.T) {
	bounds := image.Rect(0, 0, 10, 10)
	rect := CropRect(bounds, config.Crop{Left: 0, Top: 0, Right: 1, Bottom: 1})
	if rect != bounds {
		t.Fatalf("full-frame crop should equal bounds, got %v", rect)
	}
}

func TestCropRectNeverEmptyForValidRatios(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	rect := CropRect(bounds, config.Crop{Left: 0.5, Top: 0.5, Right: 0.504, Bottom: 0.504})
	if rect.Dx() < 1 || rect.Dy() < 1 {
		t.Fatalf("expected at least 1px in each dimension, got %v", rect)
	}
}

func TestCropStoreReconfigure(t *testing.T) {
	store := NewCropStore(config.Crop{Left: 0.1, Top: 0.1, Right: 0.9, Bottom: 0.9})

	next := config.Crop{Left: 0.2, Top: 0.3, Right: 0.8, Bottom: 0.4}
	if err := store.Reconfigure(next); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if got := store.Snapshot(); got != next {
		t.Fatalf("Snapshot = %+v, want %+v", got, next)
	}
}

func TestCropStoreRejectsInvalid(t *testing.T) {
	store := NewCropStore(config.Crop{Left: 0.1, Top: 0.1, Right: 0.9, Bottom: 0.9})
	if err := store.Reconfigure(config.Crop{Left: 0.9, Top: 0.1, Right: 0.1, Bottom: 0.9}); err == nil {
		t.Fatal("expected validation error")
	}
	if got := store.Snapshot(); got.Left != 0.1 {
		t.Fatalf("invalid reconfigure must not change ratios, got %+v", got)
	}
}

func TestCropStoreWithSnapshotSeesLatest(t *testing.T) {
	store := NewCropStore(config.Crop{Left: 0.1, Top: 0.1, Right: 0.9, Bottom: 0.9})
	next := config.Crop{Left: 0.25, Top: 0.25, Right: 0.75, Bottom: 0.5}
	if err := store.Reconfigure(next); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}

	var seen config.Crop
	err := store.WithSnapshot(func(r config.Crop) error {
		seen = r
		return nil
	})
	if err != nil {
		t.Fatalf("WithSnapshot: %v", err)
	}
	if seen != next {
		t.Fatalf("extraction must use the new ratios, got %+v", seen)
	}
}
