package ocr

import (
	"image"
	"math"
	"sync"

	"cardsort/internal/config"
)

// CropStore owns the process-wide crop band. Extractions take a read lock
// for their full duration, so Reconfigure blocks until no scan is using the
// old ratios and no scan starts with half-applied ones.
type CropStore struct {
	mu     sync.RWMutex
	ratios config.Crop
}

// NewCropStore seeds the store with the configured initial band.
func NewCropStore(initial config.Crop) *CropStore {
	return &CropStore{ratios: initial}
}

// Snapshot returns the current crop ratios.
func (s *CropStore) Snapshot() config.Crop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ratios
}

// Reconfigure validates and installs new crop ratios. It waits for in-flight
// extractions to finish before swapping.
func (s *CropStore) Reconfigure(ratios config.Crop) error {
	if err := ratios.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratios = ratios
	return nil
}

// WithSnapshot runs fn under the read lock with the current ratios. The
// pipeline wraps each extraction in this so reconfiguration and scanning
// stay mutually exclusive.
func (s *CropStore) WithSnapshot(fn func(config.Crop) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.ratios)
}

// CropRect maps the ratio band onto pixel bounds. The result is clamped to
// the image and always spans at least one pixel in each dimension.
func CropRect(bounds image.Rectangle, ratios config.Crop) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	rect := image.Rect(
		bounds.Min.X+int(math.Round(w*ratios.Left)),
		bounds.Min.Y+int(math.Round(h*ratios.Top)),
		bounds.Min.X+int(math.Round(w*ratios.Right)),
		bounds.Min.Y+int(math.Round(h*ratios.Bottom)),
	).Intersect(bounds)

	if rect.Dx() < 1 {
		rect.Max.X = rect.Min.X + 1
	}
	if rect.Dy() < 1 {
		rect.Max.Y = rect.Min.Y + 1
	}
	return rect.Intersect(bounds)
}
