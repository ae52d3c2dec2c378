// Package ocr extracts the raw name text from a card photo.
//
// The extractor crops the configured name band out of the image, upscales
// and grayscales it, and hands the result to an Engine. The default engine
// is Tesseract via gosseract; tests substitute a fake. The crop band itself
// is owned by CropStore, which guards reconfiguration against in-flight
// extractions.
package ocr
