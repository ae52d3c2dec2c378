package ocr

import "context"

// Engine is the OCR provider contract: one encoded PNG in, recognized text
// out. Implementations must be safe for concurrent use.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, png []byte) (string, error)
}
