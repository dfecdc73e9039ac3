package converter

import (
	"context"
	"errors"
)

// Provider converts a document on disk into markdown plus extracted media.
// Implementations wrap an external conversion engine and are the only place
// that depends on its actual result shape.
type Provider interface {
	Convert(ctx context.Context, path string) (*Document, error)
}

var (
	ErrUnsupported = errors.New("unsupported type")
)

type Document struct {
	Markdown string

	PageCount int

	Pictures []Picture
}

type Picture struct {
	// Page is the 1-based source page, 0 when the engine does not report it
	Page int

	// Anchor is the markdown line the picture belongs before, -1 when unknown
	Anchor int

	Data   []byte
	Format string
}
