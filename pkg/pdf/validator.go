package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

type Kind int

const (
	KindNotFound Kind = iota
	KindInvalidFormat
	KindEmpty
	KindOversized
	KindCorrupted
	KindEncrypted
	KindNoPages
)

// Error is a validation failure with a caller-facing reason. The message is
// part of the contract: downstream UIs differentiate on it.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

const DefaultMaxSize = 100 * 1024 * 1024

type Validator struct {
	MaxSize int64
}

func NewValidator() *Validator {
	return &Validator{
		MaxSize: DefaultMaxSize,
	}
}

// Validate runs the pre-flight checks in order, stopping at the first failure.
func (v *Validator) Validate(path string) error {
	info, err := os.Stat(path)

	if err != nil {
		return &Error{KindNotFound, "File does not exist"}
	}

	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return &Error{KindInvalidFormat, "File is not a PDF"}
	}

	if info.Size() == 0 {
		return &Error{KindEmpty, "PDF file is empty"}
	}

	maxSize := v.MaxSize

	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	if info.Size() > maxSize {
		return &Error{KindOversized, fmt.Sprintf("PDF file is too large (>%dMB)", maxSize/(1024*1024))}
	}

	ctx, err := api.ReadContextFile(path)

	if err != nil {
		if isEncryptionError(err) {
			return &Error{KindEncrypted, "PDF is encrypted"}
		}

		return &Error{KindCorrupted, "PDF is corrupted or unreadable"}
	}

	if ctx.Encrypt != nil {
		return &Error{KindEncrypted, "PDF is encrypted"}
	}

	if ctx.PageCount == 0 {
		return &Error{KindNoPages, "PDF has no pages"}
	}

	return nil
}

// PageCount reports the page count without running the full validation chain.
func PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}

func isEncryptionError(err error) bool {
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "password") || strings.Contains(text, "encrypt")
}
