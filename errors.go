package docfill

import (
	"errors"

	"github.com/tsawler/docfill/fill"
)

// Errors returned by terminal operations. Use errors.Is to test for them;
// the underlying cause is wrapped.
var (
	// ErrNoPlaceholders means the template has no {{field}} tokens.
	ErrNoPlaceholders = fill.ErrNoPlaceholders

	// ErrImageDecode means the photo could not be decoded or embedded.
	ErrImageDecode = fill.ErrImageDecode

	// ErrUnsupportedFormat means the template is not a readable DOCX file.
	ErrUnsupportedFormat = errors.New("docfill: unsupported template format")

	// ErrSerialize means the filled document could not be written.
	ErrSerialize = errors.New("docfill: cannot write filled document")
)
