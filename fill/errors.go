package fill

import "errors"

// Fill errors.
var (
	// ErrNoPlaceholders means the template holds no {{field}} tokens. It is
	// informational: there is nothing to fill.
	ErrNoPlaceholders = errors.New("docfill: no placeholders found in template")

	// ErrImageDecode means the photo could not be decoded or embedded. It is
	// distinct from a photo that was simply not supplied.
	ErrImageDecode = errors.New("docfill: cannot embed photo")
)
