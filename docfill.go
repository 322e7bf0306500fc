// Package docfill provides a fluent API for filling {{field}} placeholders in
// DOCX templates such as CVs.
//
// Basic usage:
//
//	art, err := docfill.Open("template.docx").
//	    Set("name", "Ada Lovelace").
//	    Set("phone", ""). // blank: the phone line is removed
//	    Generate()
//	if err != nil {
//	    // handle error
//	}
//	if len(art.Report.Warnings) > 0 {
//	    log.Println("Warnings:", docfill.FormatWarnings(art.Report.Warnings))
//	}
//
// Listing the fields a template expects:
//
//	fields, err := docfill.Open("template.docx").Fields()
//
// For lower-level access to the package and document model, see the docx and
// fill packages.
package docfill

import (
	"github.com/tsawler/docfill/fill"
)

// Warning is a non-fatal issue reported by a fill.
type Warning = fill.Warning

// Field is a placeholder presented for user input.
type Field = fill.Field

// FormatWarnings joins warnings into a single line for logging.
func FormatWarnings(warnings []Warning) string {
	return fill.FormatWarnings(warnings)
}

// Open returns a Filler for the template at filename. The file is read by
// the terminal operation.
//
// Example:
//
//	art, err := docfill.Open("template.docx").Set("name", "Ada").Generate()
func Open(filename string) *Filler {
	return &Filler{
		name:    filename,
		path:    filename,
		options: defaultOptions(),
	}
}

// FromBytes returns a Filler for template data held in memory. name is used
// for format detection and may be empty.
func FromBytes(name string, data []byte) *Filler {
	return &Filler{
		name:    name,
		data:    data,
		options: defaultOptions(),
	}
}

// FromSource returns a Filler for an uploaded template.
//
// Example:
//
//	src := docfill.NewSource(header.Filename, body)
//	fields, err := docfill.FromSource(src).Fields()
func FromSource(src Source) *Filler {
	return FromBytes(src.Name(), src.Bytes())
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	fields := docfill.Must(docfill.Open("template.docx").Fields())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
