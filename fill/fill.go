package fill

import (
	"fmt"
	"sort"

	"github.com/tsawler/docfill/docx"
)

// Default option values.
const (
	DefaultPhotoWidth     = 1.25 // inches
	DefaultMaxPhotoPixels = 1200
)

// Values maps placeholder names to replacement text. A blank value removes
// the line that holds the placeholder.
type Values map[string]string

// Options controls a fill. The zero value is usable.
type Options struct {
	// PhotoWidth is the display width of the embedded photo in inches.
	// Zero means DefaultPhotoWidth.
	PhotoWidth float64

	// MaxPhotoPixels caps the longest side of the embedded photo; larger
	// photos are downscaled. Zero means DefaultMaxPhotoPixels, a negative
	// value disables downscaling.
	MaxPhotoPixels int

	// BodyOnly skips headers and footers.
	BodyOnly bool
}

func (o Options) withDefaults() Options {
	if o.PhotoWidth <= 0 {
		o.PhotoWidth = DefaultPhotoWidth
	}
	switch {
	case o.MaxPhotoPixels == 0:
		o.MaxPhotoPixels = DefaultMaxPhotoPixels
	case o.MaxPhotoPixels < 0:
		o.MaxPhotoPixels = 0
	}
	return o
}

// Report summarizes a completed fill.
type Report struct {
	Fields       []string  `json:"fields"`
	Replacements int       `json:"replacements"`
	ClearedLines int       `json:"cleared_lines"`
	Photos       int       `json:"photos"`
	Warnings     []Warning `json:"warnings,omitempty"`
}

func (r *Report) warn(kind WarningKind, field, msg string) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Field: field, Message: msg})
}

// Fill substitutes values and the optional photo into the package in place.
//
// The photo is decoded before the package is touched, so a bad photo leaves
// the package unchanged and returns ErrImageDecode. A template without any
// placeholder returns ErrNoPlaceholders.
func Fill(pkg *docx.Package, values Values, photo []byte, opts Options) (*Report, error) {
	opts = opts.withDefaults()

	docs, err := Documents(pkg, opts.BodyOnly)
	if err != nil {
		return nil, err
	}

	names := Extract(docs)
	if len(names) == 0 {
		return nil, ErrNoPlaceholders
	}

	report := &Report{Fields: names}
	f := &filler{
		values:     checkValues(names, values, report),
		opts:       opts,
		report:     report,
		photoLines: make(map[*docx.Document][]unit),
	}

	hasPhoto := containsPhoto(names)
	switch {
	case hasPhoto && len(photo) > 0:
		img, err := docx.LoadImage(photo, opts.MaxPhotoPixels)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
		}
		f.photo = img
	case hasPhoto:
		report.warn(PhotoMissing, PhotoField, "no photo supplied, photo line removed")
	case len(photo) > 0:
		report.warn(PhotoIgnored, "", "template has no photo field, photo ignored")
	}

	for _, d := range docs {
		f.substituteText(d)
	}
	if hasPhoto {
		for _, d := range docs {
			if err := f.substitutePhoto(d); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
			}
		}
	}
	for _, d := range docs {
		Cleanup(d)
	}

	return report, nil
}

// checkValues returns the text values that apply to the template and records
// warnings for tokens without values and values without tokens.
func checkValues(names []string, values Values, report *Report) Values {
	inTemplate := make(map[string]bool, len(names))
	for _, name := range names {
		inTemplate[name] = true
		if IsPhoto(name) {
			continue
		}
		if _, ok := values[name]; !ok {
			report.warn(UnknownField, name, "no value supplied, token left in place")
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Values, len(values))
	for _, k := range keys {
		switch {
		case IsPhoto(k):
			report.warn(PhotoValueIgnored, k, "photo field takes an image, text value ignored")
		case !inTemplate[k]:
			report.warn(UnusedValue, k, "template has no such field")
		default:
			out[k] = values[k]
		}
	}
	return out
}
