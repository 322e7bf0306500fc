package docfill

import (
	"fmt"
	"io"
	"os"

	"github.com/tsawler/docfill/docx"
	"github.com/tsawler/docfill/fill"
	"github.com/tsawler/docfill/format"
)

// OutputName is the file name of every generated document.
const OutputName = "Generated_CV.docx"

// Filler provides a fluent interface for filling a DOCX template.
// Each configuration method returns a new Filler instance, making it
// safe for concurrent use and allowing method chaining.
type Filler struct {
	// Source
	name string // used for format detection
	path string // read lazily when data is nil
	data []byte

	// Configuration
	options FillOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Filler with a deep copy of options.
func (f *Filler) clone() *Filler {
	return &Filler{
		name:    f.name,
		path:    f.path,
		data:    f.data,
		options: f.options.clone(),
		err:     f.err,
	}
}

// ============================================================================
// Configuration Methods (return new Filler instance)
// ============================================================================

// Set sets the value of one field. A blank value removes the field's line
// from the document.
//
// Example:
//
//	art, err := docfill.Open("cv.docx").Set("name", "Ada").Set("fax", "").Generate()
func (f *Filler) Set(name, value string) *Filler {
	newF := f.clone()
	if newF.options.values == nil {
		newF.options.values = make(fill.Values)
	}
	newF.options.values[name] = value
	return newF
}

// Values sets several field values at once. Multiple calls are cumulative;
// later values win.
func (f *Filler) Values(values map[string]string) *Filler {
	newF := f.clone()
	if newF.options.values == nil {
		newF.options.values = make(fill.Values, len(values))
	}
	for k, v := range values {
		newF.options.values[k] = v
	}
	return newF
}

// Photo sets the image embedded in place of the {{photo}} field. The data is
// copied. An empty payload means no photo.
func (f *Filler) Photo(data []byte) *Filler {
	newF := f.clone()
	newF.options.photo = append([]byte(nil), data...)
	return newF
}

// PhotoFile reads the photo from a file. A read error is returned by the
// terminal operation.
func (f *Filler) PhotoFile(path string) *Filler {
	newF := f.clone()
	data, err := os.ReadFile(path)
	if err != nil {
		if newF.err == nil {
			newF.err = fmt.Errorf("reading photo: %w", err)
		}
		return newF
	}
	newF.options.photo = data
	return newF
}

// PhotoWidth sets the display width of the photo in inches. The height
// follows the aspect ratio.
func (f *Filler) PhotoWidth(inches float64) *Filler {
	newF := f.clone()
	newF.options.photoWidth = inches
	return newF
}

// MaxPhotoPixels caps the longest side of the embedded photo. Larger photos
// are downscaled; a negative value keeps the original size.
func (f *Filler) MaxPhotoPixels(n int) *Filler {
	newF := f.clone()
	newF.options.maxPhotoPixels = n
	return newF
}

// BodyOnly leaves headers and footers untouched.
func (f *Filler) BodyOnly() *Filler {
	newF := f.clone()
	newF.options.bodyOnly = true
	return newF
}

// ============================================================================
// Terminal Operations
// ============================================================================

// open reads and parses the template.
func (f *Filler) open() (*docx.Package, error) {
	if f.err != nil {
		return nil, f.err
	}

	data := f.data
	if data == nil {
		if f.path == "" {
			return nil, fmt.Errorf("no template specified")
		}
		var err error
		data, err = os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("reading template: %w", err)
		}
	}

	if ft := format.Resolve(f.name, data); !ft.Fillable() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ft)
	}

	pkg, err := docx.OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	return pkg, nil
}

// Placeholders returns the sorted placeholder names found in the template.
func (f *Filler) Placeholders() ([]string, error) {
	pkg, err := f.open()
	if err != nil {
		return nil, err
	}
	docs, err := fill.Documents(pkg, f.options.bodyOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	return fill.Extract(docs), nil
}

// Fields returns the form fields the template expects. A template without
// placeholders yields an empty list and no error.
//
// Example:
//
//	fields, err := docfill.Open("cv.docx").Fields()
//	for _, field := range fields {
//	    fmt.Println(field.Label)
//	}
func (f *Filler) Fields() ([]Field, error) {
	names, err := f.Placeholders()
	if err != nil {
		return nil, err
	}
	return fill.Fields(names), nil
}

// Generate fills the template and returns the resulting document. Either
// the whole template is filled or no artifact is returned.
//
// Example:
//
//	art, err := docfill.Open("cv.docx").Values(values).Photo(img).Generate()
//	if errors.Is(err, docfill.ErrImageDecode) {
//	    // the photo was unreadable
//	}
func (f *Filler) Generate() (*Artifact, error) {
	pkg, err := f.open()
	if err != nil {
		return nil, err
	}

	report, err := fill.Fill(pkg, f.options.values, f.options.photo, f.options.fillOptions())
	if err != nil {
		return nil, err
	}

	data, err := pkg.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	return &Artifact{
		Name:     OutputName,
		MIMEType: format.DOCX.MIMEType(),
		Data:     data,
		Report:   report,
	}, nil
}

// Save fills the template and writes the result to path.
func (f *Filler) Save(path string) (*Artifact, error) {
	art, err := f.Generate()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return art, nil
}

// Artifact is a filled document ready for download.
type Artifact struct {
	Name     string
	MIMEType string
	Data     []byte
	Report   *fill.Report
}

// WriteTo writes the document to w.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.Data)
	if err != nil {
		return int64(n), fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return int64(n), nil
}
