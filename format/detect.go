// Package format provides template format detection for docfill.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format represents a document format a template upload can have.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// PDF indicates a PDF document.
	PDF
	// Image indicates a raster image used as a template (PNG, JPEG, ...).
	Image
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case ODT:
		return "ODT"
	case PDF:
		return "PDF"
	case Image:
		return "Image"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case ODT:
		return ".odt"
	case PDF:
		return ".pdf"
	case Image:
		return ".png"
	default:
		return ""
	}
}

// MIMEType returns the media type documents of this format are served with.
func (f Format) MIMEType() string {
	switch f {
	case DOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ODT:
		return "application/vnd.oasis.opendocument.text"
	case PDF:
		return "application/pdf"
	case Image:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Fillable reports whether templates of this format can be filled.
// Only DOCX is; PDF and image templates are recognised so that they can be
// rejected with a clear message.
func (f Format) Fillable() bool {
	return f == DOCX
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return DOCX
	case ".odt":
		return ODT
	case ".pdf":
		return PDF
	case ".png", ".jpg", ".jpeg", ".avif", ".webp":
		return Image
	default:
		return Unknown
	}
}

// DetectFromBytes inspects content to determine the format.
func DetectFromBytes(data []byte) Format {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is(DOCX.MIMEType()):
		return DOCX
	case mt.Is(ODT.MIMEType()):
		return ODT
	case mt.Is(PDF.MIMEType()):
		return PDF
	case strings.HasPrefix(mt.String(), "image/"):
		return Image
	case mt.Is("application/zip"):
		// mimetype only recognises OOXML archives whose first entries are
		// the usual ones; look inside for anything else.
		f, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
		if err == nil {
			return f
		}
	}
	return Unknown
}

// DetectFromReader inspects a ZIP archive to determine if it's DOCX or ODT.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	// Check for OpenDocument Format first (has mimetype file at the start)
	for _, f := range zr.File {
		if f.Name == "mimetype" {
			rc, err := f.Open()
			if err == nil {
				data := make([]byte, 256)
				n, _ := rc.Read(data)
				rc.Close()
				if strings.Contains(string(data[:n]), ODT.MIMEType()) {
					return ODT, nil
				}
			}
		}
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			return DOCX, nil
		}
	}

	return Unknown, nil
}

// Resolve determines the format of an upload. The filename extension decides
// when it is recognised; otherwise the content is sniffed.
func Resolve(filename string, data []byte) Format {
	if f := Detect(filename); f != Unknown {
		return f
	}
	return DetectFromBytes(data)
}
