package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

// zipWith builds a ZIP archive holding empty entries with the given names.
func zipWith(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		w.Write([]byte("<x/>"))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, "DOCX"},
		{ODT, "ODT"},
		{PDF, "PDF"},
		{Image, "Image"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, ".docx"},
		{ODT, ".odt"},
		{PDF, ".pdf"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_MIMEType(t *testing.T) {
	want := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	if got := DOCX.MIMEType(); got != want {
		t.Errorf("DOCX.MIMEType() = %q, want %q", got, want)
	}
	if got := Unknown.MIMEType(); got != "application/octet-stream" {
		t.Errorf("Unknown.MIMEType() = %q", got)
	}
}

func TestFormat_Fillable(t *testing.T) {
	for _, f := range []Format{Unknown, ODT, PDF, Image} {
		if f.Fillable() {
			t.Errorf("%v.Fillable() = true, want false", f)
		}
	}
	if !DOCX.Fillable() {
		t.Error("DOCX.Fillable() = false, want true")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"cv.docx", DOCX},
		{"cv.DOCX", DOCX},
		{"cv.Docx", DOCX},
		{"cv.odt", ODT},
		{"cv.pdf", PDF},
		{"cv.PDF", PDF},
		{"cv.png", Image},
		{"cv.jpg", Image},
		{"cv.jpeg", Image},
		{"cv.avif", Image},
		{"cv.doc", Unknown},
		{"cv.txt", Unknown},
		{"cv", Unknown},
		{"", Unknown},
		{"/path/to/file.docx", DOCX},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{
			name: "docx archive",
			data: zipWith(t, "[Content_Types].xml", "_rels/.rels", "word/document.xml"),
			want: DOCX,
		},
		{
			name: "pdf",
			data: []byte("%PDF-1.4\n%%EOF"),
			want: PDF,
		},
		{
			name: "png",
			data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"),
			want: Image,
		},
		{
			name: "plain zip",
			data: zipWith(t, "notes.txt"),
			want: Unknown,
		},
		{
			name: "text",
			data: []byte("Hello, World!"),
			want: Unknown,
		},
		{
			name: "empty",
			data: nil,
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromBytes(tt.data); got != tt.want {
				t.Errorf("DetectFromBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  Format
	}{
		{"docx", []string{"[Content_Types].xml", "word/document.xml"}, DOCX},
		{"odt", []string{"mimetype", "content.xml"}, ODT},
		{"xlsx", []string{"[Content_Types].xml", "xl/workbook.xml"}, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data []byte
			if tt.want == ODT {
				var buf bytes.Buffer
				zw := zip.NewWriter(&buf)
				w, _ := zw.Create("mimetype")
				w.Write([]byte("application/vnd.oasis.opendocument.text"))
				zw.Close()
				data = buf.Bytes()
			} else {
				data = zipWith(t, tt.names...)
			}

			got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_NotZip(t *testing.T) {
	data := []byte("Hello, World! This is plain text.")
	got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		t.Error("DetectFromReader() should return error for non-ZIP data")
	}
	if got != Unknown {
		t.Errorf("DetectFromReader() = %v, want Unknown", got)
	}
}

func TestResolve(t *testing.T) {
	docx := zipWith(t, "[Content_Types].xml", "word/document.xml")

	if got := Resolve("cv.pdf", docx); got != PDF {
		t.Errorf("Resolve() with .pdf extension = %v, want PDF", got)
	}
	if got := Resolve("upload", docx); got != DOCX {
		t.Errorf("Resolve() without extension = %v, want DOCX", got)
	}
	if got := Resolve("notes.txt", []byte("text")); got != Unknown {
		t.Errorf("Resolve() = %v, want Unknown", got)
	}
}
