// Package docx provides reading, editing and writing of DOCX (Office Open XML)
// word-processing packages.
//
// A Package keeps every archive entry it was opened with. Entries that are
// never touched are copied into the output unchanged; XML parts that are
// edited through a Document are re-serialized from an element tree that keeps
// unknown markup, namespace prefixes and attribute order as they were.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// Package-level errors.
var (
	ErrInvalidArchive  = errors.New("docx: invalid or corrupted archive")
	ErrMissingPart     = errors.New("docx: missing required part")
	ErrPartNotFound    = errors.New("docx: part not found")
	ErrInvalidDocument = errors.New("docx: invalid document part")
)

// MainDocumentPart is the conventional name of the main document part.
const MainDocumentPart = "word/document.xml"

var headerFooterPart = regexp.MustCompile(`^word/(header|footer)[0-9]*\.xml$`)

// entry is a single archive member.
type entry struct {
	name string
	file *zip.File // original member, nil for added entries
	data []byte    // replacement content, nil when unchanged
}

// Package is an in-memory DOCX archive.
type Package struct {
	entries []*entry
	index   map[string]*entry
	parts   map[string]*etree.Document // parsed XML parts, keyed by name
	docs    map[string]*Document

	drawingID int // last wp:docPr id handed out, 0 until first use
	mediaSeq  int
}

// Open opens a DOCX file from a path. The file is read into memory, so the
// returned Package does not hold the file open.
func Open(filename string) (*Package, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return OpenBytes(data)
}

// OpenBytes opens a DOCX package held in memory.
func OpenBytes(data []byte) (*Package, error) {
	return OpenReader(bytes.NewReader(data), int64(len(data)))
}

// OpenReader opens a DOCX package from an io.ReaderAt. The reader must stay
// valid until the Package has been written.
func OpenReader(ra io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	p := &Package{
		index: make(map[string]*entry, len(zr.File)),
		parts: make(map[string]*etree.Document),
		docs:  make(map[string]*Document),
	}
	for _, f := range zr.File {
		if _, dup := p.index[f.Name]; dup {
			continue
		}
		e := &entry{name: f.Name, file: f}
		p.entries = append(p.entries, e)
		p.index[f.Name] = e
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// validate checks that required DOCX parts exist.
func (p *Package) validate() error {
	required := []string{
		"[Content_Types].xml",
		MainDocumentPart,
	}
	for _, name := range required {
		if !p.Has(name) {
			return fmt.Errorf("%w: %s", ErrMissingPart, name)
		}
	}
	return nil
}

// Has reports whether the package contains an entry with the given name.
func (p *Package) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Names returns the entry names in archive order.
func (p *Package) Names() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.name
	}
	return names
}

// ReadFile returns the current content of an entry. Parsed XML parts are
// serialized from their element tree.
func (p *Package) ReadFile(name string) ([]byte, error) {
	if doc, ok := p.parts[name]; ok {
		return doc.WriteToBytes()
	}
	e, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	return e.content()
}

// WriteFile replaces the content of an entry, adding it when missing.
func (p *Package) WriteFile(name string, data []byte) {
	delete(p.parts, name)
	delete(p.docs, name)
	if e, ok := p.index[name]; ok {
		e.data = data
		return
	}
	e := &entry{name: name, data: data}
	p.entries = append(p.entries, e)
	p.index[name] = e
}

// content reads the entry's current bytes.
func (e *entry) content() ([]byte, error) {
	if e.data != nil {
		return e.data, nil
	}
	if e.file == nil {
		return nil, nil
	}
	rc, err := e.file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// xmlPart returns the parsed element tree of an XML part. The tree is cached;
// edits to it are written out by Write.
func (p *Package) xmlPart(name string) (*etree.Document, error) {
	if doc, ok := p.parts[name]; ok {
		return doc, nil
	}
	e, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	data, err := e.content()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parsing %s: no root element", name)
	}
	p.parts[name] = doc
	return doc, nil
}

// Document returns the word-processing document held in the named part.
// Repeated calls return the same Document.
func (p *Package) Document(name string) (*Document, error) {
	if d, ok := p.docs[name]; ok {
		return d, nil
	}
	tree, err := p.xmlPart(name)
	if err != nil {
		return nil, err
	}
	d, err := newDocument(p, name, tree)
	if err != nil {
		return nil, err
	}
	p.docs[name] = d
	return d, nil
}

// MainDocument returns the document body part (word/document.xml).
func (p *Package) MainDocument() (*Document, error) {
	return p.Document(MainDocumentPart)
}

// HeaderFooterDocuments returns every header and footer part, sorted by name.
func (p *Package) HeaderFooterDocuments() ([]*Document, error) {
	var names []string
	for _, e := range p.entries {
		if headerFooterPart.MatchString(e.name) {
			names = append(names, e.name)
		}
	}
	sort.Strings(names)

	docs := make([]*Document, 0, len(names))
	for _, name := range names {
		d, err := p.Document(name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// Write serializes the package as a ZIP archive. Entries that were neither
// replaced nor parsed are copied without recompression.
func (p *Package) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, e := range p.entries {
		if tree, ok := p.parts[e.name]; ok {
			data, err := tree.WriteToBytes()
			if err != nil {
				return fmt.Errorf("serializing %s: %w", e.name, err)
			}
			if err := writeEntry(zw, e.name, data); err != nil {
				return err
			}
			continue
		}
		if e.data != nil || e.file == nil {
			if err := writeEntry(zw, e.name, e.data); err != nil {
				return err
			}
			continue
		}
		if err := zw.Copy(e.file); err != nil {
			return fmt.Errorf("copying %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

// Bytes serializes the package into a new buffer.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// relsPartName returns the relationships part that belongs to a part,
// e.g. word/_rels/document.xml.rels for word/document.xml.
func relsPartName(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

// nextDrawingID returns a drawing object id that is unique across the main
// document, every header and footer, and any other part opened so far.
func (p *Package) nextDrawingID() int {
	if p.drawingID == 0 {
		for _, e := range p.entries {
			if e.name != MainDocumentPart && !headerFooterPart.MatchString(e.name) {
				continue
			}
			if root := p.peekXML(e.name); root != nil {
				p.drawingID = max(p.drawingID, maxDrawingID(root))
			}
		}
		for _, d := range p.docs {
			p.drawingID = max(p.drawingID, maxDrawingID(d.root))
		}
	}
	p.drawingID++
	return p.drawingID
}

// peekXML returns the root element of an XML part without caching a freshly
// parsed tree, so parts that are only inspected are still copied verbatim by
// Write. It returns nil when the part cannot be read.
func (p *Package) peekXML(name string) *etree.Element {
	if doc, ok := p.parts[name]; ok {
		return doc.Root()
	}
	e, ok := p.index[name]
	if !ok {
		return nil
	}
	data, err := e.content()
	if err != nil {
		return nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil
	}
	return doc.Root()
}

// uniqueMediaName returns an unused word/media entry name for the extension.
func (p *Package) uniqueMediaName(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	for {
		p.mediaSeq++
		name := fmt.Sprintf("word/media/docfill_image%d.%s", p.mediaSeq, ext)
		if !p.Has(name) {
			return name
		}
	}
}
