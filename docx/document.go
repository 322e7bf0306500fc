package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// XML namespaces used in DOCX files
const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsWStrict = "http://purl.oclc.org/ooxml/wordprocessingml/main"
	nsR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP      = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic     = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT      = "http://schemas.openxmlformats.org/package/2006/content-types"

	relTypeImage = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// isW reports whether el is the WordprocessingML element with the given
// local name.
func isW(el *etree.Element, local string) bool {
	if el.Tag != local {
		return false
	}
	if el.Space == "w" {
		return true
	}
	ns := el.NamespaceURI()
	return ns == nsW || ns == nsWStrict
}

// Document is an editable word-processing part: the main document, a header
// or a footer.
type Document struct {
	pkg       *Package
	name      string
	tree      *etree.Document
	root      *etree.Element
	container *etree.Element // w:body, or the root of a header/footer
}

func newDocument(p *Package, name string, tree *etree.Document) (*Document, error) {
	root := tree.Root()
	d := &Document{pkg: p, name: name, tree: tree, root: root}

	switch {
	case isW(root, "document"):
		for _, c := range root.ChildElements() {
			if isW(c, "body") {
				d.container = c
				break
			}
		}
		if d.container == nil {
			return nil, fmt.Errorf("%w: %s has no body", ErrInvalidDocument, name)
		}
	case isW(root, "hdr"), isW(root, "ftr"):
		d.container = root
	default:
		return nil, fmt.Errorf("%w: %s has unexpected root <%s>", ErrInvalidDocument, name, root.FullTag())
	}
	return d, nil
}

// Name returns the part name, e.g. "word/document.xml".
func (d *Document) Name() string {
	return d.name
}

// BlockKind identifies the type of a Block.
type BlockKind int

const (
	// ParagraphBlock is a body-level paragraph.
	ParagraphBlock BlockKind = iota
	// TableBlock is a body-level table.
	TableBlock
)

// Block is an element of the document body (paragraph or table).
type Block struct {
	Kind      BlockKind
	Paragraph *Paragraph
	Table     *Table
}

// Blocks returns the top-level paragraphs and tables in document order.
// Content controls (w:sdt) are transparent: their paragraphs and tables are
// returned in place.
func (d *Document) Blocks() []Block {
	return collectBlocks(d.container)
}

func collectBlocks(parent *etree.Element) []Block {
	var blocks []Block
	for _, c := range parent.ChildElements() {
		switch {
		case isW(c, "p"):
			blocks = append(blocks, Block{Kind: ParagraphBlock, Paragraph: &Paragraph{el: c}})
		case isW(c, "tbl"):
			blocks = append(blocks, Block{Kind: TableBlock, Table: &Table{el: c}})
		case isW(c, "sdt"):
			for _, sc := range c.ChildElements() {
				if isW(sc, "sdtContent") {
					blocks = append(blocks, collectBlocks(sc)...)
				}
			}
		}
	}
	return blocks
}

// Paragraphs returns every paragraph in the part in document order, including
// paragraphs inside tables, content controls and text boxes.
func (d *Document) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	walk(d.root, func(el *etree.Element) bool {
		if isW(el, "p") {
			paras = append(paras, &Paragraph{el: el})
		}
		return true
	})
	return paras
}

// Cells returns every table cell in the part in document order, including
// cells of nested tables.
func (d *Document) Cells() []*Cell {
	var cells []*Cell
	walk(d.root, func(el *etree.Element) bool {
		if isW(el, "tc") {
			cells = append(cells, &Cell{el: el})
		}
		return true
	})
	return cells
}

// Text returns the plain text of the body: one line per paragraph, tables
// rendered with tab-separated cells.
func (d *Document) Text() string {
	var lines []string
	for _, b := range d.Blocks() {
		switch b.Kind {
		case ParagraphBlock:
			lines = append(lines, b.Paragraph.Text())
		case TableBlock:
			lines = append(lines, b.Table.ToText())
		}
	}
	return strings.Join(lines, "\n")
}

// maxDrawingID returns the largest wp:docPr id used under root.
func maxDrawingID(root *etree.Element) int {
	highest := 0
	walk(root, func(el *etree.Element) bool {
		if el.Tag == "docPr" {
			if id, err := strconv.Atoi(el.SelectAttrValue("id", "")); err == nil && id > highest {
				highest = id
			}
		}
		return true
	})
	return highest
}

// walk visits el and its descendants depth-first in document order. Returning
// false from fn skips the element's children.
func walk(el *etree.Element, fn func(*etree.Element) bool) {
	if !fn(el) {
		return
	}
	for _, c := range el.ChildElements() {
		walk(c, fn)
	}
}

// Paragraph is a w:p element.
type Paragraph struct {
	el *etree.Element
}

// runContent lists run children that carry visible text and are removed when
// a paragraph is cleared.
var runContent = map[string]bool{
	"t":             true,
	"tab":           true,
	"cr":            true,
	"sym":           true,
	"noBreakHyphen": true,
	"softHyphen":    true,
	"ptab":          true,
}

// ownElements visits the descendants of the paragraph that belong to it,
// skipping paragraphs nested inside it (text boxes).
func (p *Paragraph) ownElements(fn func(*etree.Element)) {
	var visit func(*etree.Element)
	visit = func(el *etree.Element) {
		for _, c := range el.ChildElements() {
			if isW(c, "p") {
				continue
			}
			fn(c)
			visit(c)
		}
	}
	visit(p.el)
}

// textNodes returns the w:t elements of the paragraph in document order.
func (p *Paragraph) textNodes() []*etree.Element {
	var nodes []*etree.Element
	p.ownElements(func(el *etree.Element) {
		if isW(el, "t") {
			nodes = append(nodes, el)
		}
	})
	return nodes
}

// Text returns the concatenated text of the paragraph's runs. Tabs and breaks
// are not included, so tokens are matched across run boundaries only.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, t := range p.textNodes() {
		sb.WriteString(t.Text())
	}
	return sb.String()
}

// InCell reports whether the paragraph is a direct child of a table cell.
func (p *Paragraph) InCell() bool {
	parent := p.el.Parent()
	return parent != nil && isW(parent, "tc")
}

// Replace replaces every occurrence of old in the paragraph text with repl
// and returns the number of replacements. An occurrence that spans several
// runs is written into the run where it starts; the text of the other runs
// outside the occurrence is kept, as is all run formatting.
func (p *Paragraph) Replace(old, repl string) int {
	return p.ReplaceAll(map[string]string{old: repl})
}

// ReplaceAll replaces every occurrence of each key of pairs with its value in
// one left-to-right pass over the paragraph text, like Replace. Inserted text
// is never searched again, so a value may itself contain a key.
func (p *Paragraph) ReplaceAll(pairs map[string]string) int {
	count := 0
	from := 0
	for {
		nodes := p.textNodes()
		starts := make([]int, len(nodes))
		var sb strings.Builder
		for i, t := range nodes {
			starts[i] = sb.Len()
			sb.WriteString(t.Text())
		}
		full := sb.String()
		if from > len(full) {
			break
		}
		start, old := nextMatch(full, from, pairs)
		if start < 0 {
			break
		}
		repl := pairs[old]
		splice(nodes, starts, start, start+len(old), repl)
		count++
		from = start + len(repl)
	}
	return count
}

// nextMatch returns the position and key of the leftmost key of pairs found in
// s at or after from, preferring the longest key at a position. It returns -1
// when no key occurs.
func nextMatch(s string, from int, pairs map[string]string) (int, string) {
	best, key := -1, ""
	for old := range pairs {
		if old == "" {
			continue
		}
		i := strings.Index(s[from:], old)
		if i < 0 {
			continue
		}
		i += from
		if best < 0 || i < best || (i == best && len(old) > len(key)) {
			best, key = i, old
		}
	}
	return best, key
}

// splice replaces the byte range [start, end) of the concatenated node text.
func splice(nodes []*etree.Element, starts []int, start, end int, repl string) {
	first := -1
	for i, t := range nodes {
		if n := len(t.Text()); n > 0 && start >= starts[i] && start < starts[i]+n {
			first = i
			break
		}
	}
	if first < 0 {
		return
	}

	text := nodes[first].Text()
	local := start - starts[first]
	if end <= starts[first]+len(text) {
		setText(nodes[first], text[:local]+repl+text[end-starts[first]:])
		return
	}
	setText(nodes[first], text[:local]+repl)

	for j := first + 1; j < len(nodes); j++ {
		t := nodes[j].Text()
		s := starts[j]
		if s >= end {
			break
		}
		if s+len(t) <= end {
			setText(nodes[j], "")
			continue
		}
		setText(nodes[j], t[end-s:])
		break
	}
}

// setText sets a w:t value, marking it space-preserving when it has
// significant leading or trailing whitespace.
func setText(t *etree.Element, s string) {
	t.SetText(s)
	if s != strings.TrimSpace(s) {
		t.CreateAttr("xml:space", "preserve")
	}
}

// Clear removes the text of the paragraph while keeping its properties, its
// runs and their formatting, drawings, and page or column breaks.
func (p *Paragraph) Clear() {
	var runs []*etree.Element
	p.ownElements(func(el *etree.Element) {
		if isW(el, "r") {
			runs = append(runs, el)
		}
	})

	for _, r := range runs {
		for _, c := range r.ChildElements() {
			if c.Space != r.Space {
				continue
			}
			if runContent[c.Tag] || (c.Tag == "br" && isLineBreak(c)) {
				r.RemoveChild(c)
			}
		}
	}
}

// isLineBreak reports whether a w:br is a plain line break.
func isLineBreak(br *etree.Element) bool {
	typ := ""
	for _, a := range br.Attr {
		if a.Key == "type" {
			typ = a.Value
		}
	}
	return typ == "" || typ == "textWrapping"
}

// appendRun adds an empty run at the end of the paragraph. The run takes the
// formatting of the paragraph's first run, if any.
func (p *Paragraph) appendRun() *etree.Element {
	prefix := p.el.Space
	r := etree.NewElement(qualify(prefix, "r"))

	var firstRun *etree.Element
	p.ownElements(func(el *etree.Element) {
		if firstRun == nil && isW(el, "r") {
			firstRun = el
		}
	})
	if firstRun != nil {
		for _, c := range firstRun.ChildElements() {
			if isW(c, "rPr") {
				r.AddChild(c.Copy())
				break
			}
		}
	}

	p.el.AddChild(r)
	return r
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
