package docx

import (
	"strings"

	"github.com/beevik/etree"
)

// Table is a w:tbl element.
type Table struct {
	el *etree.Element
}

// Rows returns the table rows in order.
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, c := range t.el.ChildElements() {
		if isW(c, "tr") {
			rows = append(rows, &Row{el: c})
		}
	}
	return rows
}

// ToText returns a plain text representation of the table.
func (t *Table) ToText() string {
	var sb strings.Builder
	for i, row := range t.Rows() {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, cell := range row.Cells() {
			if j > 0 {
				sb.WriteString("\t")
			}
			// Replace newlines within cells with spaces
			sb.WriteString(strings.ReplaceAll(cell.Text(), "\n", " "))
		}
	}
	return sb.String()
}

// Row is a w:tr element.
type Row struct {
	el *etree.Element
}

// Cells returns the cells of the row in order.
func (r *Row) Cells() []*Cell {
	var cells []*Cell
	for _, c := range r.el.ChildElements() {
		if isW(c, "tc") {
			cells = append(cells, &Cell{el: c})
		}
	}
	return cells
}

// Cell is a w:tc element.
type Cell struct {
	el *etree.Element
}

// Paragraphs returns the paragraphs directly inside the cell. Paragraphs of
// nested tables belong to the nested cells.
func (c *Cell) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, ch := range c.el.ChildElements() {
		if isW(ch, "p") {
			paras = append(paras, &Paragraph{el: ch})
		}
	}
	return paras
}

// Tables returns the tables nested directly inside the cell.
func (c *Cell) Tables() []*Table {
	var tables []*Table
	for _, ch := range c.el.ChildElements() {
		if isW(ch, "tbl") {
			tables = append(tables, &Table{el: ch})
		}
	}
	return tables
}

// Text returns the text of the cell's paragraphs joined with newlines.
func (c *Cell) Text() string {
	paras := c.Paragraphs()
	parts := make([]string, len(paras))
	for i, p := range paras {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// Replace replaces old with repl in every paragraph of the cell and returns
// the number of replacements.
func (c *Cell) Replace(old, repl string) int {
	return c.ReplaceAll(map[string]string{old: repl})
}

// ReplaceAll applies Paragraph.ReplaceAll to every paragraph of the cell.
func (c *Cell) ReplaceAll(pairs map[string]string) int {
	n := 0
	for _, p := range c.Paragraphs() {
		n += p.ReplaceAll(pairs)
	}
	return n
}

// Clear empties the cell: the first paragraph is cleared and kept, the other
// direct paragraphs are removed. A cell that holds a nested table keeps all of
// its paragraphs (cleared), since a cell must end with a paragraph.
func (c *Cell) Clear() {
	paras := c.Paragraphs()
	nested := len(c.Tables()) > 0
	for i, p := range paras {
		if i == 0 || nested {
			p.Clear()
			continue
		}
		c.el.RemoveChild(p.el)
	}
}

// FirstParagraph returns the cell's first paragraph, creating one when the
// cell has none.
func (c *Cell) FirstParagraph() *Paragraph {
	if paras := c.Paragraphs(); len(paras) > 0 {
		return paras[0]
	}
	p := c.el.CreateElement(qualify(c.el.Space, "p"))
	return &Paragraph{el: p}
}
