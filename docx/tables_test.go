package docx

import (
	"testing"

	"github.com/tsawler/docfill/internal/docxtest"
)

func TestTable_ToText(t *testing.T) {
	d := openTestDocument(t, `<w:tbl><w:tr>`+
		`<w:tc>`+docxtest.P("Name")+`</w:tc>`+
		`<w:tc>`+docxtest.P("line one")+docxtest.P("line two")+`</w:tc>`+
		`</w:tr></w:tbl>`)

	table := d.Blocks()[0].Table
	if got, want := table.ToText(), "Name\tline one line two"; got != want {
		t.Errorf("ToText() = %q, want %q", got, want)
	}
}

func TestCell_Replace(t *testing.T) {
	d := openTestDocument(t, `<w:tbl><w:tr><w:tc>`+
		docxtest.P("{{city}}")+docxtest.P("near {{city}}")+
		`</w:tc></w:tr></w:tbl>`)
	cell := d.Cells()[0]

	if got := cell.Replace("{{city}}", "Paris"); got != 2 {
		t.Errorf("Replace() = %d, want 2", got)
	}
	if got, want := cell.Text(), "Paris\nnear Paris"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestCell_Clear(t *testing.T) {
	d := openTestDocument(t, `<w:tbl><w:tr><w:tc>`+
		`<w:tcPr><w:tcW w:w="2000" w:type="dxa"/></w:tcPr>`+
		docxtest.P("Phone: {{phone}}")+docxtest.P("second line")+
		`</w:tc></w:tr></w:tbl>`)
	cell := d.Cells()[0]

	cell.Clear()
	if got := cell.Text(); got != "" {
		t.Errorf("Text() after Clear = %q, want empty", got)
	}
	if got := len(cell.Paragraphs()); got != 1 {
		t.Errorf("paragraphs after Clear = %d, want 1", got)
	}
}

func TestCell_ClearWithNestedTable(t *testing.T) {
	d := openTestDocument(t, `<w:tbl><w:tr><w:tc>`+
		docxtest.P("{{title}}")+docxtest.Table([]string{"kept"})+docxtest.P("tail")+
		`</w:tc></w:tr></w:tbl>`)
	cell := d.Cells()[0]

	cell.Clear()
	if got := len(cell.Paragraphs()); got != 2 {
		t.Errorf("paragraphs after Clear = %d, want 2", got)
	}
	if got := cell.Text(); got != "\n" {
		t.Errorf("Text() after Clear = %q", got)
	}
	if got := d.Cells()[1].Text(); got != "kept" {
		t.Errorf("nested cell Text() = %q, want %q", got, "kept")
	}
}

func TestCell_FirstParagraph(t *testing.T) {
	d := openTestDocument(t, `<w:tbl><w:tr><w:tc><w:tcPr/></w:tc><w:tc>`+docxtest.P("x")+`</w:tc></w:tr></w:tbl>`)
	cells := d.Cells()

	p := cells[0].FirstParagraph()
	if p == nil || len(cells[0].Paragraphs()) != 1 {
		t.Fatal("FirstParagraph() did not create a paragraph in an empty cell")
	}
	if got := cells[1].FirstParagraph().Text(); got != "x" {
		t.Errorf("FirstParagraph().Text() = %q", got)
	}
}
