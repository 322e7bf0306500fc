package fill

import (
	"strings"

	"github.com/tsawler/docfill/docx"
)

// unit is a line of the template: a paragraph outside tables, or a whole
// table cell.
type unit interface {
	Text() string
	ReplaceAll(pairs map[string]string) int
	Clear()
}

type filler struct {
	values Values
	opts   Options
	report *Report
	photo  *docx.Image

	// photoLines holds the lines of each part that carried the photo token
	// before any value was inserted.
	photoLines map[*docx.Document][]unit
}

// units returns the table cells of d followed by the paragraphs that are not
// directly inside a cell.
func units(d *docx.Document) []unit {
	var us []unit
	for _, c := range d.Cells() {
		us = append(us, c)
	}
	for _, p := range d.Paragraphs() {
		if !p.InCell() {
			us = append(us, p)
		}
	}
	return us
}

func (f *filler) substituteText(d *docx.Document) {
	for _, u := range units(d) {
		if hasPhotoToken(u.Text()) {
			f.photoLines[d] = append(f.photoLines[d], u)
		}
		f.substituteLine(u)
	}
}

// substituteLine fills the tokens of one line. A line whose tokens are all
// blank is cleared; otherwise blank tokens become empty strings and unknown
// tokens stay.
func (f *filler) substituteLine(u unit) {
	names := Names(u.Text())
	if len(names) == 0 {
		return
	}

	var blank, filled []string
	keep := false
	for _, name := range names {
		v, ok := f.values[name]
		switch {
		case IsPhoto(name) || !ok:
			keep = true
		case strings.TrimSpace(v) == "":
			blank = append(blank, name)
		default:
			filled = append(filled, name)
		}
	}

	if len(blank) > 0 && len(filled) == 0 && !keep {
		u.Clear()
		f.report.ClearedLines++
		return
	}

	// Values are inserted in one pass and never rescanned for tokens.
	pairs := make(map[string]string, len(blank)+len(filled))
	text := u.Text()
	for _, name := range filled {
		pairs[Token(name)] = f.values[name]
		f.report.Replacements += strings.Count(text, Token(name))
	}
	for _, name := range blank {
		pairs[Token(name)] = ""
	}
	u.ReplaceAll(pairs)
}

// substitutePhoto replaces every line holding the photo token with the photo,
// or clears the line when no photo was supplied. The image is added to the
// part once and shared by all of its photo lines.
func (f *filler) substitutePhoto(d *docx.Document) error {
	relID := ""
	for _, u := range f.photoLines[d] {
		u.Clear()
		if f.photo == nil {
			f.report.ClearedLines++
			continue
		}

		if relID == "" {
			id, err := d.AddImage(f.photo)
			if err != nil {
				return err
			}
			relID = id
		}
		if err := d.InsertPicture(anchor(u), relID, f.photo, f.opts.PhotoWidth); err != nil {
			return err
		}
		f.report.Photos++
	}
	return nil
}

// anchor returns the paragraph a picture is placed in.
func anchor(u unit) *docx.Paragraph {
	if c, ok := u.(*docx.Cell); ok {
		return c.FirstParagraph()
	}
	return u.(*docx.Paragraph)
}

// Cleanup clears every paragraph of d whose text is only whitespace.
func Cleanup(d *docx.Document) {
	for _, p := range d.Paragraphs() {
		text := p.Text()
		if text != "" && strings.TrimSpace(text) == "" {
			p.Clear()
		}
	}
}
