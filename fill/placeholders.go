// Package fill replaces {{field}} placeholders in DOCX templates.
//
// A fill runs in fixed phases: placeholders are extracted, text fields are
// substituted, the photo field is replaced by a picture, and finally
// whitespace-only paragraphs are cleared. A failure aborts before any output
// is produced.
package fill

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/docfill/docx"
)

// PhotoField is the reserved placeholder name that receives a picture
// instead of text. It is matched case-insensitively.
const PhotoField = "photo"

// tokenPattern matches {{name}} tokens; a name is letters, digits and
// underscores.
var tokenPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+?)\}\}`)

// Token returns the literal token text for a placeholder name.
func Token(name string) string {
	return "{{" + name + "}}"
}

// IsPhoto reports whether name is the reserved photo field.
func IsPhoto(name string) bool {
	return strings.EqualFold(name, PhotoField)
}

// Names returns the distinct placeholder names in text, in order of first
// appearance.
func Names(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Extract returns the sorted set of placeholder names found in any paragraph
// or table cell of the documents. An empty result is not an error.
func Extract(docs []*docx.Document) []string {
	set := make(map[string]bool)
	for _, d := range docs {
		for _, p := range d.Paragraphs() {
			for _, name := range Names(p.Text()) {
				set[name] = true
			}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Documents returns the parts of a package that are filled: the main
// document, followed by headers and footers unless bodyOnly is set.
func Documents(pkg *docx.Package, bodyOnly bool) ([]*docx.Document, error) {
	main, err := pkg.MainDocument()
	if err != nil {
		return nil, err
	}
	docs := []*docx.Document{main}
	if bodyOnly {
		return docs, nil
	}

	extra, err := pkg.HeaderFooterDocuments()
	if err != nil {
		return nil, err
	}
	return append(docs, extra...), nil
}

func containsPhoto(names []string) bool {
	for _, name := range names {
		if IsPhoto(name) {
			return true
		}
	}
	return false
}

// hasPhotoToken reports whether text contains the photo token in any casing.
func hasPhotoToken(text string) bool {
	return strings.Contains(strings.ToLower(text), Token(PhotoField))
}
