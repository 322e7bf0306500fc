package fill

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field is a placeholder presented to a user for input.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Photo bool   `json:"photo" yaml:"photo"`
}

// Label turns a placeholder name into a form label: "first_name" becomes
// "First Name". Upper-case runs such as "CV" are kept. A Caser holds state,
// so each call builds its own.
func Label(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	return cases.Title(language.English, cases.NoLower).String(strings.Join(words, " "))
}

// Fields converts sorted placeholder names into form fields. Every casing of
// the photo field collapses into a single photo field, which keeps the first
// name's casing.
func Fields(names []string) []Field {
	fields := make([]Field, 0, len(names))
	photo := false
	for _, name := range names {
		if IsPhoto(name) {
			if photo {
				continue
			}
			photo = true
			fields = append(fields, Field{Name: name, Label: Label(name), Photo: true})
			continue
		}
		fields = append(fields, Field{Name: name, Label: Label(name)})
	}
	return fields
}
