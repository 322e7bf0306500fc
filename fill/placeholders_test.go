package fill

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tsawler/docfill/docx"
	"github.com/tsawler/docfill/internal/docxtest"
)

func openPackage(t *testing.T, body string, extra ...string) *docx.Package {
	t.Helper()
	pkg, err := docx.OpenBytes(docxtest.Build(t, body, extra...))
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	return pkg
}

func TestNames(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", nil},
		{"no tokens here", nil},
		{"{{name}}", []string{"name"}},
		{"{{first_name}} {{last_name}}", []string{"first_name", "last_name"}},
		{"{{a}}{{b}}{{a}}", []string{"a", "b"}},
		{"{{ spaced }}", nil},
		{"{{with-dash}}", nil},
		{"{{}}", nil},
		{"{{{x}}}", []string{"x"}},
		{"{{Photo}} and {{photo}}", []string{"Photo", "photo"}},
		{"{{job2024}}", []string{"job2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Names(tt.text)); diff != "" {
				t.Errorf("Names(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	pkg := openPackage(t,
		docxtest.P("Name: {{name}}")+
			docxtest.P("{{email}} / {{phone}}")+
			docxtest.P("Split {{na", "me}} token")+
			docxtest.Table([]string{"{{role}}", "{{company}}"}, []string{"{{name}}", "plain"}),
		"word/header1.xml", docxtest.Header(docxtest.P("{{header_title}}")),
	)

	docs, err := Documents(pkg, false)
	if err != nil {
		t.Fatal(err)
	}
	got := Extract(docs)
	want := []string{"company", "email", "header_title", "name", "phone", "role"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}

	body, err := Documents(pkg, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 1 {
		t.Fatalf("Documents(bodyOnly) returned %d parts, want 1", len(body))
	}
	for _, name := range Extract(body) {
		if name == "header_title" {
			t.Error("body-only extraction included a header placeholder")
		}
	}
}

func TestExtract_Empty(t *testing.T) {
	pkg := openPackage(t, docxtest.P("Just text")+docxtest.P("{not a token}"))
	docs, err := Documents(pkg, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := Extract(docs); len(got) != 0 {
		t.Errorf("Extract() = %v, want empty", got)
	}
}

func TestIsPhoto(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"photo", true},
		{"Photo", true},
		{"PHOTO", true},
		{"photos", false},
		{"my_photo", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPhoto(tt.name); got != tt.want {
			t.Errorf("IsPhoto(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestToken(t *testing.T) {
	if got := Token("name"); got != "{{name}}" {
		t.Errorf("Token() = %q, want %q", got, "{{name}}")
	}
}
