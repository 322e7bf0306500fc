package fill

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"name", "Name"},
		{"first_name", "First Name"},
		{"job_title_2", "Job Title 2"},
		{"CV_summary", "CV Summary"},
		{"__leading", "Leading"},
		{"photo", "Photo"},
	}
	for _, tt := range tests {
		if got := Label(tt.name); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFields(t *testing.T) {
	got := Fields([]string{"Photo", "email", "first_name", "photo"})
	want := []Field{
		{Name: "Photo", Label: "Photo", Photo: true},
		{Name: "email", Label: "Email"},
		{Name: "first_name", Label: "First Name"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
}

func TestFields_Concurrent(t *testing.T) {
	names := []string{"Photo", "email", "first_name", "job_title", "photo"}
	want := Fields(names)

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if diff := cmp.Diff(want, Fields(names)); diff != "" {
					errs <- diff
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for diff := range errs {
		t.Errorf("Fields() mismatch under concurrency (-want +got):\n%s", diff)
	}
}

func TestFields_Empty(t *testing.T) {
	if got := Fields(nil); len(got) != 0 {
		t.Errorf("Fields(nil) = %v, want empty", got)
	}
}

func TestFormatWarnings(t *testing.T) {
	got := FormatWarnings([]Warning{
		{Kind: UnknownField, Field: "title", Message: "no value"},
		{Kind: PhotoIgnored, Message: "photo ignored"},
	})
	want := "title: no value; photo ignored"
	if got != want {
		t.Errorf("FormatWarnings() = %q, want %q", got, want)
	}
}

func TestWarningKind_String(t *testing.T) {
	tests := []struct {
		kind WarningKind
		want string
	}{
		{UnknownField, "unknown-field"},
		{UnusedValue, "unused-value"},
		{PhotoIgnored, "photo-ignored"},
		{PhotoMissing, "photo-missing"},
		{PhotoValueIgnored, "photo-value-ignored"},
		{WarningKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("WarningKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
