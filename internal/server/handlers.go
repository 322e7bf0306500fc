package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tsawler/docfill"
	"github.com/tsawler/docfill/internal/logger"
)

const (
	templateField = "template"
	photoField    = "photo"
	valuePrefix   = "field."

	// warningsHeader carries the number of fill warnings of a download.
	warningsHeader = "X-Docfill-Warnings"

	maxValueLength = 4000
)

var fieldName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type fieldsResponse struct {
	Fields  []docfill.Field `json:"fields"`
	Warning string          `json:"warning,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexData{
		MaxUploadMB: s.cfg.MaxUploadMB,
		PhotoWidth:  s.cfg.PhotoWidth,
	}); err != nil {
		logger.FromContext(r.Context()).Error("rendering index", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFields lists the fields of an uploaded template.
// POST /api/fields (multipart: template)
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := s.parseForm(r); err != nil {
		respondError(w, statusForUpload(err), err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	tmpl, err := formFile(r, templateField)
	if err != nil {
		respondError(w, statusForUpload(err), err.Error())
		return
	}
	if tmpl == nil {
		respondError(w, http.StatusBadRequest, "template file is required")
		return
	}

	fields, err := docfill.FromSource(tmpl).Fields()
	if err != nil {
		log.Warn("reading template failed", "template", tmpl.Name(), "error", err)
		respondError(w, statusForError(err), err.Error())
		return
	}

	resp := fieldsResponse{Fields: fields}
	if len(fields) == 0 {
		resp.Warning = docfill.ErrNoPlaceholders.Error()
	}
	log.Debug("template fields", "template", tmpl.Name(), "fields", len(fields))
	respondJSON(w, http.StatusOK, resp)
}

// handleFill fills an uploaded template and returns the document.
// POST /api/fill (multipart: template, field.<name>..., optional photo)
func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := s.parseForm(r); err != nil {
		respondError(w, statusForUpload(err), err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	tmpl, err := formFile(r, templateField)
	if err != nil {
		respondError(w, statusForUpload(err), err.Error())
		return
	}
	if tmpl == nil {
		respondError(w, http.StatusBadRequest, "template file is required")
		return
	}

	values := formValues(r)
	if err := validateValues(values); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	photo, err := formFile(r, photoField)
	if err != nil {
		respondError(w, statusForUpload(err), err.Error())
		return
	}

	f := docfill.FromSource(tmpl).Values(values).PhotoWidth(s.cfg.PhotoWidth)
	if photo != nil {
		f = f.Photo(photo.Bytes())
	}

	art, err := f.Generate()
	if err != nil {
		log.Warn("fill failed", "template", tmpl.Name(), "error", err)
		respondError(w, statusForError(err), err.Error())
		return
	}

	if n := len(art.Report.Warnings); n > 0 {
		log.Info("fill warnings", "count", n, "warnings", docfill.FormatWarnings(art.Report.Warnings))
	}
	log.Info("document generated",
		"template", tmpl.Name(),
		"replacements", art.Report.Replacements,
		"cleared_lines", art.Report.ClearedLines,
		"photos", art.Report.Photos,
		"size", len(art.Data),
	)

	h := w.Header()
	h.Set("Content-Type", art.MIMEType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Name}))
	h.Set("Content-Length", strconv.Itoa(len(art.Data)))
	h.Set(warningsHeader, strconv.Itoa(len(art.Report.Warnings)))
	w.WriteHeader(http.StatusOK)
	if _, err := art.WriteTo(w); err != nil {
		log.Error("writing response", "error", err)
	}
}

func (s *Server) parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes()); err != nil {
		return fmt.Errorf("invalid multipart form: %w", err)
	}
	return nil
}

// formFile reads an uploaded file. A missing file yields nil and no error.
func formFile(r *http.Request, key string) (docfill.Source, error) {
	file, header, err := r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s upload: %w", key, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s upload: %w", key, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return docfill.NewSource(header.Filename, data), nil
}

// formValues collects the field.<name> form values.
func formValues(r *http.Request) map[string]string {
	values := make(map[string]string)
	for key, vs := range r.MultipartForm.Value {
		name, ok := strings.CutPrefix(key, valuePrefix)
		if !ok || len(vs) == 0 {
			continue
		}
		values[name] = vs[0]
	}
	return values
}

func validateValues(values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := validation.Validate(name,
			validation.Required,
			validation.Length(1, 128),
			validation.Match(fieldName).Error("must contain only letters, digits and underscores"),
		); err != nil {
			return fmt.Errorf("field name %q: %w", name, err)
		}
	}
	return validation.Validate(values,
		validation.Each(validation.Length(0, maxValueLength)),
	)
}

func statusForUpload(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
