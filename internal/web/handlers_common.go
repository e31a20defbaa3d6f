package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/freightdesk/internal/core"
	"github.com/go-chi/chi/v5"
)

// maxJSONBody bounds client create and update payloads.
const maxJSONBody = 1 << 20

// messageResponse is the body of operations that return no record.
type messageResponse struct {
	Message  string `json:"message"`
	UploadID string `json:"upload_id,omitempty"`
	Inserted *int   `json:"inserted,omitempty"`
	Skipped  *int   `json:"skipped,omitempty"`
}

// parseIDParam reads a positive integer URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid %s %q", core.ErrValidation, name, raw)
	}
	return id, nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// decodeFields reads a JSON object body. Numbers stay json.Number so
// integer fields are not rounded through float64.
func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: body must be a JSON object: %v", core.ErrValidation, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", core.ErrValidation)
	}
	return fields, nil
}

// readUpload extracts the multipart "file" part, bounded by the configured
// maximum upload size.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return "", nil, err
		}
		if strings.Contains(err.Error(), "request body too large") {
			return "", nil, &http.MaxBytesError{Limit: maxSize}
		}
		return "", nil, fmt.Errorf("%w: invalid multipart form: %v", core.ErrValidation, err)
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("%w: no file provided", core.ErrValidation)
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", nil, fmt.Errorf("%w: %v", core.ErrDecode, err)
	}
	return header.Filename, buf.Bytes(), nil
}
