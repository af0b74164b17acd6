package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxJSONBodySize limits request bodies that carry no files
const maxJSONBodySize = 1 << 20

// writeJSON marshals v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single JSON object from the request body into dst.
// An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return nil
}

// readUpload returns the named multipart file with its declared MIME type.
// limit bounds the file itself; the body may be slightly larger.
func readUpload(w http.ResponseWriter, r *http.Request, field string, limit int64) (name, mimeType string, data []byte, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", "", nil, errBodyTooLarge
		}
		return "", "", nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %s", errMissingFile, field)
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return header.Filename, header.Header.Get("Content-Type"), data, nil
}
