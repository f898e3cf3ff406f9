package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	symerr "github.com/matzehuels/symtower/pkg/errors"
	symio "github.com/matzehuels/symtower/pkg/io"
	"github.com/matzehuels/symtower/pkg/model"
)

// ErrTooLarge is returned by [ReadModel] when the body exceeds the limit.
//
// Use errors.Is to check for this error:
//
//	m, err := httputil.ReadModel(w, r, limit)
//	if errors.Is(err, httputil.ErrTooLarge) {
//	    // Reject with 413
//	}
var ErrTooLarge = errors.New("request body too large")

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ModelFormat selects the model format from the Content-Type header.
func ModelFormat(r *http.Request) symio.Format {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/toml":
		return symio.FormatTOML
	case "application/yaml", "application/x-yaml", "text/yaml":
		return symio.FormatYAML
	}
	return symio.FormatJSON
}

// ReadBody reads the request body. At most limit bytes are read; limit <= 0
// disables the check.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, ErrTooLarge
		}
		return nil, symerr.Wrap(symerr.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

// ReadModel decodes the request body as a model, reading at most limit
// bytes.
func ReadModel(w http.ResponseWriter, r *http.Request, limit int64) (*model.Model, error) {
	data, err := ReadBody(w, r, limit)
	if err != nil {
		return nil, err
	}
	return symio.ReadModel(bytes.NewReader(data), ModelFormat(r))
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	switch symerr.GetCode(err) {
	case symerr.ErrCodeInvalidInput, symerr.ErrCodeInvalidModel, symerr.ErrCodeInvalidFormat, symerr.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case symerr.ErrCodeNotFound, symerr.ErrCodeFileNotFound:
		return http.StatusNotFound
	case symerr.ErrCodeUnsupportedModel:
		return http.StatusUnprocessableEntity
	case symerr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteError writes err as an [ErrorResponse] and returns the status used.
// Internal errors are reported without their message.
func WriteError(w http.ResponseWriter, err error, runID string) int {
	status := StatusFor(err)
	resp := ErrorResponse{
		Code:    string(symerr.GetCode(err)),
		Message: symerr.UserMessage(err),
		RunID:   runID,
	}
	switch {
	case errors.Is(err, ErrTooLarge):
		resp.Code = "TOO_LARGE"
	case errors.Is(err, context.DeadlineExceeded):
		resp.Code = "TIMEOUT"
	case status == http.StatusInternalServerError:
		resp.Code = string(symerr.ErrCodeInternal)
		resp.Message = "internal error"
	}
	_ = WriteJSON(w, status, resp)
	return status
}
