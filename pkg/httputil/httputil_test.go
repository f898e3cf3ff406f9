package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	symerr "github.com/matzehuels/symtower/pkg/errors"
	symio "github.com/matzehuels/symtower/pkg/io"
)

const pairsTOML = `
name = "pairs"

[[vars]]
name = "a"
type = "binary"

[[vars]]
name = "b"
type = "binary"
`

func TestModelFormat(t *testing.T) {
	tests := []struct {
		contentType string
		want        symio.Format
	}{
		{"application/toml", symio.FormatTOML},
		{"application/yaml", symio.FormatYAML},
		{"application/x-yaml; charset=utf-8", symio.FormatYAML},
		{"text/yaml", symio.FormatYAML},
		{"application/json", symio.FormatJSON},
		{"", symio.FormatJSON},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		if tt.contentType != "" {
			r.Header.Set("Content-Type", tt.contentType)
		}
		if got := ModelFormat(r); got != tt.want {
			t.Errorf("ModelFormat(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestReadModel(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(pairsTOML))
	r.Header.Set("Content-Type", "application/toml")

	m, err := ReadModel(httptest.NewRecorder(), r, 1<<20)
	if err != nil {
		t.Fatalf("ReadModel() error: %v", err)
	}
	if m.Name != "pairs" || m.NumVars() != 2 {
		t.Errorf("ReadModel() = %s with %d vars, want pairs with 2", m.Name, m.NumVars())
	}
}

func TestReadModelTooLarge(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(pairsTOML))
	r.Header.Set("Content-Type", "application/toml")

	_, err := ReadModel(httptest.NewRecorder(), r, 16)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("ReadModel() error = %v, want ErrTooLarge", err)
	}
}

func TestReadBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abc"))

	data, err := ReadBody(httptest.NewRecorder(), r, 3)
	if err != nil {
		t.Fatalf("ReadBody() error: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("ReadBody() = %q, want %q", data, "abc")
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abcd"))
	if _, err := ReadBody(httptest.NewRecorder(), r, 3); !errors.Is(err, ErrTooLarge) {
		t.Errorf("ReadBody() error = %v, want ErrTooLarge", err)
	}
}

func TestReadModelInvalid(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name": 3}`))

	_, err := ReadModel(httptest.NewRecorder(), r, 0)
	if !symerr.Is(err, symerr.ErrCodeInvalidFormat) {
		t.Errorf("ReadModel() error = %v, want INVALID_FORMAT", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", symerr.New(symerr.ErrCodeInvalidInput, "bad"), http.StatusBadRequest},
		{"invalid model", symerr.New(symerr.ErrCodeInvalidModel, "bad"), http.StatusBadRequest},
		{"wrapped invalid format", fmt.Errorf("decode: %w", symerr.New(symerr.ErrCodeInvalidFormat, "bad")), http.StatusBadRequest},
		{"not found", symerr.New(symerr.ErrCodeNotFound, "x"), http.StatusNotFound},
		{"unsupported model", symerr.New(symerr.ErrCodeUnsupportedModel, "x"), http.StatusUnprocessableEntity},
		{"unsupported", symerr.New(symerr.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{"too large", ErrTooLarge, http.StatusRequestEntityTooLarge},
		{"deadline", fmt.Errorf("compute: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"internal", symerr.New(symerr.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
	}{
		{"coded", symerr.New(symerr.ErrCodeInvalidModel, "unknown variable x"), "INVALID_MODEL", "unknown variable x"},
		{"internal hides message", errors.New("nil pointer somewhere"), "INTERNAL_ERROR", "internal error"},
		{"too large", ErrTooLarge, "TOO_LARGE", "request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			status := WriteError(rec, tt.err, "run-1")

			if rec.Code != status {
				t.Errorf("recorded status %d, returned %d", rec.Code, status)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Code != tt.wantCode || resp.Message != tt.wantMsg || resp.RunID != "run-1" {
				t.Errorf("response = %+v, want code %s message %q", resp, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteJSON(rec, http.StatusCreated, map[string]int{"n": 1}); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"n": 1`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
