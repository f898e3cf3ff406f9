// Package httputil provides HTTP helpers for the symtower API.
//
// # Overview
//
// This package provides the request and response plumbing used by every
// API handler:
//
//   - [ReadBody]: Read a size-limited request body
//   - [ReadModel]: Decode a model from a size-limited request body
//   - [WriteJSON]: Encode a JSON response
//   - [WriteError]: Encode an error with the status of its code
//
// # Model Bodies
//
// Models are posted as files. The format follows the Content-Type header:
//
//   - application/toml: TOML
//   - application/yaml, application/x-yaml, text/yaml: YAML
//   - anything else: JSON
//
// Bodies above the configured limit fail with [ErrTooLarge].
//
// # Errors
//
// Coded errors from pkg/errors map to HTTP statuses with [StatusFor]:
//
//   - INVALID_INPUT, INVALID_MODEL, INVALID_FORMAT, INVALID_PATH: 400
//   - NOT_FOUND, FILE_NOT_FOUND: 404
//   - UNSUPPORTED_MODEL: 422
//   - UNSUPPORTED: 501
//   - context deadline exceeded: 504
//   - everything else: 500
package httputil
