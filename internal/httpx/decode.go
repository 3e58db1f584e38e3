package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sundayezeilo/shortlink/internal/errx"
)

const (
	// MaxRequestBodySize is the maximum allowed request body size (1MB).
	MaxRequestBodySize = 1 << 20
)

// DecodeJSON decodes a single JSON object from the request body into T.
// Unknown fields and trailing data are rejected.
//
// Failures are errx.Invalid wrapping an *errx.FieldError. Errors tied to one
// key (wrong type, unknown key) carry its JSON name; body-level errors have
// an empty Field.
func DecodeJSON[T any](r *http.Request) (T, error) {
	const op = "httpx.DecodeJSON"
	var zeroValue T

	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)
	defer func() {
		_ = r.Body.Close()
	}()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var v T
	if err := decoder.Decode(&v); err != nil {
		return zeroValue, errx.E(op, errx.Invalid, fmt.Errorf("%w: %w", decodeFailure(err), err))
	}

	if decoder.More() {
		return zeroValue, errx.E(op, errx.Invalid,
			errx.NewFieldError("", "Request body must contain a single JSON object."))
	}

	return v, nil
}

func decodeFailure(err error) error {
	var syntaxErr *json.SyntaxError
	var unmarshalErr *json.UnmarshalTypeError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxErr):
		return errx.NewFieldError("", fmt.Sprintf("Request body is not valid JSON (at byte %d).", syntaxErr.Offset))

	case errors.As(err, &unmarshalErr):
		if unmarshalErr.Field == "" {
			return errx.NewFieldError("", "Request body must be a JSON object.")
		}
		return errx.NewFieldError(unmarshalErr.Field, fmt.Sprintf("Value must be a %s.", unmarshalErr.Type))

	case errors.As(err, &maxBytesErr):
		return errx.NewFieldError("", fmt.Sprintf("Request body exceeds %d bytes.", MaxRequestBodySize))

	case errors.Is(err, io.EOF):
		return errx.NewFieldError("", "Request body is empty.")

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errx.NewFieldError("", "Request body is not valid JSON.")
	}

	// encoding/json reports unknown keys only as text: json: unknown field "x".
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return errx.NewFieldError(strings.Trim(name, `"`), "Unknown field.")
	}
	return errx.NewFieldError("", "Request body could not be decoded.")
}
