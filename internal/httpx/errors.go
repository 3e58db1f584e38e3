package httpx

import (
	"net/http"

	"github.com/sundayezeilo/shortlink/internal/errx"
)

// ErrorKindToStatus maps errx.Kind to HTTP status codes.
// Handlers can use this as a helper when mapping their own errors.
func ErrorKindToStatus(kind errx.Kind) int {
	switch kind {
	case errx.NotFound:
		return http.StatusNotFound
	case errx.Conflict:
		return http.StatusConflict
	case errx.Invalid:
		return http.StatusBadRequest
	case errx.Unavailable:
		return http.StatusServiceUnavailable
	case errx.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ProblemType returns the RFC 9110 section describing status, used as the
// problem "type" URI. Unlisted statuses get no type.
func ProblemType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.1"
	case http.StatusNotFound:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.5"
	case http.StatusConflict:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.10"
	case http.StatusInternalServerError:
		return "https://tools.ietf.org/html/rfc9110#section-15.6.1"
	case http.StatusServiceUnavailable:
		return "https://tools.ietf.org/html/rfc9110#section-15.6.4"
	default:
		return ""
	}
}
