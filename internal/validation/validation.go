// Package validation checks user-supplied long URLs and short codes.
// All functions are pure and safe for concurrent use.
package validation

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/sundayezeilo/shortlink/internal/errx"
)

const (
	MaxURLLength = 2048
	CodeLength   = 6

	LongURLField = "longUrl"
	CodeField    = "code"
)

const (
	MsgURLRequired   = "URL is required."
	MsgURLTooLong    = "URL exceeds max length of 2048 characters."
	MsgURLNotAbs     = "URL is not a valid absolute URI."
	MsgURLBadScheme  = "Only http and https URLs are allowed."
	MsgCodeMalformed = "Code must be exactly 6 non-whitespace characters."
)

var validate *validator.Validate

// Tag order is rule order: validator stops at the first failing tag of a field.
// Lengths are UTF-16 code units, so an astral character counts twice.
type longURLInput struct {
	LongURL string `validate:"required,maxutf16=2048,absuri,httpscheme"`
}

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("maxutf16", validateMaxUTF16)
	_ = validate.RegisterValidation("absuri", validateAbsURI)
	_ = validate.RegisterValidation("httpscheme", validateHTTPScheme)
	_ = validate.RegisterValidation("shortcode", validateShortCode)
}

// LongURL validates raw and returns its canonical form, which is the string
// used for reuse lookups. Failures are *errx.FieldError for the longUrl field.
func LongURL(raw string) (string, error) {
	in := longURLInput{LongURL: strings.TrimSpace(raw)}

	if err := validate.Struct(in); err != nil {
		return "", errx.NewFieldError(LongURLField, messageFor(err))
	}

	u, err := url.Parse(in.LongURL)
	if err != nil {
		return "", errx.NewFieldError(LongURLField, MsgURLNotAbs)
	}

	// Percent-encoding can grow the stored form well past the input.
	canonical := u.String()
	if utf16Len(canonical) > MaxURLLength {
		return "", errx.NewFieldError(LongURLField, MsgURLTooLong)
	}
	return canonical, nil
}

// ShortCode checks the shape of a short code without touching storage.
func ShortCode(code string) error {
	if err := validate.Var(code, "shortcode"); err != nil {
		return errx.NewFieldError(CodeField, MsgCodeMalformed)
	}
	return nil
}

func messageFor(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return MsgURLNotAbs
	}

	switch verrs[0].Tag() {
	case "required":
		return MsgURLRequired
	case "maxutf16":
		return MsgURLTooLong
	case "httpscheme":
		return MsgURLBadScheme
	default:
		return MsgURLNotAbs
	}
}

func validateMaxUTF16(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf16Len(fl.Field().String()) <= limit
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// validateAbsURI accepts absolute URIs. Hierarchical http(s) URIs must carry a host.
func validateAbsURI(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil || !u.IsAbs() {
		return false
	}
	if isHTTPScheme(u.Scheme) {
		return u.Host != "" && u.Opaque == ""
	}
	return true
}

func validateHTTPScheme(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return isHTTPScheme(u.Scheme)
}

func validateShortCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if utf8.RuneCountInString(code) != CodeLength {
		return false
	}
	return strings.IndexFunc(code, unicode.IsSpace) < 0
}

// url.Parse lowercases the scheme, so HTTPS://... matches here.
func isHTTPScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}
