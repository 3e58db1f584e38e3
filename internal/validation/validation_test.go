package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundayezeilo/shortlink/internal/errx"
)

func TestLongURL_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"empty", "", MsgURLRequired},
		{"whitespace only", " \t\n ", MsgURLRequired},
		{"too long", "https://example.com/" + strings.Repeat("a", MaxURLLength), MsgURLTooLong},
		{"too long is checked before parsing", strings.Repeat("x", MaxURLLength+1), MsgURLTooLong},
		{"relative path", "/just/a/path", MsgURLNotAbs},
		{"bare word", "not-a-url", MsgURLNotAbs},
		{"space in host", "https://exa mple.com", MsgURLNotAbs},
		{"http without host", "http:///path", MsgURLNotAbs},
		{"opaque http", "http:example.com", MsgURLNotAbs},
		{"scheme only", "https://", MsgURLNotAbs},
		{"ftp scheme", "ftp://example.com/file", MsgURLBadScheme},
		{"mailto", "mailto:someone@example.com", MsgURLBadScheme},
		{"javascript", "javascript:alert(1)", MsgURLBadScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LongURL(tt.input)
			require.Error(t, err)
			assert.Empty(t, got)

			fe, ok := errx.FieldOf(err)
			require.True(t, ok, "expected *errx.FieldError, got %T", err)
			assert.Equal(t, LongURLField, fe.Field)
			assert.Equal(t, tt.wantMsg, fe.Message)
		})
	}
}

func TestLongURL_Accepts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain https", "https://example.com", "https://example.com"},
		{"plain http with path", "http://example.com/a/b?x=1#frag", "http://example.com/a/b?x=1#frag"},
		{"trims surrounding whitespace", "  https://example.com/path  ", "https://example.com/path"},
		{"uppercase scheme is canonicalized", "HTTPS://example.com", "https://example.com"},
		{"port and userinfo", "https://user@example.com:8443/x", "https://user@example.com:8443/x"},
		{"non-ascii path is percent-encoded", "https://example.com/café", "https://example.com/caf%C3%A9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LongURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLongURL_LengthBoundary(t *testing.T) {
	prefix := "https://example.com/"
	exact := prefix + strings.Repeat("a", MaxURLLength-len(prefix))
	require.Len(t, exact, MaxURLLength)

	got, err := LongURL(exact)
	require.NoError(t, err)
	assert.Equal(t, exact, got)

	_, err = LongURL(exact + "a")
	fe, ok := errx.FieldOf(err)
	require.True(t, ok)
	assert.Equal(t, MsgURLTooLong, fe.Message)
}

func TestLongURL_CanonicalFormRespectsLimit(t *testing.T) {
	// 2014 characters in, but each é becomes %C3%A9 in the stored form.
	raw := "https://x.com/" + strings.Repeat("é", 2000)
	require.LessOrEqual(t, utf16Len(raw), MaxURLLength)

	got, err := LongURL(raw)
	assert.Empty(t, got)
	fe, ok := errx.FieldOf(err)
	require.True(t, ok, "expected *errx.FieldError, got %v", err)
	assert.Equal(t, LongURLField, fe.Field)
	assert.Equal(t, MsgURLTooLong, fe.Message)
}

func TestLongURL_CountsUTF16Units(t *testing.T) {
	// 1100 emoji are 1100 runes but 2200 UTF-16 units.
	raw := "https://x.com/" + strings.Repeat("😀", 1100)
	require.Less(t, utf8.RuneCountInString(raw), MaxURLLength)

	_, err := LongURL(raw)
	fe, ok := errx.FieldOf(err)
	require.True(t, ok)
	assert.Equal(t, MsgURLTooLong, fe.Message)
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 0, utf16Len(""))
	assert.Equal(t, 3, utf16Len("abc"))
	assert.Equal(t, 1, utf16Len("é"))
	assert.Equal(t, 2, utf16Len("😀"))
}

func TestLongURL_IsStable(t *testing.T) {
	first, err := LongURL("https://example.com/a?b=c")
	require.NoError(t, err)

	second, err := LongURL(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestShortCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"six hex chars", "a1b2c3", false},
		{"six uppercase", "ZZZZZZ", false},
		{"six multibyte runes", "ééééé1", false},
		{"empty", "", true},
		{"too short", "abc12", true},
		{"too long", "abc1234", true},
		{"inner space", "abc 12", true},
		{"tab", "abc\t12", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShortCode(tt.code)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			fe, ok := errx.FieldOf(err)
			require.True(t, ok)
			assert.Equal(t, CodeField, fe.Field)
			assert.Equal(t, MsgCodeMalformed, fe.Message)
		})
	}
}
