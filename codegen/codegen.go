// Package codegen produces random short codes for new mappings.
// Generators do not check uniqueness; the store's unique index does.
package codegen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Length is the size of every generated code.
const Length = 6

const (
	base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// Style selects the alphabet of generated codes.
type Style string

const (
	StyleHex    Style = "hex"
	StyleBase62 Style = "base62"
)

// Generator generates short codes.
// Implementations should be safe for concurrent use.
type Generator interface {
	Generate() (string, error)
}

type hexGenerator struct{}

// NewHex returns a Generator that takes the first 6 hex characters of a
// random (version 4) UUID.
func NewHex() Generator {
	return hexGenerator{}
}

func (hexGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	return hexPrefix(id), nil
}

func hexPrefix(id uuid.UUID) string {
	return hex.EncodeToString(id[:Length/2])
}

type base62Generator struct{}

// NewBase62 returns a Generator drawing from [0-9A-Za-z].
func NewBase62() Generator {
	return base62Generator{}
}

func (base62Generator) Generate() (string, error) {
	b := make([]byte, Length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	for i := range b {
		b[i] = base62Chars[int(b[i])%len(base62Chars)]
	}
	return string(b), nil
}

// New returns the Generator for style, falling back to hex.
func New(style Style) Generator {
	switch style {
	case StyleBase62:
		return NewBase62()
	default:
		return NewHex()
	}
}
