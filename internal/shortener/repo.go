package shortener

import (
	"context"
	"errors"
)

// Conflict causes reported by Repository.Insert. They are wrapped in an
// errx.Conflict error, so test them with errors.Is.
var (
	ErrCodeTaken    = errors.New("short code already exists")
	ErrLongURLTaken = errors.New("long url already has a mapping")
)

// Repository defines the persistence operations for Mapping entities.
// Lookups return errx.NotFound when nothing matches; Insert returns
// errx.Conflict on a unique violation; driver failures are errx.Unavailable.
type Repository interface {
	FindByLongURL(ctx context.Context, longURL string) (Mapping, error)
	FindByCode(ctx context.Context, code string) (Mapping, error)
	Insert(ctx context.Context, m Mapping) (Mapping, error)
	// IncrementClickCount atomically adds one click and returns the updated mapping.
	IncrementClickCount(ctx context.Context, code string) (Mapping, error)
}
