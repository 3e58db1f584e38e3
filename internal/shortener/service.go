package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sundayezeilo/shortlink/codegen"
	"github.com/sundayezeilo/shortlink/internal/errx"
	"github.com/sundayezeilo/shortlink/internal/validation"
)

const DefaultMaxRetries = 5

// Service defines the business logic operations for URL shortening.
type Service interface {
	// Shorten returns the mapping for longURL and whether it already existed.
	Shorten(ctx context.Context, longURL string) (Mapping, bool, error)
	// Resolve counts a click on code and returns the updated mapping.
	Resolve(ctx context.Context, code string) (Mapping, error)
	// Stats returns the mapping for code without modifying it.
	Stats(ctx context.Context, code string) (Mapping, error)
}

// service implements the Service interface.
type service struct {
	repo       Repository
	codes      codegen.Generator
	maxRetries int
	now        func() time.Time
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	CodeGenerator codegen.Generator
	MaxRetries    int // insert attempts on short code collisions (default: 5)
	Clock         func() time.Time
}

// NewService creates a new service instance.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	codes := config.CodeGenerator
	if codes == nil {
		codes = codegen.NewHex()
	}

	retries := config.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &service{
		repo:       repo,
		codes:      codes,
		maxRetries: retries,
		now:        clock,
	}
}

func (s *service) Shorten(ctx context.Context, longURL string) (Mapping, bool, error) {
	const op = "shortener.service.Shorten"

	normalized, err := validation.LongURL(longURL)
	if err != nil {
		return Mapping{}, false, errx.E(op, errx.Invalid, err)
	}

	existing, err := s.repo.FindByLongURL(ctx, normalized)
	if err == nil {
		return existing, true, nil
	}
	if errx.KindOf(err) != errx.NotFound {
		return Mapping{}, false, errx.E(op, errx.KindOf(err), err)
	}

	for range s.maxRetries {
		code, err := s.codes.Generate()
		if err != nil {
			return Mapping{}, false, errx.E(op, errx.Unavailable, err)
		}

		created, err := s.repo.Insert(ctx, Mapping{
			ShortCode: code,
			LongURL:   normalized,
			CreatedAt: s.now().UTC(),
		})
		switch {
		case err == nil:
			return created, false, nil

		case errors.Is(err, ErrCodeTaken):
			// Regenerate.

		case errors.Is(err, ErrLongURLTaken):
			// A concurrent request created it between our lookup and insert.
			existing, err := s.repo.FindByLongURL(ctx, normalized)
			if err != nil {
				return Mapping{}, false, errx.E(op, errx.KindOf(err), err)
			}
			return existing, true, nil

		default:
			return Mapping{}, false, errx.E(op, errx.KindOf(err), err)
		}
	}

	return Mapping{}, false, errx.E(op, errx.Unavailable,
		fmt.Errorf("could not generate unique code after %d attempts", s.maxRetries))
}

func (s *service) Resolve(ctx context.Context, code string) (Mapping, error) {
	const op = "shortener.service.Resolve"

	if err := validation.ShortCode(code); err != nil {
		return Mapping{}, errx.E(op, errx.Invalid, err)
	}

	m, err := s.repo.IncrementClickCount(ctx, code)
	if err != nil {
		return Mapping{}, errx.E(op, errx.KindOf(err), err)
	}
	return m, nil
}

func (s *service) Stats(ctx context.Context, code string) (Mapping, error) {
	const op = "shortener.service.Stats"

	if err := validation.ShortCode(code); err != nil {
		return Mapping{}, errx.E(op, errx.Invalid, err)
	}

	m, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return Mapping{}, errx.E(op, errx.KindOf(err), err)
	}
	return m, nil
}
