package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/sundayezeilo/shortlink/internal/db/sqlc"
	"github.com/sundayezeilo/shortlink/internal/errx"
	"github.com/sundayezeilo/shortlink/internal/validation"
)

// querier is an internal interface that abstracts *db.Queries
type querier interface {
	CreateUrlMapping(ctx context.Context, arg db.CreateUrlMappingParams) (db.UrlMapping, error)
	GetUrlMappingByCode(ctx context.Context, shortCode string) (db.UrlMapping, error)
	GetUrlMappingByLongUrl(ctx context.Context, longUrl string) (db.UrlMapping, error)
	IncrementClickCount(ctx context.Context, shortCode string) (db.UrlMapping, error)
}

type postgresRepo struct {
	q querier
}

// NewPostgresRepository returns a Repository backed by sqlc queries over pgx.
func NewPostgresRepository(q querier) Repository {
	return &postgresRepo{q: q}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time.UTC(), nil
}

func toDomainMapping(x db.UrlMapping) (Mapping, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return Mapping{}, err
	}

	return Mapping{
		ID:         x.ID,
		ShortCode:  x.ShortCode,
		LongURL:    x.LongUrl,
		CreatedAt:  createdAt,
		ClickCount: x.ClickCount,
	}, nil
}

func mapPostgresError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case isPostgresUniqueViolation(err, codeUniqueConstraint):
		return errx.E(op, errx.Conflict, fmt.Errorf("%w: %w", ErrCodeTaken, err))

	case isPostgresUniqueViolation(err, longURLUniqueConstraint):
		return errx.E(op, errx.Conflict, fmt.Errorf("%w: %w", ErrLongURLTaken, err))

	case isPostgresCheckViolation(err, longURLLengthConstraint):
		fe := errx.NewFieldError(validation.LongURLField, validation.MsgURLTooLong)
		return errx.E(op, errx.Invalid, fmt.Errorf("%w: %w", fe, err))

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func (r *postgresRepo) FindByLongURL(ctx context.Context, longURL string) (Mapping, error) {
	const op = "shortener.repo.FindByLongURL"

	row, err := r.q.GetUrlMappingByLongUrl(ctx, longURL)
	if err != nil {
		return Mapping{}, mapPostgresError(op, err)
	}
	return toDomainMapping(row)
}

func (r *postgresRepo) FindByCode(ctx context.Context, code string) (Mapping, error) {
	const op = "shortener.repo.FindByCode"

	row, err := r.q.GetUrlMappingByCode(ctx, code)
	if err != nil {
		return Mapping{}, mapPostgresError(op, err)
	}
	return toDomainMapping(row)
}

func (r *postgresRepo) Insert(ctx context.Context, m Mapping) (Mapping, error) {
	const op = "shortener.repo.Insert"

	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row, err := r.q.CreateUrlMapping(ctx, db.CreateUrlMappingParams{
		ShortCode: m.ShortCode,
		LongUrl:   m.LongURL,
		CreatedAt: pgtype.Timestamptz{Time: createdAt.UTC(), Valid: true},
	})
	if err != nil {
		return Mapping{}, mapPostgresError(op, err)
	}
	return toDomainMapping(row)
}

func (r *postgresRepo) IncrementClickCount(ctx context.Context, code string) (Mapping, error) {
	const op = "shortener.repo.IncrementClickCount"

	row, err := r.q.IncrementClickCount(ctx, code)
	if err != nil {
		return Mapping{}, mapPostgresError(op, err)
	}
	return toDomainMapping(row)
}
