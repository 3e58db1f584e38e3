package shortener

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sundayezeilo/shortlink/internal/errx"
)

const mappingColumns = `id, short_code, long_url, created_at, click_count`

type sqliteRepo struct {
	db *sql.DB
}

// NewSQLiteRepository returns a Repository over a modernc.org/sqlite handle.
// The schema must already be applied (see migrations.SQLite).
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepo{db: db}
}

func scanMapping(row *sql.Row) (Mapping, error) {
	var (
		m         Mapping
		createdAt string
	)
	if err := row.Scan(&m.ID, &m.ShortCode, &m.LongURL, &createdAt, &m.ClickCount); err != nil {
		return Mapping{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Mapping{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	m.CreatedAt = t.UTC()
	return m, nil
}

func mapSQLiteError(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case isSQLiteUniqueViolation(err, "short_code"):
		return errx.E(op, errx.Conflict, fmt.Errorf("%w: %w", ErrCodeTaken, err))

	case isSQLiteUniqueViolation(err, "long_url"):
		return errx.E(op, errx.Conflict, fmt.Errorf("%w: %w", ErrLongURLTaken, err))

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func (r *sqliteRepo) FindByLongURL(ctx context.Context, longURL string) (Mapping, error) {
	const op = "shortener.repo.FindByLongURL"

	row := r.db.QueryRowContext(ctx,
		`SELECT `+mappingColumns+` FROM url_mappings WHERE long_url = ? ORDER BY id LIMIT 1`,
		longURL)

	m, err := scanMapping(row)
	if err != nil {
		return Mapping{}, mapSQLiteError(op, err)
	}
	return m, nil
}

func (r *sqliteRepo) FindByCode(ctx context.Context, code string) (Mapping, error) {
	const op = "shortener.repo.FindByCode"

	row := r.db.QueryRowContext(ctx,
		`SELECT `+mappingColumns+` FROM url_mappings WHERE short_code = ?`,
		code)

	m, err := scanMapping(row)
	if err != nil {
		return Mapping{}, mapSQLiteError(op, err)
	}
	return m, nil
}

func (r *sqliteRepo) Insert(ctx context.Context, m Mapping) (Mapping, error) {
	const op = "shortener.repo.Insert"

	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO url_mappings (short_code, long_url, created_at, click_count)
		 VALUES (?, ?, ?, 0)
		 RETURNING `+mappingColumns,
		m.ShortCode, m.LongURL, createdAt.UTC().Format(time.RFC3339Nano))

	created, err := scanMapping(row)
	if err != nil {
		return Mapping{}, mapSQLiteError(op, err)
	}
	return created, nil
}

func (r *sqliteRepo) IncrementClickCount(ctx context.Context, code string) (Mapping, error) {
	const op = "shortener.repo.IncrementClickCount"

	row := r.db.QueryRowContext(ctx,
		`UPDATE url_mappings SET click_count = click_count + 1
		 WHERE short_code = ?
		 RETURNING `+mappingColumns,
		code)

	m, err := scanMapping(row)
	if err != nil {
		return Mapping{}, mapSQLiteError(op, err)
	}
	return m, nil
}
