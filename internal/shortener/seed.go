package shortener

import (
	"context"
	"fmt"
	"log/slog"
)

// Seed shortens each URL through svc so demo data follows the normal create
// path. Existing mappings are reused, so seeding is safe to repeat.
func Seed(ctx context.Context, svc Service, logger *slog.Logger, urls []string) error {
	for _, u := range urls {
		m, reused, err := svc.Shorten(ctx, u)
		if err != nil {
			return fmt.Errorf("seed %q: %w", u, err)
		}
		logger.InfoContext(ctx, "seeded mapping",
			"code", m.ShortCode,
			"long_url", m.LongURL,
			"reused", reused,
		)
	}
	return nil
}
