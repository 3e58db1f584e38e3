package shortener

import "time"

// Mapping ties a short code to the long URL it redirects to.
// Everything except ClickCount is immutable after creation.
type Mapping struct {
	ID         int64
	ShortCode  string
	LongURL    string
	CreatedAt  time.Time
	ClickCount int64
}
