package shortener

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sundayezeilo/shortlink/internal/errx"
	"github.com/sundayezeilo/shortlink/internal/httpx"
	"github.com/sundayezeilo/shortlink/internal/validation"
)

// ShortenRequest represents the JSON request body for POST /api/shorten.
type ShortenRequest struct {
	LongURL string `json:"longUrl"`
}

// ShortenResponse represents the JSON response for a created or reused mapping.
type ShortenResponse struct {
	Code       string    `json:"code"`
	ShortURL   string    `json:"shortUrl"`
	LongURL    string    `json:"longUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	ClickCount int64     `json:"clickCount"`
	Reused     bool      `json:"reused"`
}

// StatsResponse represents the JSON response for GET /api/urls/{code}/stats.
type StatsResponse struct {
	Code       string    `json:"code"`
	LongURL    string    `json:"longUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	ClickCount int64     `json:"clickCount"`
}

// Handler provides HTTP handlers for the URL shortener service.
type Handler struct {
	service Service
	logger  *slog.Logger
	baseURL string
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Logger  *slog.Logger
	// BaseURL overrides the request's scheme and host in short URLs
	// (e.g. "https://sho.rt"). Empty means derive from the request.
	BaseURL string
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		service: cfg.Service,
		logger:  logger,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// RegisterRoutes mounts the mapping endpoints on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/shorten", h.Shorten)
	mux.HandleFunc("GET /api/urls/{code}/stats", h.Stats)
	mux.HandleFunc("GET /{code}", h.Redirect)
}

// Shorten handles POST /api/shorten. It answers 201 for a new mapping and
// 200 when an existing mapping for the same URL is reused.
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	req, err := httpx.DecodeJSON[ShortenRequest](r)
	if err != nil {
		h.handleShortenError(ctx, w, r, err)
		return
	}

	m, reused, err := h.service.Shorten(ctx, req.LongURL)
	if err != nil {
		h.handleShortenError(ctx, w, r, err)
		return
	}

	resp := ShortenResponse{
		Code:       m.ShortCode,
		ShortURL:   h.shortURL(r, m.ShortCode),
		LongURL:    m.LongURL,
		CreatedAt:  m.CreatedAt,
		ClickCount: m.ClickCount,
		Reused:     reused,
	}

	if reused {
		logger.InfoContext(ctx, "mapping reused", "code", m.ShortCode)
		httpx.WriteJSON(w, http.StatusOK, resp)
		return
	}

	logger.InfoContext(ctx, "mapping created",
		"id", m.ID,
		"code", m.ShortCode,
	)

	w.Header().Set("Location", "/"+m.ShortCode)
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

// Redirect handles GET /{code}: it counts the click and redirects with 302.
// HEAD requests (link previews, uptime checks) get the same redirect but are
// not counted.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.PathValue("code")

	// Reject malformed codes before any storage access.
	if err := validation.ShortCode(code); err != nil {
		h.writeInvalidCode(ctx, w, r, code, err)
		return
	}

	lookup := h.service.Resolve
	if r.Method == http.MethodHead {
		lookup = h.service.Stats
	}

	m, err := lookup(ctx, code)
	if err != nil {
		h.handleLookupError(ctx, w, r, err, code)
		return
	}

	h.logger.InfoContext(ctx, "code resolved",
		"request_id", httpx.GetRequestID(ctx),
		"code", code,
		"click_count", m.ClickCount,
		"referer", r.Referer(),
	)

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, m.LongURL, http.StatusFound)
}

// Stats handles GET /api/urls/{code}/stats. It never changes the click count.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.PathValue("code")

	if err := validation.ShortCode(code); err != nil {
		h.writeInvalidCode(ctx, w, r, code, err)
		return
	}

	m, err := h.service.Stats(ctx, code)
	if err != nil {
		h.handleLookupError(ctx, w, r, err, code)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, StatsResponse{
		Code:       m.ShortCode,
		LongURL:    m.LongURL,
		CreatedAt:  m.CreatedAt,
		ClickCount: m.ClickCount,
	})
}

// shortURL composes scheme://host/code from the request unless a base URL is configured.
func (h *Handler) shortURL(r *http.Request, code string) string {
	if h.baseURL != "" {
		return h.baseURL + "/" + code
	}

	scheme := "http"
	switch {
	case r.URL.Scheme != "":
		scheme = r.URL.Scheme
	case r.TLS != nil:
		scheme = "https"
	}

	u := url.URL{Scheme: scheme, Host: r.Host, Path: "/" + code}
	return u.String()
}

func (h *Handler) writeInvalidCode(ctx context.Context, w http.ResponseWriter, r *http.Request, code string, err error) {
	h.logger.WarnContext(ctx, "invalid code format",
		"request_id", httpx.GetRequestID(ctx),
		"code", code,
	)
	writeFieldError(w, r, err)
}

// handleShortenError handles errors from the Shorten service method.
func (h *Handler) handleShortenError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"request_id", httpx.GetRequestID(ctx),
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Invalid:
		h.logger.WarnContext(ctx, "invalid shorten request", logAttrs...)
		writeFieldError(w, r, err)

	case errx.Unavailable:
		h.logger.ErrorContext(ctx, "service unavailable", logAttrs...)
		httpx.WriteProblem(w, r, http.StatusServiceUnavailable,
			"Unable to create a short URL at this time. Please try again.", nil)

	default:
		h.logger.ErrorContext(ctx, "unexpected error shortening url", logAttrs...)
		httpx.WriteProblem(w, r, http.StatusInternalServerError,
			"An unexpected error occurred.", nil)
	}
}

// handleLookupError handles errors from the Resolve and Stats service methods.
func (h *Handler) handleLookupError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error, code string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"request_id", httpx.GetRequestID(ctx),
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
		"code", code,
	}

	switch kind {
	case errx.NotFound:
		h.logger.WarnContext(ctx, "code not found", logAttrs...)
		httpx.WriteProblem(w, r, http.StatusNotFound,
			fmt.Sprintf("No URL found for code '%s'.", code), nil)

	case errx.Invalid:
		h.logger.WarnContext(ctx, "invalid code", logAttrs...)
		writeFieldError(w, r, err)

	case errx.Unavailable:
		h.logger.ErrorContext(ctx, "service unavailable", logAttrs...)
		httpx.WriteProblem(w, r, http.StatusServiceUnavailable,
			"Unable to resolve this code at this time. Please try again.", nil)

	default:
		h.logger.ErrorContext(ctx, "unexpected error resolving code", logAttrs...)
		httpx.WriteProblem(w, r, http.StatusInternalServerError,
			"An unexpected error occurred.", nil)
	}
}

// writeFieldError writes a 400. Errors without a field (a malformed body)
// become a plain problem with the message as detail.
func writeFieldError(w http.ResponseWriter, r *http.Request, err error) {
	fe, ok := errx.FieldOf(err)
	switch {
	case !ok:
		httpx.WriteProblem(w, r, http.StatusBadRequest, "The request is invalid.", nil)
	case fe.Field == "":
		httpx.WriteProblem(w, r, http.StatusBadRequest, fe.Message, nil)
	default:
		httpx.WriteFieldProblem(w, r, fe.Field, fe.Message)
	}
}
