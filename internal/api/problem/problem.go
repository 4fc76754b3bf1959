package problem

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

const contentType = "application/problem+json"

// Problem type URIs used across the API.
const (
	TypeValidation   = "https://jobdeck.dev/problems/validation-error"
	TypeUnauthorized = "https://jobdeck.dev/problems/unauthorized"
	TypeForbidden    = "https://jobdeck.dev/problems/forbidden"
	TypeNotFound     = "https://jobdeck.dev/problems/not-found"
	TypeConflict     = "https://jobdeck.dev/problems/conflict"
	TypeServerError  = "https://jobdeck.dev/problems/server-error"

	TypeMethodNotAllowed = "https://jobdeck.dev/problems/method-not-allowed"
	TypeRateLimited      = "https://jobdeck.dev/problems/rate-limited"
)

type Details struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}

type Option func(*Details)

func WithDetail(detail string) Option {
	return func(p *Details) {
		p.Detail = detail
	}
}

func WithFieldErrors(errs map[string]string) Option {
	return func(p *Details) {
		p.Errors = errs
	}
}

// Write renders an RFC 7807 response. Error detail is only exposed outside
// production environments; 4xx are logged at warn, 5xx at error.
func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string, opts ...Option) {
	p := Details{
		Type:   typ,
		Title:  title,
		Status: status,
	}
	for _, opt := range opts {
		opt(&p)
	}

	if p.Detail == "" && err != nil {
		if env == "development" || env == "test" {
			p.Detail = err.Error()
		} else {
			p.Detail = http.StatusText(status)
		}
	}
	if p.Instance == "" && r != nil {
		p.Instance = r.URL.Path
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("type", typ).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	payload, marshalErr := json.Marshal(p)
	if marshalErr != nil {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"about:blank","title":"Internal Server Error","status":500}`))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(p.Status)
	_, _ = w.Write(payload)
}

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)
