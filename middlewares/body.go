package middlewares

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrymomot/quill/internal"
)

// DefaultMaxBodySize caps request bodies at 1MB.
const DefaultMaxBodySize int64 = 1 << 20

// BodyParserConfig configures the body parsing middleware.
type BodyParserConfig struct {
	MaxBytes int64
}

// BodyParserOption configures BodyParserConfig.
type BodyParserOption func(*BodyParserConfig)

// WithMaxBodySize sets the largest accepted request body in bytes.
func WithMaxBodySize(n int64) BodyParserOption {
	return func(cfg *BodyParserConfig) {
		if n > 0 {
			cfg.MaxBytes = n
		}
	}
}

// BodyParser returns middleware that decodes POST, PUT and PATCH bodies into a
// map stored under internal.BodyKey, where route binding picks arguments from.
//
// JSON bodies must be objects. URL-encoded and multipart forms become string
// values, or []string for repeated fields. Other content types are left alone.
// A malformed JSON body fails with a value:invalid APIError and an oversized
// body with 413.
func BodyParser(opts ...BodyParserOption) internal.Middleware {
	cfg := &BodyParserConfig{MaxBytes: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				return next(c)
			}

			mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
			r.Body = http.MaxBytesReader(c.Response(), r.Body, cfg.MaxBytes)

			var (
				body map[string]any
				err  error
			)
			switch mediaType {
			case "application/json":
				body, err = decodeJSON(r.Body)
			case "application/x-www-form-urlencoded":
				if err = r.ParseForm(); err == nil {
					body = formValues(r)
				}
			case "multipart/form-data":
				if err = r.ParseMultipartForm(cfg.MaxBytes); err == nil {
					body = formValues(r)
				}
			default:
				return next(c)
			}

			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					return internal.NewHTTPError(http.StatusRequestEntityTooLarge, "Request body too large").WithError(err)
				}
				if ae, ok := internal.AsAPIError(err); ok {
					return ae
				}
				return internal.ErrValueInvalid("body", "malformed request body")
			}

			c.Set(internal.BodyKey{}, body)
			return next(c)
		}
	}
}

func decodeJSON(r io.Reader) (map[string]any, error) {
	var v any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, internal.ErrValueInvalid("body", "malformed JSON")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, internal.ErrValueInvalid("body", "JSON body must be an object")
	}
	return obj, nil
}

func formValues(r *http.Request) map[string]any {
	body := make(map[string]any, len(r.PostForm))
	for k, vs := range r.PostForm {
		switch len(vs) {
		case 0:
		case 1:
			body[k] = vs[0]
		default:
			body[k] = vs
		}
	}
	return body
}
