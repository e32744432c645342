package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const maxLoggedBody = 4 << 10

// redactedFields are request body keys whose values must never reach the logs.
var redactedFields = []string{"password", "access", "refresh"}

// RequestLog emits one debug record per inbound request with method, path,
// and body. Credential fields are redacted before logging. The middleware is
// a pure observer: the request proceeds unchanged whether or not logging
// happens, and bodies are only read when debug logging is enabled.
func RequestLog(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if log.GetLevel() > zerolog.DebugLevel {
				return next(c)
			}

			var body []byte
			truncated := false
			if req := c.Request(); req.Body != nil {
				body, _ = io.ReadAll(io.LimitReader(req.Body, maxLoggedBody))
				rest, _ := io.ReadAll(req.Body)
				truncated = len(rest) > 0
				req.Body = io.NopCloser(bytes.NewReader(append(body, rest...)))
			}

			log.Debug().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("body", redactBody(body, truncated)).
				Msg("request received")

			return next(c)
		}
	}
}

// redactBody replaces sensitive values in a JSON object body. Only bodies
// that fully parse as a JSON object are logged; truncated or non-JSON bodies
// are summarized instead of echoed, so credentials can never slip through
// unredacted.
func redactBody(body []byte, truncated bool) string {
	if len(body) == 0 {
		return ""
	}

	var m map[string]any
	if truncated || json.Unmarshal(body, &m) != nil {
		return fmt.Sprintf("[body omitted, %d bytes read]", len(body))
	}

	for _, field := range redactedFields {
		if _, ok := m[field]; ok {
			m[field] = "[REDACTED]"
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(out)
}
