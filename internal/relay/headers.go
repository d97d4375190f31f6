package relay

import (
	"net/http"
	"strings"
)

const redacted = "[REDACTED]"

// Headers whose values must never reach storage.
var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
	"x-api-key":     {},
}

// headerMap copies h for storage, redacting credentials.
func headerMap(h http.Header) map[string][]string {
	m := make(map[string][]string, len(h))
	for k, v := range h {
		if _, ok := sensitiveHeaders[strings.ToLower(k)]; ok {
			m[k] = []string{redacted}
			continue
		}
		m[k] = append([]string(nil), v...)
	}
	return m
}

// accessToken returns the caller's Authorization header, or fallback when the
// request carries none. The value is passed upstream unchanged.
func accessToken(r *http.Request, fallback string) string {
	if v := strings.TrimSpace(r.Header.Get("Authorization")); v != "" {
		return v
	}
	return fallback
}
