package validators

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ParseQueryInt returns fallback when the parameter is absent or malformed.
func ParseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// ParseQueryUUID returns uuid.Nil when the parameter is absent or malformed.
func ParseQueryUUID(r *http.Request, key string) uuid.UUID {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// ParseQueryTime accepts RFC3339 timestamps and plain yyyy-mm-dd dates.
func ParseQueryTime(r *http.Request, key string) time.Time {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}
	}
	if value, err := time.Parse(time.RFC3339, raw); err == nil {
		return value
	}
	if value, err := time.Parse("2006-01-02", raw); err == nil {
		return value
	}
	return time.Time{}
}

func ParseQueryString(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}
