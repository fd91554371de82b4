package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sportfeeds/fixtures-daily/internal/config"
)

// normalizeDBURL fills in an sslmode when the URL carries none: managed
// environments require TLS, local development runs against plain Postgres.
// An explicit sslmode in the URL always wins.
func normalizeDBURL(appEnv, dbURL string) (string, error) {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}

	query := parsed.Query()
	if query.Get("sslmode") != "" {
		return dbURL, nil
	}

	switch appEnv {
	case config.EnvLocal:
		query.Set("sslmode", "disable")
	default:
		query.Set("sslmode", "require")
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

// dbNameFromURL extracts the database name for telemetry labels.
func dbNameFromURL(dbURL string) string {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Path, "/")
}
