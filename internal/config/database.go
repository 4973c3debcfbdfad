package config

import (
	"fmt"
	"strings"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"

	defaultSQLiteFile = "estoque.db"
	sqlitePragmas     = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
)

// ResolveDatabaseURL maps DATABASE_URL to a database/sql driver name and DSN.
//
// An empty URL selects a file-backed SQLite database. The legacy postgres://
// scheme is rewritten to postgresql:// before being handed to pgx.
func ResolveDatabaseURL(url string) (driver, dsn string, err error) {
	url = strings.TrimSpace(url)

	switch {
	case url == "":
		return DriverSQLite, sqliteDSN(defaultSQLiteFile), nil
	case strings.HasPrefix(url, "postgres://"):
		return DriverPostgres, "postgresql://" + strings.TrimPrefix(url, "postgres://"), nil
	case strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url %q has no path", url)
		}
		return DriverSQLite, sqliteDSN(path), nil
	case strings.HasPrefix(url, "file:"):
		return DriverSQLite, url, nil
	default:
		return "", "", fmt.Errorf("unsupported database url scheme in %q", url)
	}
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?" + sqlitePragmas
	}
	return "file:" + path + "?" + sqlitePragmas
}
