package database

import "strings"

// Driver names a storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// DetectDriver picks the backend for a DATABASE_URL. An empty URL selects
// SQLite so the CLI works without any setup.
func DetectDriver(url string) Driver {
	url = strings.TrimSpace(url)
	switch {
	case url == "":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"),
		strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"), strings.HasSuffix(url, ".sqlite3"):
		return DriverSQLite
	default:
		return DriverPostgres
	}
}

// SQLitePathFromURL strips the sqlite:// scheme if present.
func SQLitePathFromURL(url string) string {
	return strings.TrimPrefix(strings.TrimSpace(url), "sqlite://")
}
