package store

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// BusyTimeoutMS is applied to sqlite DSNs that do not set one.
const BusyTimeoutMS = 5000

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// DetectDriver infers a sql driver name from a DSN.
func DetectDriver(dsn string) (string, bool) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", false
	}
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres, true
	case strings.HasPrefix(lower, "mysql://"):
		return DriverMySQL, true
	case strings.HasPrefix(lower, "file:"), lower == ":memory:", strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".db"):
		return DriverSQLite, true
	case strings.Contains(lower, "@tcp("), strings.Contains(lower, "@unix("):
		return DriverMySQL, true
	}
	return "", false
}

// EnsurePragmas appends SQLite pragmas to the DSN when missing.
// It is a no-op for in-memory databases.
func EnsurePragmas(dsn string, wal bool, busyTimeoutMS int) string {
	if dsn == "" {
		return dsn
	}
	lower := strings.ToLower(dsn)
	if dsn == ":memory:" || strings.HasPrefix(lower, "file::memory:") {
		return dsn
	}
	if wal && !strings.Contains(lower, "_pragma=journal_mode") {
		dsn = addPragma(dsn, "journal_mode(WAL)")
	}
	if busyTimeoutMS > 0 && !strings.Contains(lower, "_pragma=busy_timeout") {
		dsn = addPragma(dsn, fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	}
	return dsn
}

func addPragma(dsn, pragma string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=" + pragma
}

// mysqlDSN strips the mysql:// scheme the go-sql-driver does not understand.
func mysqlDSN(dsn string) string {
	if strings.HasPrefix(strings.ToLower(dsn), "mysql://") {
		return dsn[len("mysql://"):]
	}
	return dsn
}
