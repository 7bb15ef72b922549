package sqlrow

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Dialect abstracts the two database-specific concerns this package touches:
// how identifiers are quoted in a SELECT list and which placeholder format
// parameterized statements use. Everything else belongs to the database
// client this package plugs into.
type Dialect interface {
	// Name returns the driver name, as passed to sqlx.NewDb.
	Name() string

	// PlaceholderFormat returns the squirrel placeholder format for the
	// database (? vs $1 vs @p1).
	PlaceholderFormat() sq.PlaceholderFormat

	// QuoteIdentifier quotes a single column or table identifier.
	QuoteIdentifier(name string) string
}

var (
	SQLServer  Dialect = sqlServerDialect{}
	MySQL      Dialect = mySQLDialect{}
	PostgreSQL Dialect = postgreSQLDialect{}
	SQLite     Dialect = sqliteDialect{}
)

// sqlServerDialect quotes with brackets: field Name renders as [Name].
type sqlServerDialect struct{}

func (sqlServerDialect) Name() string { return "sqlserver" }

func (sqlServerDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.AtP }

func (sqlServerDialect) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

type mySQLDialect struct{}

func (mySQLDialect) Name() string { return "mysql" }

func (mySQLDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }

func (mySQLDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

type postgreSQLDialect struct{}

func (postgreSQLDialect) Name() string { return "postgres" }

func (postgreSQLDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Dollar }

func (postgreSQLDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite3" }

func (sqliteDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }

func (sqliteDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteAll quotes every identifier with d.
func quoteAll(d Dialect, names []string) []string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = d.QuoteIdentifier(name)
	}
	return quoted
}
