// Package sqlrow maps record types (structs) to SQL result-set columns.
//
// A record type declares its column mapping with `db` struct tags; the
// package derives an ordered column list for SELECT clauses and builds
// instances from returned rows:
//
//	type User struct {
//	    ID   int64
//	    Name string `db:"name"`
//	    Bio  string `db:"bio,default"` // zero value when the column is absent
//	}
//
//	cols, _ := sqlrow.SelectList[User](sqlrow.SQLServer) // "[ID],[name],[bio]"
//	user, err := sqlrow.FromRow[User](row)
//
// The mapping exists twice, with identical semantics: cmd/rowgen generates a
// Schema implementation with typed per-field reads at build time, and a
// reflection fallback covers types without generated code. The thin query
// layer (Session, Query) wires the column list and conversion into a
// database/sql client via sqlx and squirrel; it is deliberately read-only.
package sqlrow

import "strings"

// Columns returns the derived column identifiers for T, one per mapped field,
// preserving declaration order.
func Columns[T any]() ([]string, error) {
	schema, err := Resolve[T]()
	if err != nil {
		return nil, err
	}
	return schema.Columns(), nil
}

// SelectList renders T's column list for a SELECT clause, quoted by the
// dialect and comma-joined.
func SelectList[T any](d Dialect) (string, error) {
	cols, err := Columns[T]()
	if err != nil {
		return "", err
	}
	return strings.Join(quoteAll(d, cols), ","), nil
}

// FromRow builds a T from row using T's schema: for each field, the column is
// looked up by identifier and converted to the field type. Missing required
// columns yield ErrMissingColumn; incompatible values yield ErrConversion;
// fields tagged "default" absorb absent or NULL columns as zero values.
func FromRow[T any](row Row) (T, error) {
	schema, err := Resolve[T]()
	if err != nil {
		var zero T
		return zero, err
	}
	return schema.FromRow(row)
}
