// Package clause provides the condition expressions accepted by the query
// builder. Expressions render to a SQL fragment with `?` placeholders; the
// session's dialect rewrites placeholders when the final statement is built.
package clause

import (
	"fmt"
	"strings"
)

// Columnar is anything that can name a result-set column.
type Columnar interface {
	ColumnName() string
}

// Column identifies a column, optionally qualified by table.
type Column struct {
	Table string
	Name  string
}

// Col is shorthand for an unqualified column.
func Col(name string) Column { return Column{Name: name} }

// ColumnName returns the column identifier, table-qualified when set.
func (c Column) ColumnName() string {
	if c.Table != "" {
		return c.Table + "." + c.Name
	}
	return c.Name
}

var _ Columnar = Column{}

// Expression is a SQL condition fragment.
type Expression interface {
	Build() (sql string, args []any, err error)
}

// cmp is a binary comparison against a single value.
type cmp struct {
	col Column
	op  string
	val any
}

func (c cmp) Build() (string, []any, error) {
	return c.col.ColumnName() + " " + c.op + " ?", []any{c.val}, nil
}

// Eq builds column = value.
func Eq(col Column, value any) Expression { return cmp{col, "=", value} }

// Neq builds column <> value.
func Neq(col Column, value any) Expression { return cmp{col, "<>", value} }

// Gt builds column > value.
func Gt(col Column, value any) Expression { return cmp{col, ">", value} }

// Gte builds column >= value.
func Gte(col Column, value any) Expression { return cmp{col, ">=", value} }

// Lt builds column < value.
func Lt(col Column, value any) Expression { return cmp{col, "<", value} }

// Lte builds column <= value.
func Lte(col Column, value any) Expression { return cmp{col, "<=", value} }

// Like builds column LIKE pattern.
func Like(col Column, pattern string) Expression { return cmp{col, "LIKE", pattern} }

// in is an IN comparison against a value list.
type in struct {
	col    Column
	values []any
}

func (i in) Build() (string, []any, error) {
	switch len(i.values) {
	case 0:
		// IN with an empty list matches nothing.
		return "1 = 0", nil, nil
	case 1:
		return i.col.ColumnName() + " = ?", []any{i.values[0]}, nil
	default:
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(i.values)), ", ")
		return fmt.Sprintf("%s IN (%s)", i.col.ColumnName(), placeholders), i.values, nil
	}
}

// In builds column IN (values...).
func In(col Column, values ...any) Expression { return in{col, values} }

// between is a closed range comparison.
type between struct {
	col      Column
	min, max any
}

func (b between) Build() (string, []any, error) {
	return b.col.ColumnName() + " BETWEEN ? AND ?", []any{b.min, b.max}, nil
}

// Between builds column BETWEEN min AND max.
func Between(col Column, min, max any) Expression { return between{col, min, max} }

// null is an IS NULL / IS NOT NULL check.
type null struct {
	col Column
	not bool
}

func (n null) Build() (string, []any, error) {
	if n.not {
		return n.col.ColumnName() + " IS NOT NULL", nil, nil
	}
	return n.col.ColumnName() + " IS NULL", nil, nil
}

// IsNull builds column IS NULL.
func IsNull(col Column) Expression { return null{col: col} }

// IsNotNull builds column IS NOT NULL.
func IsNotNull(col Column) Expression { return null{col: col, not: true} }

// And is the conjunction of its elements. An empty And is always true.
type And []Expression

func (a And) Build() (string, []any, error) {
	return buildJoined(a, " AND ", "1 = 1")
}

// Or is the disjunction of its elements. An empty Or is always false.
type Or []Expression

func (o Or) Build() (string, []any, error) {
	return buildJoined(o, " OR ", "1 = 0")
}

func buildJoined(exprs []Expression, sep, empty string) (string, []any, error) {
	if len(exprs) == 0 {
		return empty, nil, nil
	}

	parts := make([]string, 0, len(exprs))
	var args []any
	for _, expr := range exprs {
		sql, exprArgs, err := expr.Build()
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		args = append(args, exprArgs...)
	}
	return strings.Join(parts, sep), args, nil
}

// Not negates an expression.
type Not struct {
	Expr Expression
}

func (n Not) Build() (string, []any, error) {
	sql, args, err := n.Expr.Build()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}

// Raw is an escape hatch for fragments the typed expressions cannot build.
type Raw struct {
	SQL  string
	Args []any
}

func (r Raw) Build() (string, []any, error) {
	return r.SQL, r.Args, nil
}

// OrderBy describes a single ORDER BY term.
type OrderBy struct {
	Column Column
	Desc   bool
}

func (o OrderBy) Build() (string, []any, error) {
	if o.Desc {
		return o.Column.ColumnName() + " DESC", nil, nil
	}
	return o.Column.ColumnName(), nil, nil
}

// Asc builds an ascending ORDER BY term.
func Asc(col Column) OrderBy { return OrderBy{Column: col} }

// Desc builds a descending ORDER BY term.
func Desc(col Column) OrderBy { return OrderBy{Column: col, Desc: true} }
