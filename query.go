package sqlrow

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/arllen133/sqlrow/clause"
)

// Query builds and executes a SELECT for record type T. The column list comes
// from T's schema; returned rows are converted with the same schema. Only the
// read path is covered; writes belong to the database client this package
// plugs into.
type Query[T any] struct {
	session *Session
	schema  Schema[T]

	table  string
	wheres []clause.Expression
	orders []clause.OrderBy

	limit     uint64
	offset    uint64
	hasLimit  bool
	hasOffset bool

	// err defers schema resolution failures to the terminal methods.
	err error
}

// NewQuery creates a query for T on the given session.
func NewQuery[T any](session *Session) *Query[T] {
	q := &Query[T]{session: session}
	q.schema, q.err = Resolve[T]()
	return q
}

// From sets the table (or subquery alias) the SELECT reads from.
func (q *Query[T]) From(table string) *Query[T] {
	q.table = table
	return q
}

// Where appends filter conditions, combined with AND.
func (q *Query[T]) Where(conds ...clause.Expression) *Query[T] {
	q.wheres = append(q.wheres, conds...)
	return q
}

// OrderBy appends ORDER BY terms.
func (q *Query[T]) OrderBy(orders ...clause.OrderBy) *Query[T] {
	q.orders = append(q.orders, orders...)
	return q
}

// Limit sets the maximum number of rows to return.
func (q *Query[T]) Limit(n uint64) *Query[T] {
	q.limit, q.hasLimit = n, true
	return q
}

// Offset sets the number of rows to skip.
func (q *Query[T]) Offset(n uint64) *Query[T] {
	q.offset, q.hasOffset = n, true
	return q
}

func (q *Query[T]) build(columns ...string) (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	if q.table == "" {
		return "", nil, errors.New("sqlrow: query has no table, call From first")
	}

	dialect := q.session.dialect
	if len(columns) == 0 {
		columns = quoteAll(dialect, q.schema.Columns())
	}

	builder := sq.Select(columns...).From(dialect.QuoteIdentifier(q.table))
	for _, cond := range q.wheres {
		sql, args, err := cond.Build()
		if err != nil {
			return "", nil, err
		}
		builder = builder.Where(sq.Expr(sql, args...))
	}
	for _, order := range q.orders {
		sql, _, err := order.Build()
		if err != nil {
			return "", nil, err
		}
		builder = builder.OrderBy(sql)
	}
	if q.hasLimit {
		builder = builder.Limit(q.limit)
	}
	if q.hasOffset {
		builder = builder.Offset(q.offset)
	}

	return builder.PlaceholderFormat(dialect.PlaceholderFormat()).ToSql()
}

// Find executes the query and converts every returned row to a T.
func (q *Query[T]) Find(ctx context.Context) (records []T, err error) {
	query, args, err := q.build()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, span := q.session.startSpan(ctx, "sqlrow.Find", trace.WithSpanKind(trace.SpanKindClient))
	defer func() { q.finish(ctx, span, "select", query, start, err) }()

	rows, err := q.session.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		row, scanErr := ScanRow(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		record, convErr := q.schema.FromRow(row)
		if convErr != nil {
			err = convErr
			return nil, err
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// First executes the query with LIMIT 1 and returns the single record, or
// ErrNotFound when nothing matched.
func (q *Query[T]) First(ctx context.Context) (*T, error) {
	records, err := q.Limit(1).Find(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

// Count executes SELECT COUNT(*) with the query's conditions.
func (q *Query[T]) Count(ctx context.Context) (count int64, err error) {
	query, args, err := q.build("COUNT(*)")
	if err != nil {
		return 0, err
	}

	start := time.Now()
	ctx, span := q.session.startSpan(ctx, "sqlrow.Count", trace.WithSpanKind(trace.SpanKindClient))
	defer func() { q.finish(ctx, span, "count", query, start, err) }()

	err = q.session.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (q *Query[T]) finish(ctx context.Context, span spanWrapper, operation, query string, start time.Time, err error) {
	duration := time.Since(start)

	span.SetAttributes(
		attribute.String("db.system", q.session.dialect.Name()),
		attribute.String("db.operation", operation),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	q.session.recordMetrics(ctx, operation, duration, err)
	q.session.logQuery(ctx, operation, query, duration, err)
}
