package sqlrow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/arllen133/sqlrow"
)

type article struct {
	ID        int64
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	Tags      string    `db:"tags,default"`
	Views     *int64    `db:"views"`
	CreatedAt time.Time `db:"created_at"`
}

func TestFromRowRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	views := int64(10)

	record, err := sqlrow.FromRow[article](sqlrow.MapRow{
		"ID":         int64(3),
		"title":      "on rows",
		"body":       "text",
		"tags":       "sql,go",
		"views":      views,
		"created_at": now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID != 3 || record.Title != "on rows" || record.Body != "text" || record.Tags != "sql,go" {
		t.Errorf("fields not reproduced: %+v", record)
	}
	if record.Views == nil || *record.Views != 10 {
		t.Errorf("expected views 10, got %v", record.Views)
	}
	if !record.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, record.CreatedAt)
	}
}

func TestFromRowDefaultOnMissing(t *testing.T) {
	record, err := sqlrow.FromRow[article](sqlrow.MapRow{
		"ID":         int64(1),
		"title":      "t",
		"body":       "b",
		"views":      nil,
		"created_at": time.Now(),
		// "tags" column omitted entirely
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Tags != "" {
		t.Errorf("expected zero value for tags, got %q", record.Tags)
	}
	if record.Views != nil {
		t.Errorf("expected nil views for NULL column, got %v", record.Views)
	}
}

func TestFromRowDefaultOnNull(t *testing.T) {
	record, err := sqlrow.FromRow[article](sqlrow.MapRow{
		"ID":         int64(1),
		"title":      "t",
		"body":       "b",
		"tags":       nil, // present but NULL
		"views":      int64(1),
		"created_at": time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Tags != "" {
		t.Errorf("expected zero value for NULL tags, got %q", record.Tags)
	}
}

func TestFromRowMissingRequired(t *testing.T) {
	_, err := sqlrow.FromRow[article](sqlrow.MapRow{
		"ID":    int64(1),
		"title": "t",
		// "body" missing
		"views":      int64(1),
		"created_at": time.Now(),
	})
	if !errors.Is(err, sqlrow.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestFromRowConversionFailure(t *testing.T) {
	_, err := sqlrow.FromRow[article](sqlrow.MapRow{
		"ID":         "not an id",
		"title":      "t",
		"body":       "b",
		"views":      int64(1),
		"created_at": time.Now(),
	})
	if !errors.Is(err, sqlrow.ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
}

func TestFromRowCaseInsensitiveLookup(t *testing.T) {
	// Drivers commonly lowercase column names.
	record, err := sqlrow.FromRow[article](sqlrow.MapRow{
		"id":         int64(5),
		"TITLE":      "t",
		"body":       "b",
		"views":      int64(1),
		"created_at": time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != 5 || record.Title != "t" {
		t.Errorf("case-insensitive lookup failed: %+v", record)
	}
}

// registered is mapped by a hand-written schema instead of reflection.
type registered struct {
	Value string
}

type registeredSchema struct{}

func (registeredSchema) Columns() []string { return []string{"v"} }

func (registeredSchema) FromRow(row sqlrow.Row) (registered, error) {
	v, err := sqlrow.Get[string](row, "v")
	return registered{Value: v + "!"}, err
}

func init() {
	sqlrow.RegisterSchema[registered](registeredSchema{})
}

func TestRegisteredSchemaTakesPrecedence(t *testing.T) {
	cols, err := sqlrow.Columns[registered]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cols) != 1 || cols[0] != "v" {
		t.Errorf("expected registered columns [v], got %v", cols)
	}

	record, err := sqlrow.FromRow[registered](sqlrow.MapRow{"v": "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Value != "hi!" {
		t.Errorf("registered schema not used, got %+v", record)
	}
}
