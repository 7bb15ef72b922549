package sqlrow_test

import (
	"strings"
	"testing"

	"github.com/arllen133/sqlrow"
)

type book struct {
	ID        int64
	Title     string `db:"title"`
	Author    string `db:"author"`
	Summary   string `db:"summary,default"`
	Draft     string `db:"-"`
	internal  string
	PageCount int
}

func TestColumnsOrderAndLength(t *testing.T) {
	cols, err := sqlrow.Columns[book]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"ID", "title", "author", "summary", "PageCount"}
	if len(cols) != len(want) {
		t.Fatalf("expected %d columns, got %d: %v", len(want), len(cols), cols)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("column %d: expected %q, got %q", i, want[i], cols[i])
		}
	}
}

func TestColumnsDefaultNaming(t *testing.T) {
	type plain struct {
		Name string
		Age  int
	}

	cols, err := sqlrow.Columns[plain]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols[0] != "Name" || cols[1] != "Age" {
		t.Errorf("expected [Name Age], got %v", cols)
	}
}

func TestColumnsDuplicate(t *testing.T) {
	type dup struct {
		A string `db:"name"`
		B string `db:"Name"`
	}

	_, err := sqlrow.Columns[dup]()
	if err == nil {
		t.Fatal("expected error for duplicate column mapping")
	}
	if !strings.Contains(err.Error(), "same column") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestColumnsNonStruct(t *testing.T) {
	if _, err := sqlrow.Columns[int](); err == nil {
		t.Fatal("expected error for non-struct record type")
	}
}

func TestColumnsUnknownTagOption(t *testing.T) {
	type bad struct {
		A string `db:"a,omitempty"`
	}

	if _, err := sqlrow.Columns[bad](); err == nil {
		t.Fatal("expected error for unknown db tag option")
	}
}

func TestSelectList(t *testing.T) {
	type row struct {
		ID   int64
		Name string `db:"name"`
	}

	tests := []struct {
		dialect sqlrow.Dialect
		want    string
	}{
		{sqlrow.SQLServer, `[ID],[name]`},
		{sqlrow.MySQL, "`ID`,`name`"},
		{sqlrow.PostgreSQL, `"ID","name"`},
		{sqlrow.SQLite, `"ID","name"`},
	}

	for _, tt := range tests {
		got, err := sqlrow.SelectList[row](tt.dialect)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.dialect.Name(), err)
		}
		if got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.dialect.Name(), tt.want, got)
		}
	}
}
