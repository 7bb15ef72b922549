package generator

import (
	"os"
	"path/filepath"
	"testing"
)

func writeModelPackage(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/models\n\ngo 1.21\n"), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestParseModels(t *testing.T) {
	dir := writeModelPackage(t, map[string]string{
		"user.go": `package models

import "time"

type User struct {
	ID        int64
	Name      string    ` + "`db:\"name\"`" + `
	CreatedAt time.Time ` + "`db:\"created_at\"`" + `
	Bio       string    ` + "`db:\"bio,default\"`" + `
	Password  string    ` + "`db:\"-\"`" + `
	internal  int
}
`,
	})

	models, err := ParseModels(dir)
	if err != nil {
		t.Fatalf("ParseModels failed: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}

	m := models[0]
	if m.PackageName != "models" || m.Name != "User" || m.SchemaName != "userRowSchema" {
		t.Errorf("unexpected model identity: %+v", m)
	}

	want := []Field{
		{Name: "ID", Column: "ID", Type: "int64"},
		{Name: "Name", Column: "name", Type: "string"},
		{Name: "CreatedAt", Column: "created_at", Type: "time.Time"},
		{Name: "Bio", Column: "bio", Type: "string", Defaulted: true},
	}
	if len(m.Fields) != len(want) {
		t.Fatalf("expected %d fields, got %d: %+v", len(want), len(m.Fields), m.Fields)
	}
	for i, f := range want {
		if m.Fields[i] != f {
			t.Errorf("field %d: expected %+v, got %+v", i, f, m.Fields[i])
		}
	}

	if len(m.Imports) != 1 || m.Imports[0] != `"time"` {
		t.Errorf("expected imports [\"time\"], got %v", m.Imports)
	}
}

func TestParseModelsSkipsGeneratedFiles(t *testing.T) {
	dir := writeModelPackage(t, map[string]string{
		"user.go": `package models

type User struct {
	ID int64
}
`,
		"user_row_gen.go": `package models

// A stale generated type must not be re-collected.
type Leftover struct {
	ID int64
}
`,
	})

	models, err := ParseModels(dir)
	if err != nil {
		t.Fatalf("ParseModels failed: %v", err)
	}
	if len(models) != 1 || models[0].Name != "User" {
		t.Errorf("expected only User, got %+v", models)
	}
}

func TestParseModelsUnexportedAndEmpty(t *testing.T) {
	dir := writeModelPackage(t, map[string]string{
		"misc.go": `package models

type draft struct {
	ID int64
}

type Marker struct{}

type Order struct {
	ID int64
}
`,
	})

	models, err := ParseModels(dir)
	if err != nil {
		t.Fatalf("ParseModels failed: %v", err)
	}
	if len(models) != 1 || models[0].Name != "Order" {
		t.Errorf("expected only Order, got %+v", models)
	}
}

func TestParseModelsImportResolution(t *testing.T) {
	dir := writeModelPackage(t, map[string]string{
		"device.go": `package models

import (
	"database/sql"

	"github.com/google/uuid"
)

type Device struct {
	Token uuid.UUID      ` + "`db:\"token\"`" + `
	Seen  sql.NullTime   ` + "`db:\"seen\"`" + `
	Tags  []string       ` + "`db:\"tags,default\"`" + `
}
`,
	})

	models, err := ParseModels(dir)
	if err != nil {
		t.Fatalf("ParseModels failed: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}

	wantImports := []string{`"database/sql"`, `"github.com/google/uuid"`}
	if len(models[0].Imports) != len(wantImports) {
		t.Fatalf("expected imports %v, got %v", wantImports, models[0].Imports)
	}
	for i, imp := range wantImports {
		if models[0].Imports[i] != imp {
			t.Errorf("import %d: expected %s, got %s", i, imp, models[0].Imports[i])
		}
	}
}

func TestSelectorPrefixes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"int64", nil},
		{"*time.Time", []string{"time"}},
		{"map[string]json.RawMessage", []string{"json"}},
		{"[]uuid.UUID", []string{"uuid"}},
	}
	for _, tt := range tests {
		got := selectorPrefixes(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.in, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: expected %v, got %v", tt.in, tt.want, got)
			}
		}
	}
}
