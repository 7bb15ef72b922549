package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

var schemaTemplate = template.Must(template.New("schema").Parse(`// Code generated by rowgen. DO NOT EDIT.

package {{.PackageName}}

import (
	"github.com/arllen133/sqlrow"
{{- range .Imports}}
	{{.}}
{{- end}}
)

// {{.SchemaName}} implements sqlrow.Schema[{{.Name}}] with typed per-field
// reads; no reflection happens at conversion time.
type {{.SchemaName}} struct{}

func ({{.SchemaName}}) Columns() []string {
	return []string{
{{- range .Fields}}
		{{printf "%q" .Column}},
{{- end}}
	}
}

func ({{.SchemaName}}) FromRow(row sqlrow.Row) (m {{.Name}}, err error) {
{{- range .Fields}}
	if m.{{.Name}}, err = sqlrow.{{if .Defaulted}}GetDefault{{else}}Get{{end}}[{{.Type}}](row, {{printf "%q" .Column}}); err != nil {
		return m, err
	}
{{- end}}
	return m, nil
}

func init() {
	sqlrow.RegisterSchema[{{.Name}}]({{.SchemaName}}{})
}
`))

// Generate renders the schema source for model.
func Generate(model Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := schemaTemplate.Execute(&buf, model); err != nil {
		return nil, fmt.Errorf("render %s: %w", model.Name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", model.Name, err)
	}
	return src, nil
}

// GenerateFile renders model's schema and writes it next to the models as
// <name>_row_gen.go.
func GenerateFile(model Model, dir string) error {
	src, err := Generate(model)
	if err != nil {
		return err
	}
	filename := filepath.Join(dir, toSnakeCase(model.Name)+"_row_gen.go")
	return os.WriteFile(filename, src, 0o644)
}

// toSnakeCase lowercases a type name with underscore word breaks. Acronym
// runs stay together: "HTTPLog" becomes "http_log".
func toSnakeCase(s string) string {
	var res strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r < 'A' || r > 'Z' {
			res.WriteRune(r)
			continue
		}
		prevLower := i > 0 && !isUpper(runes[i-1])
		nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
		if i > 0 && (prevLower || nextLower) {
			res.WriteRune('_')
		}
		res.WriteRune(r + ('a' - 'A'))
	}
	return res.String()
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
