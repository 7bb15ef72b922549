// Package generator parses model packages and emits row schema code.
//
// The parser walks the syntax trees of a loaded package and collects every
// exported struct whose fields map to result-set columns. The tag grammar
// mirrors the sqlrow runtime exactly: `db:"column"` overrides the identifier,
// the `default` option marks default-on-missing fields, and `db:"-"` excludes
// a field from the contract.
package generator

import (
	"fmt"
	"go/ast"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Model describes one record type to generate a schema for.
type Model struct {
	PackageName string // package the model (and generated file) lives in
	Name        string // struct name, e.g. "User"
	SchemaName  string // generated schema type, e.g. "userRowSchema"
	Fields      []Field
	Imports     []string // import paths the field types need, quoted
}

// Field describes one mapped struct field.
type Field struct {
	Name      string // Go field name
	Column    string // column identifier
	Type      string // Go type literal, e.g. "*time.Time"
	Defaulted bool   // GetDefault instead of Get
}

// wellKnownImports maps selector prefixes to import paths when the model file
// itself does not import them under that name.
var wellKnownImports = map[string]string{
	"time": "time",
	"sql":  "database/sql",
	"json": "encoding/json",
}

// ParseModels loads the package rooted at dir and returns a Model for every
// exported struct with at least one mapped field. Generated files are
// skipped so repeated runs converge.
func ParseModels(dir string) ([]Model, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}

	var models []Model
	var firstErr error
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			filename := pkg.Fset.Position(file.Pos()).Filename
			if strings.HasSuffix(filename, "_row_gen.go") {
				continue
			}

			fileImports := importMap(file)

			ast.Inspect(file, func(n ast.Node) bool {
				ts, ok := n.(*ast.TypeSpec)
				if !ok || !ts.Name.IsExported() {
					return true
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					return true
				}

				model, err := parseStruct(pkg.Name, ts.Name.Name, st, fileImports)
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return true
				}
				if model == nil {
					return true
				}
				models = append(models, *model)
				return true
			})
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return models, nil
}

func parseStruct(pkgName, name string, st *ast.StructType, fileImports map[string]string) (*Model, error) {
	model := &Model{
		PackageName: pkgName,
		Name:        name,
		SchemaName:  strings.ToLower(name[:1]) + name[1:] + "RowSchema",
	}

	needed := make(map[string]bool)
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			continue // embedded fields are outside the contract
		}
		fieldName := field.Names[0].Name
		if !ast.IsExported(fieldName) {
			continue
		}

		column := fieldName
		defaulted := false
		if field.Tag != nil {
			tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`")).Get("db")
			if tag == "-" {
				continue
			}
			if tag != "" {
				parts := strings.Split(tag, ",")
				if parts[0] != "" {
					column = parts[0]
				}
				for _, opt := range parts[1:] {
					if strings.TrimSpace(opt) == "default" {
						defaulted = true
					}
				}
			}
		}

		typeStr := exprToString(field.Type)
		if typeStr == "" {
			return nil, fmt.Errorf("field %s.%s: unsupported type expression", name, fieldName)
		}
		for _, sel := range selectorPrefixes(typeStr) {
			needed[sel] = true
		}

		model.Fields = append(model.Fields, Field{
			Name:      fieldName,
			Column:    column,
			Type:      typeStr,
			Defaulted: defaulted,
		})
	}

	if len(model.Fields) == 0 {
		return nil, nil
	}

	for sel := range needed {
		path, ok := fileImports[sel]
		if !ok {
			path, ok = wellKnownImports[sel]
		}
		if !ok {
			return nil, fmt.Errorf("struct %s: cannot resolve import for package %q", name, sel)
		}
		model.Imports = append(model.Imports, fmt.Sprintf("%q", path))
	}
	sort.Strings(model.Imports)

	return model, nil
}

// importMap resolves local import names to paths for one file.
func importMap(file *ast.File) map[string]string {
	m := make(map[string]string)
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		name := path
		if i := strings.LastIndex(path, "/"); i >= 0 {
			name = path[i+1:]
		}
		if imp.Name != nil {
			name = imp.Name.Name
		}
		m[name] = path
	}
	return m
}

// selectorPrefixes extracts the package selectors used in a type literal,
// e.g. "*time.Time" -> ["time"], "map[string]json.RawMessage" -> ["json"].
func selectorPrefixes(typeStr string) []string {
	var out []string
	rest := typeStr
	for {
		dot := strings.IndexByte(rest, '.')
		if dot < 0 {
			return out
		}
		start := dot
		for start > 0 && isIdentByte(rest[start-1]) {
			start--
		}
		if start < dot {
			out = append(out, rest[start:dot])
		}
		rest = rest[dot+1:]
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// exprToString converts an AST type expression to its source representation.
func exprToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name
		}
	case *ast.StarExpr:
		if inner := exprToString(t.X); inner != "" {
			return "*" + inner
		}
	case *ast.ArrayType:
		if t.Len == nil {
			if inner := exprToString(t.Elt); inner != "" {
				return "[]" + inner
			}
		}
	case *ast.MapType:
		k, v := exprToString(t.Key), exprToString(t.Value)
		if k != "" && v != "" {
			return "map[" + k + "]" + v
		}
	}
	return ""
}
