package generator

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arllen133/sqlrow/gen"
)

// GenConfig holds parsed configuration from config.go
type GenConfig struct {
	OutPath        string
	IncludeStructs []string
	ExcludeStructs []string
}

// ParseConfig parses config.go in the given directory for a gen.Config
// declaration. A missing config.go is not an error; defaults apply.
func ParseConfig(dir string) (*GenConfig, error) {
	configFile := filepath.Join(dir, gen.ConfigFileName)
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, configFile, nil, parser.ParseComments)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		// An existing config.go that does not parse must not silently drop
		// the Include/Exclude filters.
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}

	cfg := &GenConfig{}

	// Look for var _ = gen.Config{...}
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok || len(valueSpec.Values) == 0 {
				continue
			}

			compLit, ok := valueSpec.Values[0].(*ast.CompositeLit)
			if !ok {
				continue
			}

			typeName := ""
			if sel, ok := compLit.Type.(*ast.SelectorExpr); ok {
				if ident, ok := sel.X.(*ast.Ident); ok {
					typeName = ident.Name + "." + sel.Sel.Name
				}
			} else if ident, ok := compLit.Type.(*ast.Ident); ok {
				typeName = ident.Name
			}
			if typeName != "gen.Config" && typeName != "Config" {
				continue
			}

			for _, elt := range compLit.Elts {
				kv, ok := elt.(*ast.KeyValueExpr)
				if !ok {
					continue
				}
				key, ok := kv.Key.(*ast.Ident)
				if !ok {
					continue
				}
				switch key.Name {
				case "OutPath":
					if lit, ok := kv.Value.(*ast.BasicLit); ok && lit.Kind == token.STRING {
						cfg.OutPath = strings.Trim(lit.Value, "\"")
					}
				case "IncludeStructs":
					cfg.IncludeStructs = parseStructList(kv.Value)
				case "ExcludeStructs":
					cfg.ExcludeStructs = parseStructList(kv.Value)
				}
			}
			return cfg, nil
		}
	}

	return cfg, nil
}

// parseStructList extracts struct names from []any{...} elements: string
// literals, type literals like models.User{}, or pointers to them.
func parseStructList(expr ast.Expr) []string {
	var result []string
	compLit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return result
	}

	for _, elt := range compLit.Elts {
		switch v := elt.(type) {
		case *ast.BasicLit:
			if v.Kind == token.STRING {
				result = append(result, strings.Trim(v.Value, "\""))
			}
		case *ast.CompositeLit:
			if name := litTypeName(v); name != "" {
				result = append(result, name)
			}
		case *ast.UnaryExpr:
			if comp, ok := v.X.(*ast.CompositeLit); ok {
				if name := litTypeName(comp); name != "" {
					result = append(result, name)
				}
			}
		}
	}
	return result
}

func litTypeName(lit *ast.CompositeLit) string {
	if sel, ok := lit.Type.(*ast.SelectorExpr); ok {
		return sel.Sel.Name
	}
	if ident, ok := lit.Type.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}
