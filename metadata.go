package sqlrow

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// fieldInfo describes one mapped struct field.
type fieldInfo struct {
	Name      string // Go field name
	Column    string // column identifier
	Index     int    // struct field index
	Defaulted bool   // zero value instead of error when column absent or NULL
	Type      reflect.Type
}

// typeInfo is the cached mapping metadata for one record type.
type typeInfo struct {
	Type    reflect.Type
	Fields  []fieldInfo
	Columns []string // derived column identifiers, declaration order
}

var (
	infoMutex sync.RWMutex
	infoCache = make(map[reflect.Type]*typeInfo)
)

// typeInfoOf returns the mapping metadata for t, generating and caching it on
// first use.
func typeInfoOf(t reflect.Type) (*typeInfo, error) {
	infoMutex.RLock()
	info, ok := infoCache[t]
	infoMutex.RUnlock()
	if ok {
		return info, nil
	}

	info, err := generateTypeInfo(t)
	if err != nil {
		return nil, err
	}

	infoMutex.Lock()
	infoCache[t] = info
	infoMutex.Unlock()
	return info, nil
}

func generateTypeInfo(t reflect.Type) (*typeInfo, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("sqlrow: cannot map %s: record type must be a struct", t)
	}

	info := &typeInfo{Type: t}
	seen := make(map[string]string) // folded column -> field name

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}

		column, defaulted, skip, err := parseTag(field.Tag.Get("db"))
		if err != nil {
			return nil, fmt.Errorf("sqlrow: field %s.%s: %w", t.Name(), field.Name, err)
		}
		if skip {
			continue
		}
		if column == "" {
			// Default identifier is the exported field name.
			column = field.Name
		}

		folded := strings.ToLower(column)
		if prev, dup := seen[folded]; dup {
			return nil, fmt.Errorf("sqlrow: type %s: fields %s and %s map to the same column %q", t.Name(), prev, field.Name, column)
		}
		seen[folded] = field.Name

		info.Fields = append(info.Fields, fieldInfo{
			Name:      field.Name,
			Column:    column,
			Index:     i,
			Defaulted: defaulted,
			Type:      field.Type,
		})
		info.Columns = append(info.Columns, column)
	}

	return info, nil
}

// parseTag parses a `db` struct tag. Grammar:
//
//	db:"column"          explicit column identifier
//	db:",default"        default column name, zero value on missing/NULL
//	db:"column,default"  both
//	db:"-"               field is not part of the result-set contract
func parseTag(tag string) (column string, defaulted, skip bool, err error) {
	if tag == "" {
		return "", false, false, nil
	}
	if tag == "-" {
		return "", false, true, nil
	}

	parts := strings.Split(tag, ",")
	column = parts[0]
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "default":
			defaulted = true
		case "":
		default:
			return "", false, false, fmt.Errorf("unknown option %q in db tag", opt)
		}
	}
	return column, defaulted, false, nil
}
