package sqlrow

import (
	"reflect"
	"sync"
)

// Schema exposes the two capabilities a record type carries: its derived
// column list and the conversion from a Row to an instance.
//
// rowgen emits Schema implementations with direct, typed per-field reads and
// registers them in an init func. Types without a generated schema fall back
// to the reflection mapper; both paths agree on naming, ordering, defaults,
// and errors.
type Schema[T any] interface {
	// Columns returns the column identifiers for T's fields, one per mapped
	// field, in declaration order.
	Columns() []string

	// FromRow constructs a T from a row accessor.
	FromRow(row Row) (T, error)
}

var (
	schemaMutex sync.RWMutex
	schemas     = make(map[reflect.Type]any)
)

// RegisterSchema installs a generated schema for T, replacing the reflection
// fallback. Called from generated init funcs.
func RegisterSchema[T any](schema Schema[T]) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	schemaMutex.Lock()
	schemas[t] = schema
	schemaMutex.Unlock()
}

// Resolve returns the schema for T: the registered generated one if present,
// otherwise a reflection-backed schema. It fails if T is not a mappable
// record type.
func Resolve[T any]() (Schema[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	schemaMutex.RLock()
	s, ok := schemas[t]
	schemaMutex.RUnlock()
	if ok {
		return s.(Schema[T]), nil
	}

	info, err := typeInfoOf(t)
	if err != nil {
		return nil, err
	}
	return reflectSchema[T]{info: info}, nil
}

// reflectSchema is the call-time fallback: same mapping semantics as generated
// code, computed from cached reflection metadata.
type reflectSchema[T any] struct {
	info *typeInfo
}

func (s reflectSchema[T]) Columns() []string {
	// Callers may append; keep the cache immutable.
	cols := make([]string, len(s.info.Columns))
	copy(cols, s.info.Columns)
	return cols
}

func (s reflectSchema[T]) FromRow(row Row) (T, error) {
	var record T
	rv := reflect.ValueOf(&record).Elem()

	for _, f := range s.info.Fields {
		v, ok := row.Get(f.Column)
		if !ok {
			if f.Defaulted {
				continue
			}
			return record, missingColumnError(f.Column)
		}
		if v == nil && f.Defaulted {
			continue
		}
		if err := convertAssign(rv.Field(f.Index), v, f.Column); err != nil {
			return record, err
		}
	}
	return record, nil
}
