package sqlrow

import (
	"database/sql"
	"math"
	"reflect"
	"time"

	"golang.org/x/exp/constraints"
)

// Get reads column from r and converts the value to T. A missing column is
// ErrMissingColumn; an incompatible value is ErrConversion. Generated schemas
// call this for every required field.
func Get[T any](r Row, column string) (T, error) {
	var zero T
	v, ok := r.Get(column)
	if !ok {
		return zero, missingColumnError(column)
	}
	return convertValue[T](v, column)
}

// GetDefault is like Get, but yields T's zero value when the column is absent
// or NULL. Generated schemas call this for fields tagged with "default".
func GetDefault[T any](r Row, column string) (T, error) {
	var zero T
	v, ok := r.Get(column)
	if !ok || v == nil {
		return zero, nil
	}
	return convertValue[T](v, column)
}

func convertValue[T any](v any, column string) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}
	var out T
	if err := convertAssign(reflect.ValueOf(&out).Elem(), v, column); err != nil {
		return out, err
	}
	return out, nil
}

// number widens the numeric representations drivers actually hand back.
// database/sql normalizes to int64/float64, but Row implementations backed by
// in-memory data may carry any Go numeric type.
func number[T constraints.Integer | constraints.Float](v any) (T, bool) {
	switch n := v.(type) {
	case int64:
		return T(n), true
	case float64:
		return T(n), true
	case int:
		return T(n), true
	case int32:
		return T(n), true
	case int16:
		return T(n), true
	case int8:
		return T(n), true
	case uint64:
		return T(n), true
	case uint32:
		return T(n), true
	case float32:
		return T(n), true
	}
	return 0, false
}

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// convertAssign stores src into the addressable destination dst, applying the
// conversion rules of the package. column is used for error context only.
func convertAssign(dst reflect.Value, src any, column string) error {
	// A destination implementing sql.Scanner owns its conversion, NULL
	// handling included.
	if dst.CanAddr() && dst.Addr().Type().Implements(scannerType) {
		if err := dst.Addr().Interface().(sql.Scanner).Scan(src); err != nil {
			return conversionCauseError(column, dst.Type(), err)
		}
		return nil
	}

	if src == nil {
		switch dst.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
			dst.SetZero()
			return nil
		}
		return conversionError(column, src, dst.Type())
	}

	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}

	if dst.Kind() == reflect.Pointer {
		elem := reflect.New(dst.Type().Elem())
		if err := convertAssign(elem.Elem(), src, column); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if sv.CanFloat() {
			// Refuse lossy float-to-int narrowing.
			return conversionError(column, src, dst.Type())
		}
		if sv.CanUint() {
			u := sv.Uint()
			if u > math.MaxInt64 || dst.OverflowInt(int64(u)) {
				return conversionError(column, src, dst.Type())
			}
			dst.SetInt(int64(u))
			return nil
		}
		if sv.CanInt() {
			n := sv.Int()
			if dst.OverflowInt(n) {
				return conversionError(column, src, dst.Type())
			}
			dst.SetInt(n)
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if sv.CanInt() && sv.Int() >= 0 {
			if dst.OverflowUint(uint64(sv.Int())) {
				return conversionError(column, src, dst.Type())
			}
			dst.SetUint(uint64(sv.Int()))
			return nil
		}
		if sv.CanUint() {
			if dst.OverflowUint(sv.Uint()) {
				return conversionError(column, src, dst.Type())
			}
			dst.SetUint(sv.Uint())
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if n, ok := number[float64](src); ok {
			dst.SetFloat(n)
			return nil
		}
		if sv.CanFloat() {
			dst.SetFloat(sv.Float())
			return nil
		}
		if sv.CanInt() {
			dst.SetFloat(float64(sv.Int()))
			return nil
		}
	case reflect.Bool:
		switch b := src.(type) {
		case bool:
			dst.SetBool(b)
			return nil
		case int64:
			// SQLite stores booleans as 0 or 1; anything else is not a bool.
			if b != 0 && b != 1 {
				return conversionError(column, src, dst.Type())
			}
			dst.SetBool(b == 1)
			return nil
		}
	case reflect.String:
		switch s := src.(type) {
		case string:
			dst.SetString(s)
			return nil
		case []byte:
			dst.SetString(string(s))
			return nil
		}
		if sv.Kind() == reflect.String {
			dst.SetString(sv.String())
			return nil
		}
	case reflect.Slice:
		if dst.Type().Elem().Kind() == reflect.Uint8 {
			switch b := src.(type) {
			case []byte:
				dst.SetBytes(append([]byte(nil), b...))
				return nil
			case string:
				dst.SetBytes([]byte(b))
				return nil
			}
		}
	case reflect.Struct:
		if t, ok := src.(time.Time); ok && reflect.TypeOf(t).ConvertibleTo(dst.Type()) {
			dst.Set(reflect.ValueOf(t).Convert(dst.Type()))
			return nil
		}
	}

	return conversionError(column, src, dst.Type())
}
