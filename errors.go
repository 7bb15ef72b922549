package sqlrow

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrMissingColumn indicates that a required field had no matching column in
// the result set. Fields tagged with the "default" option are exempt; they
// take their zero value instead.
var ErrMissingColumn = errors.New("sqlrow: missing column")

// ErrConversion indicates that a column value could not be converted to the
// declared field type.
var ErrConversion = errors.New("sqlrow: conversion failure")

// ErrNotFound indicates that First() matched no row.
var ErrNotFound = errors.New("sqlrow: record not found")

func missingColumnError(column string) error {
	return fmt.Errorf("read %q failed: %w", column, ErrMissingColumn)
}

func conversionError(column string, src any, dst reflect.Type) error {
	return fmt.Errorf("read %q failed: cannot convert %T to %s: %w", column, src, dst, ErrConversion)
}

func conversionCauseError(column string, dst reflect.Type, cause error) error {
	return fmt.Errorf("read %q failed: scan into %s: %v: %w", column, dst, cause, ErrConversion)
}
