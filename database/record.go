package database

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"gorm.io/gorm/schema"

	"github.com/camden-git/legacymappings/legacy"
)

// ErrInvalidValue is returned when a value cannot be stored in its column.
var ErrInvalidValue = errors.New("invalid attribute value")

// Record exposes one model value through the host attribute primitives,
// addressed by real column name.
type Record struct {
	ctx   context.Context
	model *Model
	value reflect.Value
}

var _ legacy.Attributes = (*Record)(nil)

func (r *Record) field(name string) (*schema.Field, error) {
	f := r.model.Schema.LookUpField(name)
	if f == nil || f.DBName != name {
		return nil, fmt.Errorf("%w: %s.%s", legacy.ErrUnknownAttribute, r.model.Schema.Table, name)
	}
	return f, nil
}

func (r *Record) ReadAttribute(name string) (any, error) {
	f, err := r.field(name)
	if err != nil {
		return nil, err
	}
	v, _ := f.ValueOf(r.ctx, r.value)
	return v, nil
}

func (r *Record) WriteAttribute(name string, value any) error {
	f, err := r.field(name)
	if err != nil {
		return err
	}
	v, err := coerce(f, value)
	if err == nil {
		err = f.Set(r.ctx, r.value, v)
	}
	if err != nil {
		return fmt.Errorf("%w: %s.%s: %v", ErrInvalidValue, r.model.Schema.Table, name, err)
	}
	return nil
}

// coerce converts numeric values to the column's numeric type, so values
// decoded from JSON as float64 can be written to integer columns. Floats
// with a fractional part are rejected for integer columns.
func coerce(f *schema.Field, value any) (any, error) {
	if value == nil || f.IndirectFieldType == nil {
		return value, nil
	}
	rv := reflect.ValueOf(value)
	target := f.IndirectFieldType
	if rv.Type() == target || rv.Type() == f.FieldType {
		return value, nil
	}
	if !isNumeric(rv.Kind()) || !isNumeric(target.Kind()) {
		return value, nil
	}
	if isFloat(rv.Kind()) && !isFloat(target.Kind()) {
		if fl := rv.Float(); fl != math.Trunc(fl) {
			return nil, fmt.Errorf("%v is not an integer", fl)
		}
	}
	return rv.Convert(target).Interface(), nil
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// QueryAttribute reports whether the column holds a present value: not nil,
// not zero and not a blank string.
func (r *Record) QueryAttribute(name string) (bool, error) {
	f, err := r.field(name)
	if err != nil {
		return false, err
	}
	v, zero := f.ValueOf(r.ctx, r.value)
	if zero {
		return false, nil
	}
	return isPresent(v), nil
}

func isPresent(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return false
	}
	if rv.Kind() == reflect.String {
		return strings.TrimSpace(rv.String()) != ""
	}
	return !rv.IsZero()
}

// Get reads an attribute by alias or column name. Names outside the
// generated method table fall back to the column itself.
func (r *Record) Get(name string) (any, error) {
	if _, ok := r.model.Resolver.MethodColumn(name); !ok {
		return r.ReadAttribute(name)
	}
	return r.model.Resolver.Send(r.model.Accessors, r, name)
}

// Set writes an attribute by alias or column name.
func (r *Record) Set(name string, value any) error {
	if _, ok := r.model.Resolver.MethodColumn(name); !ok {
		return r.WriteAttribute(name, value)
	}
	_, err := r.model.Resolver.Send(r.model.Accessors, r, name+"=", value)
	return err
}

// Query reports attribute presence by alias or column name.
func (r *Record) Query(name string) (bool, error) {
	if _, ok := r.model.Resolver.MethodColumn(name); !ok {
		return r.QueryAttribute(name)
	}
	v, err := r.model.Resolver.Send(r.model.Accessors, r, name+"?")
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Public returns the record's values keyed by public column name.
func (r *Record) Public() (map[string]any, error) {
	out := make(map[string]any, len(r.model.Resolver.Fields()))
	for _, f := range r.model.Resolver.Fields() {
		v, err := r.ReadAttribute(f)
		if err != nil {
			return nil, err
		}
		out[r.model.Resolver.PublicName(f)] = v
	}
	return out, nil
}

// ColumnForAttribute returns column metadata by alias or column name.
func (r *Record) ColumnForAttribute(name string) *schema.Field {
	return r.model.Resolver.ColumnFor(r.model.Schema, name)
}
