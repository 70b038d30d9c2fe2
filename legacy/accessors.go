package legacy

import (
	"fmt"
	"strings"
)

// Attributes is the host's generic attribute primitives for one record.
type Attributes interface {
	ReadAttribute(field string) (any, error)
	WriteAttribute(field string, value any) error
	QueryAttribute(field string) (bool, error)
}

// Accessor is the reader, writer and query installed under an alias.
type Accessor struct {
	Field string
	Get   func(rec Attributes) (any, error)
	Set   func(rec Attributes, value any) error
	Query func(rec Attributes) (bool, error)
}

// Accessors is keyed by alias name.
type Accessors map[string]Accessor

// DefineAccessors builds an accessor for every aliased field except the
// primary key. Unaliased fields are served by the host's own accessors.
func (r *Resolver) DefineAccessors() Accessors {
	accessors := make(Accessors, len(r.aliases))
	for _, f := range r.fields {
		if f == r.primaryKey {
			continue
		}
		alias, ok := r.aliases[f]
		if !ok {
			continue
		}
		field := f
		accessors[alias] = Accessor{
			Field: field,
			Get: func(rec Attributes) (any, error) {
				return rec.ReadAttribute(field)
			},
			Set: func(rec Attributes, value any) error {
				return rec.WriteAttribute(field, value)
			},
			Query: func(rec Attributes) (bool, error) {
				return rec.QueryAttribute(field)
			},
		}
	}
	return accessors
}

// Send dispatches a generated method name against rec. A bare name or its
// before-type-cast form reads, "name=" writes args[0] and "name?" queries.
// Aliased names go through the accessor table, all other known names through
// rec's primitives directly.
func (r *Resolver) Send(accessors Accessors, rec Attributes, method string, args ...any) (any, error) {
	field, ok := r.methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, method)
	}

	name, kind := splitMethod(method)
	acc, aliased := accessors[name]
	if !aliased {
		acc = Accessor{
			Field: field,
			Get:   func(rec Attributes) (any, error) { return rec.ReadAttribute(field) },
			Set:   func(rec Attributes, value any) error { return rec.WriteAttribute(field, value) },
			Query: func(rec Attributes) (bool, error) { return rec.QueryAttribute(field) },
		}
	}

	switch kind {
	case writerSuffix:
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", method, len(args))
		}
		return nil, acc.Set(rec, args[0])
	case querySuffix:
		return acc.Query(rec)
	default:
		return acc.Get(rec)
	}
}

func splitMethod(method string) (name, kind string) {
	switch {
	case strings.HasSuffix(method, writerSuffix):
		return strings.TrimSuffix(method, writerSuffix), writerSuffix
	case strings.HasSuffix(method, querySuffix):
		return strings.TrimSuffix(method, querySuffix), querySuffix
	case strings.HasSuffix(method, beforeTypeCastSuffix):
		return strings.TrimSuffix(method, beforeTypeCastSuffix), beforeTypeCastSuffix
	}
	return method, ""
}
