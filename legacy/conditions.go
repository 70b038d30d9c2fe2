package legacy

import (
	"fmt"
	"reflect"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Hash is an equality condition keyed by column or alias name.
type Hash map[string]any

// IsBlank reports whether a condition is absent: nil, a whitespace-only
// string or an empty map or slice.
func IsBlank(cond any) bool {
	if cond == nil {
		return true
	}
	switch c := cond.(type) {
	case string:
		return strings.TrimSpace(c) == ""
	case Fragment:
		return strings.TrimSpace(c.SQL) == ""
	case *Fragment:
		return c == nil || strings.TrimSpace(c.SQL) == ""
	}
	v := reflect.ValueOf(cond)
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// MapCondition rewrites the alias keys of a map condition to real column
// names. Other keys and all values are kept as they are. Conditions that are
// not maps, such as raw SQL strings, are returned unchanged.
func (r *Resolver) MapCondition(cond any) any {
	if IsBlank(cond) {
		return nil
	}
	switch c := cond.(type) {
	case Hash:
		return Hash(r.mapKeys(c))
	case sq.Eq:
		return sq.Eq(r.mapKeys(c))
	case sq.NotEq:
		return sq.NotEq(r.mapKeys(c))
	case sq.Lt:
		return sq.Lt(r.mapKeys(c))
	case sq.LtOrEq:
		return sq.LtOrEq(r.mapKeys(c))
	case sq.Gt:
		return sq.Gt(r.mapKeys(c))
	case sq.GtOrEq:
		return sq.GtOrEq(r.mapKeys(c))
	case map[string]any:
		return r.mapKeys(c)
	}
	return cond
}

func (r *Resolver) mapKeys(cond map[string]any) map[string]any {
	mapped := make(map[string]any, len(cond))
	for k, v := range cond {
		mapped[r.RealName(k)] = v
	}
	return mapped
}

// MapConditions maps each condition in order, dropping blank ones.
func (r *Resolver) MapConditions(conds []any) []any {
	mapped := make([]any, 0, len(conds))
	for _, c := range conds {
		if IsBlank(c) {
			continue
		}
		mapped = append(mapped, r.MapCondition(c))
	}
	return mapped
}

// MergeConditions maps and sanitizes conds and joins the surviving fragments
// as "(a) AND (b)". It returns nil when no fragment survives.
func (r *Resolver) MergeConditions(s Sanitizer, conds ...any) (*Fragment, error) {
	var (
		segments []string
		vars     []any
	)
	for _, c := range r.MapConditions(conds) {
		if IsBlank(c) {
			continue
		}
		frag, err := s.Sanitize(c)
		if err != nil {
			return nil, fmt.Errorf("failed to sanitize condition %v: %w", c, err)
		}
		if IsBlank(frag) {
			continue
		}
		segments = append(segments, frag.SQL)
		vars = append(vars, frag.Vars...)
	}
	if len(segments) == 0 {
		return nil, nil
	}
	return &Fragment{
		SQL:  "(" + strings.Join(segments, ") AND (") + ")",
		Vars: vars,
	}, nil
}
