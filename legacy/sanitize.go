package legacy

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm/logger"
)

// Fragment is a boolean SQL expression with "?" placeholders.
type Fragment struct {
	SQL  string
	Vars []any
}

// String renders the fragment with its vars inlined, the way GORM logs SQL.
func (f Fragment) String() string {
	return logger.ExplainSQL(f.SQL, nil, `'`, f.Vars...)
}

// Sanitizer turns one mapped condition into a SQL fragment.
type Sanitizer interface {
	Sanitize(cond any) (Fragment, error)
}

// SanitizerFunc adapts a function to Sanitizer.
type SanitizerFunc func(cond any) (Fragment, error)

func (f SanitizerFunc) Sanitize(cond any) (Fragment, error) { return f(cond) }

// SQLSanitizer renders conditions for one table. Map conditions become
// equality tests on table-qualified quoted columns, strings are raw SQL and
// slices are a template followed by its vars.
type SQLSanitizer struct {
	Table string
	// Quote quotes one identifier. Backticks are used when nil.
	Quote func(name string) string
}

func (s SQLSanitizer) Sanitize(cond any) (Fragment, error) {
	switch c := cond.(type) {
	case nil:
		return Fragment{}, nil
	case string:
		return Fragment{SQL: c}, nil
	case Fragment:
		return c, nil
	case *Fragment:
		return *c, nil
	case []any:
		if len(c) == 0 {
			return Fragment{}, nil
		}
		tmpl, ok := c[0].(string)
		if !ok {
			return Fragment{}, fmt.Errorf("%w: template must be a string, got %T", ErrUnsupportedCondition, c[0])
		}
		return Fragment{SQL: tmpl, Vars: append([]any(nil), c[1:]...)}, nil
	case Hash:
		return s.sqlize(sq.Eq(s.qualify(c)))
	case map[string]any:
		return s.sqlize(sq.Eq(s.qualify(c)))
	case sq.Eq:
		return s.sqlize(sq.Eq(s.qualify(c)))
	case sq.NotEq:
		return s.sqlize(sq.NotEq(s.qualify(c)))
	case sq.Lt:
		return s.sqlize(sq.Lt(s.qualify(c)))
	case sq.LtOrEq:
		return s.sqlize(sq.LtOrEq(s.qualify(c)))
	case sq.Gt:
		return s.sqlize(sq.Gt(s.qualify(c)))
	case sq.GtOrEq:
		return s.sqlize(sq.GtOrEq(s.qualify(c)))
	case sq.Sqlizer:
		return s.sqlize(c)
	}
	return Fragment{}, fmt.Errorf("%w: %T", ErrUnsupportedCondition, cond)
}

func (s SQLSanitizer) sqlize(expr sq.Sqlizer) (Fragment, error) {
	sqlStr, args, err := expr.ToSql()
	if err != nil {
		return Fragment{}, fmt.Errorf("failed to build SQL for condition: %w", err)
	}
	return Fragment{SQL: sqlStr, Vars: args}, nil
}

func (s SQLSanitizer) qualify(cond map[string]any) map[string]any {
	out := make(map[string]any, len(cond))
	for k, v := range cond {
		out[s.column(k)] = v
	}
	return out
}

func (s SQLSanitizer) column(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) == 1 && s.Table != "" {
		parts = []string{s.Table, name}
	}
	for i, p := range parts {
		parts[i] = s.quote(p)
	}
	return strings.Join(parts, ".")
}

func (s SQLSanitizer) quote(name string) string {
	if s.Quote != nil {
		return s.Quote(name)
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
