// Package legacy exposes stored columns of a record type under alternate
// attribute names. It builds accessor dispatch tables, rewrites alias-keyed
// conditions to real column names and resolves column metadata by either
// name. All tables are built once by New and only read afterwards, so a
// Resolver can be shared between goroutines without locking.
package legacy

import "errors"

var (
	// ErrUnknownAttribute is returned when a method name does not dispatch to any column.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrUnsupportedCondition is returned when a sanitizer cannot render a condition.
	ErrUnsupportedCondition = errors.New("unsupported condition")
	// ErrInvalidMapping wraps every problem reported by AliasMap.Validate.
	ErrInvalidMapping = errors.New("invalid legacy mapping")
)

const (
	writerSuffix         = "="
	querySuffix          = "?"
	beforeTypeCastSuffix = "_before_type_cast"
)

// Resolver translates between alias and column names for one record type.
type Resolver struct {
	fields     []string
	primaryKey string
	aliases    AliasMap
	reals      map[string]string // alias -> real
	methods    map[string]string
}

// New configures a resolver for one record type. Nothing is validated; see
// AliasMap.Validate.
func New(fields []string, primaryKey string, aliases AliasMap) *Resolver {
	r := &Resolver{
		fields:     append([]string(nil), fields...),
		primaryKey: primaryKey,
		aliases:    aliases.clone(),
	}
	r.reals = r.aliases.Invert()
	r.methods = r.buildColumnMethods()
	return r
}

// Inherit configures a child record type. The child's aliases extend and
// override the receiver's.
func (r *Resolver) Inherit(fields []string, primaryKey string, aliases AliasMap) *Resolver {
	return New(fields, primaryKey, r.aliases.Extend(aliases))
}

func (r *Resolver) Fields() []string {
	return append([]string(nil), r.fields...)
}

func (r *Resolver) PrimaryKey() string {
	return r.primaryKey
}

// Aliases returns a copy of the configured alias map.
func (r *Resolver) Aliases() AliasMap {
	return r.aliases.clone()
}

// RealName returns the column an alias stands for, or name itself.
func (r *Resolver) RealName(name string) string {
	if column, ok := r.reals[name]; ok {
		return column
	}
	return name
}

// PublicName returns the alias of a column, or the column name itself.
func (r *Resolver) PublicName(field string) string {
	if alias, ok := r.aliases[field]; ok {
		return alias
	}
	return field
}

// PublicColumnNames lists the fields in schema order with aliases substituted.
func (r *Resolver) PublicColumnNames() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = r.PublicName(f)
	}
	return names
}

// ColumnMethods returns the generated method-name table: for every field the
// reader, writer, query and before-type-cast names under its public name,
// each mapped to the real column. The returned map is a copy.
func (r *Resolver) ColumnMethods() map[string]string {
	out := make(map[string]string, len(r.methods))
	for k, v := range r.methods {
		out[k] = v
	}
	return out
}

// MethodColumn looks a single generated method name up.
func (r *Resolver) MethodColumn(method string) (string, bool) {
	f, ok := r.methods[method]
	return f, ok
}

func (r *Resolver) buildColumnMethods() map[string]string {
	methods := make(map[string]string, len(r.fields)*4)
	for _, f := range r.fields {
		name := r.PublicName(f)
		methods[name] = f
		methods[name+writerSuffix] = f
		methods[name+querySuffix] = f
		methods[name+beforeTypeCastSuffix] = f
	}
	return methods
}
