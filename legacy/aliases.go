package legacy

import (
	"errors"
	"fmt"

	"github.com/facette/natsort"
)

// AliasMap maps a stored column name to the alias name consumers use instead.
// A map is treated as immutable once handed to New.
type AliasMap map[string]string

// Names returns the stored column names that carry an alias, in natural order.
func (m AliasMap) Names() []string {
	names := make([]string, 0, len(m))
	for column := range m {
		names = append(names, column)
	}
	natsort.Sort(names)
	return names
}

// Invert builds the alias -> column lookup. When two columns share an alias the
// one sorting last wins; Validate reports that case.
func (m AliasMap) Invert() map[string]string {
	inverted := make(map[string]string, len(m))
	for _, column := range m.Names() {
		inverted[m[column]] = column
	}
	return inverted
}

// Extend returns parent entries overridden and extended by child entries.
// Neither map is modified.
func (m AliasMap) Extend(child AliasMap) AliasMap {
	merged := make(AliasMap, len(m)+len(child))
	for column, alias := range m {
		merged[column] = alias
	}
	for column, alias := range child {
		merged[column] = alias
	}
	return merged
}

func (m AliasMap) clone() AliasMap {
	return AliasMap(nil).Extend(m)
}

// Validate reports configuration problems New silently accepts: aliases for
// unknown columns, an aliased primary key, an alias shadowing a stored column
// and two columns sharing one alias.
func (m AliasMap) Validate(fields []string, primaryKey string) error {
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f] = struct{}{}
	}

	var errs []error
	seen := make(map[string]string, len(m))
	for _, column := range m.Names() {
		alias := m[column]
		if _, ok := known[column]; !ok {
			errs = append(errs, fmt.Errorf("%w: alias %q targets unknown column %q", ErrInvalidMapping, alias, column))
		}
		if column == primaryKey {
			errs = append(errs, fmt.Errorf("%w: primary key %q cannot be aliased", ErrInvalidMapping, column))
		}
		if _, ok := known[alias]; ok && alias != column {
			errs = append(errs, fmt.Errorf("%w: alias %q for %q collides with an existing column", ErrInvalidMapping, alias, column))
		}
		if prev, ok := seen[alias]; ok {
			errs = append(errs, fmt.Errorf("%w: alias %q used by both %q and %q", ErrInvalidMapping, alias, prev, column))
		}
		seen[alias] = column
	}
	return errors.Join(errs...)
}
