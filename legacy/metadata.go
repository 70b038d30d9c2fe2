package legacy

import "gorm.io/gorm/schema"

// FieldIndex is the host's column metadata index. *schema.Schema satisfies it.
type FieldIndex interface {
	LookUpField(name string) *schema.Field
}

// ColumnFor resolves column metadata by alias or real name. It returns nil
// when no such column exists. Struct field names are not column names and
// resolve to nil.
func (r *Resolver) ColumnFor(index FieldIndex, name string) *schema.Field {
	if index == nil {
		return nil
	}
	column := r.RealName(name)
	f := index.LookUpField(column)
	if f == nil || f.DBName != column {
		return nil
	}
	return f
}
