package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mockFields = []string{"id", "legacy_a", "legacy_b", "legacy_c"}

func mockMappings() AliasMap {
	return AliasMap{"legacy_a": "railsy_named_attribute", "legacy_b": "created_on"}
}

func newMockResolver() *Resolver {
	return New(mockFields, "id", mockMappings())
}

func methodsFor(name string) []string {
	return []string{name, name + "=", name + "?", name + "_before_type_cast"}
}

func TestColumnMethodsMapsAliases(t *testing.T) {
	r := newMockResolver()
	methods := r.ColumnMethods()

	for _, m := range methodsFor("railsy_named_attribute") {
		assert.Equal(t, "legacy_a", methods[m], m)
	}
	for _, m := range methodsFor("created_on") {
		assert.Equal(t, "legacy_b", methods[m], m)
	}
}

func TestColumnMethodsLeavesUnaliasedColumns(t *testing.T) {
	r := newMockResolver()
	methods := r.ColumnMethods()

	for _, col := range []string{"id", "legacy_c"} {
		for _, m := range methodsFor(col) {
			assert.Equal(t, col, methods[m], m)
		}
	}
	assert.Len(t, methods, len(mockFields)*4)

	_, ok := methods["legacy_a"]
	assert.False(t, ok, "aliased column keeps no method under its real name")
}

func TestColumnMethodsReturnsCopy(t *testing.T) {
	r := newMockResolver()
	r.ColumnMethods()["bogus"] = "id"

	_, ok := r.MethodColumn("bogus")
	assert.False(t, ok)
}

func TestPublicColumnNames(t *testing.T) {
	r := newMockResolver()

	names := r.PublicColumnNames()
	assert.Equal(t, []string{"id", "railsy_named_attribute", "created_on", "legacy_c"}, names)
	assert.Len(t, names, len(r.Fields()))
}

func TestRealNameAndPublicName(t *testing.T) {
	r := newMockResolver()

	assert.Equal(t, "legacy_a", r.RealName("railsy_named_attribute"))
	assert.Equal(t, "legacy_c", r.RealName("legacy_c"))
	assert.Equal(t, "nonexistent", r.RealName("nonexistent"))
	assert.Equal(t, "created_on", r.PublicName("legacy_b"))
	assert.Equal(t, "id", r.PublicName("id"))
}

func TestNewCopiesConfiguration(t *testing.T) {
	fields := append([]string(nil), mockFields...)
	aliases := mockMappings()
	r := New(fields, "id", aliases)

	fields[1] = "changed"
	aliases["legacy_c"] = "late"

	assert.Equal(t, mockFields, r.Fields())
	assert.Equal(t, mockMappings(), r.Aliases())
	assert.Equal(t, "legacy_c", r.PublicName("legacy_c"))
}

func TestInheritExtendsParentAliases(t *testing.T) {
	parent := newMockResolver()
	child := parent.Inherit(
		append(mockFields, "legacy_d"),
		"id",
		AliasMap{"legacy_b": "created_at", "legacy_d": "notes"},
	)

	assert.Equal(t, AliasMap{
		"legacy_a": "railsy_named_attribute",
		"legacy_b": "created_at",
		"legacy_d": "notes",
	}, child.Aliases())
	assert.Equal(t, "created_on", parent.PublicName("legacy_b"), "parent is not modified")
	assert.Equal(t, []string{"id", "railsy_named_attribute", "created_at", "legacy_c", "notes"}, child.PublicColumnNames())
}

func TestAliasMapValidate(t *testing.T) {
	require.NoError(t, mockMappings().Validate(mockFields, "id"))

	bad := AliasMap{
		"id":       "key",
		"legacy_a": "legacy_c",
		"legacy_b": "shared",
		"legacy_c": "shared",
		"missing":  "ghost",
	}
	err := bad.Validate(mockFields, "id")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMapping)
	assert.Contains(t, err.Error(), `primary key "id"`)
	assert.Contains(t, err.Error(), `collides with an existing column`)
	assert.Contains(t, err.Error(), `used by both "legacy_b" and "legacy_c"`)
	assert.Contains(t, err.Error(), `unknown column "missing"`)
}

func TestAliasMapNamesNaturalOrder(t *testing.T) {
	m := AliasMap{"col10": "j", "col2": "b", "col1": "a"}
	assert.Equal(t, []string{"col1", "col2", "col10"}, m.Names())
}

func TestAliasMapInvertLastWins(t *testing.T) {
	m := AliasMap{"legacy_a": "dup", "legacy_b": "dup"}
	assert.Equal(t, map[string]string{"dup": "legacy_b"}, m.Invert())
}
