package legacy

import (
	"errors"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCondition(t *testing.T) {
	r := newMockResolver()

	assert.Nil(t, r.MapCondition(nil))
	assert.Equal(t, "foo", r.MapCondition("foo"))

	tmpl := []any{"legacy_a = ?", 1}
	assert.Equal(t, tmpl, r.MapCondition(tmpl))

	assert.Equal(t,
		Hash{"id": 1, "legacy_a": "foo"},
		r.MapCondition(Hash{"id": 1, "railsy_named_attribute": "foo"}),
	)
	assert.Equal(t,
		map[string]any{"legacy_b": nil, "legacy_c": []int{1, 2}},
		r.MapCondition(map[string]any{"created_on": nil, "legacy_c": []int{1, 2}}),
	)
	assert.Equal(t,
		sq.Gt{"legacy_b": 3},
		r.MapCondition(sq.Gt{"created_on": 3}),
	)
}

func TestMapConditionLeavesInputUntouched(t *testing.T) {
	r := newMockResolver()
	in := Hash{"railsy_named_attribute": "foo"}

	r.MapCondition(in)
	assert.Equal(t, Hash{"railsy_named_attribute": "foo"}, in)
}

func TestMapConditionsRemovesBlanks(t *testing.T) {
	r := newMockResolver()

	assert.Equal(t, []any{"a", "b"}, r.MapConditions([]any{"a", nil, "b"}))
	assert.Equal(t,
		[]any{Hash{"legacy_a": 1}, "x"},
		r.MapConditions([]any{"  ", Hash{"railsy_named_attribute": 1}, Hash{}, []any{}, "x"}),
	)
	assert.Empty(t, r.MapConditions(nil))
}

func TestIsBlank(t *testing.T) {
	var nilFrag *Fragment
	for _, c := range []any{nil, "", " \t", Hash{}, map[string]any{}, []any{}, Fragment{}, nilFrag} {
		assert.True(t, IsBlank(c), "%#v", c)
	}
	for _, c := range []any{"a", Hash{"a": nil}, []any{"a"}, 0, false, Fragment{SQL: "1=1"}} {
		assert.False(t, IsBlank(c), "%#v", c)
	}
}

func TestMergeConditions(t *testing.T) {
	r := newMockResolver()
	s := SQLSanitizer{Table: "mocks"}

	frag, err := r.MergeConditions(s, Hash{"foo": 1}, Hash{"bar": 2})
	require.NoError(t, err)
	require.NotNil(t, frag)
	assert.Equal(t, "(`mocks`.`foo` = ?) AND (`mocks`.`bar` = ?)", frag.SQL)
	assert.Equal(t, []any{1, 2}, frag.Vars)
	assert.Equal(t, "(`mocks`.`foo` = 1) AND (`mocks`.`bar` = 2)", frag.String())
}

func TestMergeConditionsMapsAliases(t *testing.T) {
	r := newMockResolver()
	s := SQLSanitizer{Table: "mocks"}

	frag, err := r.MergeConditions(s, nil, Hash{"railsy_named_attribute": "bar"}, "legacy_c IS NOT NULL", "")
	require.NoError(t, err)
	require.NotNil(t, frag)
	assert.Equal(t, "(`mocks`.`legacy_a` = 'bar') AND (legacy_c IS NOT NULL)", frag.String())
}

func TestMergeConditionsAbsent(t *testing.T) {
	r := newMockResolver()

	frag, err := r.MergeConditions(SQLSanitizer{})
	require.NoError(t, err)
	assert.Nil(t, frag)

	frag, err = r.MergeConditions(SQLSanitizer{}, nil, "", Hash{})
	require.NoError(t, err)
	assert.Nil(t, frag)
}

func TestMergeConditionsSkipsBlankFragments(t *testing.T) {
	r := newMockResolver()
	s := SanitizerFunc(func(cond any) (Fragment, error) {
		if cond == "skip" {
			return Fragment{SQL: " "}, nil
		}
		return Fragment{SQL: cond.(string)}, nil
	})

	frag, err := r.MergeConditions(s, "a", "skip", "b")
	require.NoError(t, err)
	assert.Equal(t, "(a) AND (b)", frag.SQL)
}

func TestMergeConditionsSanitizerError(t *testing.T) {
	r := newMockResolver()
	boom := errors.New("boom")
	s := SanitizerFunc(func(any) (Fragment, error) { return Fragment{}, boom })

	_, err := r.MergeConditions(s, "a")
	assert.ErrorIs(t, err, boom)
}

func TestSQLSanitizer(t *testing.T) {
	s := SQLSanitizer{Table: "mocks"}

	frag, err := s.Sanitize(Hash{"foo": "bar"})
	require.NoError(t, err)
	assert.Equal(t, "`mocks`.`foo` = 'bar'", frag.String())

	frag, err = s.Sanitize(Hash{"foo": nil})
	require.NoError(t, err)
	assert.Equal(t, "`mocks`.`foo` IS NULL", frag.SQL)

	frag, err = s.Sanitize(Hash{"others.foo": 1})
	require.NoError(t, err)
	assert.Equal(t, "`others`.`foo` = ?", frag.SQL)

	frag, err = s.Sanitize([]any{"foo > ? AND bar < ?", 1, 5})
	require.NoError(t, err)
	assert.Equal(t, Fragment{SQL: "foo > ? AND bar < ?", Vars: []any{1, 5}}, frag)

	frag, err = s.Sanitize(sq.GtOrEq{"foo": 3})
	require.NoError(t, err)
	assert.Equal(t, "`mocks`.`foo` >= ?", frag.SQL)

	quoted := SQLSanitizer{Quote: func(n string) string { return `"` + n + `"` }}
	frag, err = quoted.Sanitize(Hash{"foo": 1})
	require.NoError(t, err)
	assert.Equal(t, `"foo" = ?`, frag.SQL)

	_, err = s.Sanitize(42)
	assert.ErrorIs(t, err, ErrUnsupportedCondition)

	_, err = s.Sanitize([]any{1, 2})
	assert.ErrorIs(t, err, ErrUnsupportedCondition)
}
