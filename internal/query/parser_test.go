package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter_Shorthand(t *testing.T) {
	f, err := ParseFilter("name LIKE 'a%'")
	require.NoError(t, err)
	require.Len(t, f.Terms, 1)
	c := f.Terms[0].(Comparison)
	assert.Equal(t, FieldAttribute, c.Field.Kind)
	assert.Equal(t, "name", c.Field.Name)
	assert.Equal(t, OpLike, c.Op)
	assert.Equal(t, "a%", c.Literal.Str)
}

func TestParseFilter_PrefixedFields(t *testing.T) {
	f, err := ParseFilter("attributes.run_id = 'abc' AND tags.`mlflow.runName` != 'x'")
	require.NoError(t, err)
	require.Len(t, f.Terms, 2)

	c0 := f.Terms[0].(Comparison)
	assert.Equal(t, FieldAttribute, c0.Field.Kind)
	assert.Equal(t, "run_id", c0.Field.Name)

	c1 := f.Terms[1].(Comparison)
	assert.Equal(t, FieldTag, c1.Field.Kind)
	assert.Equal(t, "mlflow.runName", c1.Field.Name)
	assert.Equal(t, OpNotEq, c1.Op)
}

func TestParseFilter_InAndNotIn(t *testing.T) {
	f, err := ParseFilter("attributes.run_id IN ('r1','r2', 'r3')")
	require.NoError(t, err)
	sm := f.Terms[0].(SetMembership)
	assert.False(t, sm.Negate)
	require.Len(t, sm.Literals, 3)
	assert.Equal(t, "r2", sm.Literals[1].Str)

	f2, err := ParseFilter("attributes.run_id NOT IN ('r1')")
	require.NoError(t, err)
	sm2 := f2.Terms[0].(SetMembership)
	assert.True(t, sm2.Negate)
}

func TestParseFilter_Numeric(t *testing.T) {
	f, err := ParseFilter("metrics.loss <= 0.5")
	require.NoError(t, err)
	c := f.Terms[0].(Comparison)
	assert.Equal(t, FieldMetric, c.Field.Kind)
	assert.Equal(t, OpLessEq, c.Op)
	assert.Equal(t, 0.5, c.Literal.Num)
}

func TestParseFilter_BacktickQuotedNameWithSpace(t *testing.T) {
	f, err := ParseFilter("attributes.`Run Name` = 'foo'")
	require.NoError(t, err)
	c := f.Terms[0].(Comparison)
	assert.Equal(t, "Run Name", c.Field.Name)
}

func TestParseFilter_Empty(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Empty(t, f.Terms)
}

func TestParseOrderBy(t *testing.T) {
	clauses, err := ParseOrderBy([]string{"last_update_time asc", "attributes.run_id DESC"})
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.False(t, clauses[0].Desc)
	assert.Equal(t, "last_update_time", clauses[0].Field.Name)
	assert.True(t, clauses[1].Desc)
	assert.Equal(t, "run_id", clauses[1].Field.Name)
}
