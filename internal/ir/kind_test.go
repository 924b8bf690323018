package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_NamesRoundTrip(t *testing.T) {
	seen := map[string]Kind{}

	for _, k := range Kinds() {
		name := k.String()
		require.NotEmpty(t, name, "kind %d has no name", k)

		prev, dup := seen[name]
		require.False(t, dup, "%s used by %d and %d", name, prev, k)
		seen[name] = k

		parsed, ok := ParseKind(name)
		require.True(t, ok, name)
		assert.Equal(t, k, parsed)
	}

	assert.Len(t, seen, int(kindCount))
}

func TestKind_StableNames(t *testing.T) {
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "int32", KindInt32.String())
	assert.Equal(t, "unordered_map", KindUnorderedMap.String())
	assert.Equal(t, "struct_ref", KindStructRef.String())
	assert.Equal(t, "unknown", Kind(200).String())

	_, ok := ParseKind("int31")
	assert.False(t, ok)
}

func TestKind_Predicates(t *testing.T) {
	tests := []struct {
		kind      Kind
		primitive bool
		container bool
		ownership bool
		integer   bool
		numeric   bool
	}{
		{KindBool, true, false, false, false, false},
		{KindUInt16, true, false, false, true, true},
		{KindFloat64, true, false, false, false, true},
		{KindDecimal, true, false, false, false, true},
		{KindEmail, true, false, false, false, false},
		{KindMonostate, true, false, false, false, false},
		{KindList, false, true, false, false, false},
		{KindOptional, false, true, false, false, false},
		{KindUnorderedSet, false, true, false, false, false},
		{KindSharedPtr, false, false, true, false, false},
		{KindStructRef, false, false, false, false, false},
		{KindUnknown, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.primitive, tt.kind.IsPrimitive(), "IsPrimitive")
			assert.Equal(t, tt.container, tt.kind.IsContainer(), "IsContainer")
			assert.Equal(t, tt.ownership, tt.kind.IsOwnership(), "IsOwnership")
			assert.Equal(t, tt.integer, tt.kind.IsInteger(), "IsInteger")
			assert.Equal(t, tt.numeric, tt.kind.IsNumeric(), "IsNumeric")
		})
	}

	assert.True(t, KindOptional.IsIndirection())
	assert.True(t, KindUniquePtr.IsIndirection())
	assert.False(t, KindList.IsIndirection())
	assert.True(t, KindUInt64.IsUnsigned())
	assert.False(t, KindInt64.IsUnsigned())
}
