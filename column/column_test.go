package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScalars(t *testing.T) {
	for typeName, kind := range map[string]Kind{
		"String":     KindString,
		"Int8":       KindInt8,
		"Int16":      KindInt16,
		"Int32":      KindInt32,
		"Int64":      KindInt64,
		"UInt8":      KindUInt8,
		"UInt16":     KindUInt16,
		"UInt32":     KindUInt32,
		"UInt64":     KindUInt64,
		"Float32":    KindFloat32,
		"Float64":    KindFloat64,
		"Date":       KindDate,
		"DateTime":   KindDateTime,
		"DateTime64": KindDateTime64,
		"UUID":       KindUUID,
		"IPv4":       KindIPv4,
		"IPv6":       KindIPv6,
	} {
		col, err := Resolve("c", typeName)
		require.NoError(t, err)
		assert.Equal(t, kind, col.Kind)
		assert.Equal(t, "c", col.Name)
		assert.Nil(t, col.Item)
		assert.Equal(t, typeName, col.Type())
	}
}

func TestResolveFixedString(t *testing.T) {
	col, err := Resolve("code", "FixedString(5)")
	require.NoError(t, err)
	require.Equal(t, KindFixedString, col.Kind)
	require.Equal(t, 5, col.Size)
	require.Equal(t, "FixedString(5)", col.Type())
}

func TestResolveFixedStringMalformed(t *testing.T) {
	for _, typeName := range []string{
		"FixedString()",
		"FixedString(abc)",
		"FixedString(0)",
		"FixedString(-1)",
	} {
		_, err := Resolve("code", typeName)
		require.Error(t, err)

		var resolveErr *ResolveError
		require.ErrorAs(t, err, &resolveErr)
		require.Equal(t, typeName, resolveErr.Type)
		require.Error(t, resolveErr.Cause)
	}
}

func TestResolveNested(t *testing.T) {
	col, err := Resolve("tags", "Nullable(Array(UInt8))")
	require.NoError(t, err)

	require.Equal(t, KindNullable, col.Kind)
	require.Equal(t, "tags", col.Name)

	arr := col.Item
	require.NotNil(t, arr)
	require.Equal(t, KindArray, arr.Kind)
	require.Equal(t, "[tags]", arr.Name)

	item := arr.Item
	require.NotNil(t, item)
	require.Equal(t, KindUInt8, item.Kind)
	require.Equal(t, "[[tags]]", item.Name)
	require.Nil(t, item.Item)

	require.Equal(t, "Nullable(Array(UInt8))", col.Type())
}

func TestResolveNestedArrays(t *testing.T) {
	col, err := Resolve("m", "Array(Array(Array(Int32)))")
	require.NoError(t, err)
	require.Equal(t, "Array(Array(Array(Int32)))", col.Type())

	depth := 0
	for c := col; c.Kind == KindArray; c = c.Item {
		depth++
	}
	require.Equal(t, 3, depth)
}

func TestResolveUnknownType(t *testing.T) {
	_, err := Resolve("e", "Enum8('a' = 1)")
	require.Error(t, err)

	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	require.Equal(t, "e", resolveErr.Column)
	require.Equal(t, "Enum8('a' = 1)", resolveErr.Type)
}

func TestResolveUnknownInnerType(t *testing.T) {
	_, err := Resolve("e", "Array(Enum8('a' = 1))")
	require.Error(t, err)

	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	require.Equal(t, "[e]", resolveErr.Column)
	require.Equal(t, "Enum8('a' = 1)", resolveErr.Type)
}
