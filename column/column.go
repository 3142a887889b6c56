// Package column resolves ClickHouse column type names and decodes column
// values from the native wire format.
package column

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// Kind discriminates the wire representation of a column.
type Kind int

const (
	KindString Kind = iota
	KindFixedString
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUInt8
	KindUInt16
	KindUInt32
	KindUInt64
	KindFloat32
	KindFloat64
	KindDate
	KindDateTime
	KindDateTime64
	KindUUID
	KindIPv4
	KindIPv6
	KindArray
	KindNullable
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindFixedString:
		return "FixedString"
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindUInt8:
		return "UInt8"
	case KindUInt16:
		return "UInt16"
	case KindUInt32:
		return "UInt32"
	case KindUInt64:
		return "UInt64"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindDate:
		return "Date"
	case KindDateTime:
		return "DateTime"
	case KindDateTime64:
		return "DateTime64"
	case KindUUID:
		return "UUID"
	case KindIPv4:
		return "IPv4"
	case KindIPv6:
		return "IPv6"
	case KindArray:
		return "Array"
	case KindNullable:
		return "Nullable"
	default:
		return "invalid"
	}
}

// Column is a resolved description of one result-set column's wire type.
//
// Array and Nullable columns carry their fully-resolved item column: type
// name parsing happens once at resolution time, never during decoding.
type Column struct {
	Name string
	Kind Kind

	// Size is the byte length of a FixedString column. It is structural
	// and never transmitted on the wire.
	Size int

	// Item is the element column of an Array or Nullable column.
	Item *Column
}

// Type renders the column's protocol type name back from the resolved form.
func (c *Column) Type() string {
	switch c.Kind {
	case KindFixedString:
		return fmt.Sprintf("FixedString(%d)", c.Size)
	case KindArray:
		return fmt.Sprintf("Array(%s)", c.Item.Type())
	case KindNullable:
		return fmt.Sprintf("Nullable(%s)", c.Item.Type())
	default:
		return c.Kind.String()
	}
}

// ResolveError reports a type name that does not describe any known column
// type. Resolution happens before any stream read, so the error consumes no
// bytes.
type ResolveError struct {
	Column string
	Type   string

	// Cause is set when a compound type's parameter failed to parse.
	Cause error
}

func (e *ResolveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("column %q: invalid type %q: %v", e.Column, e.Type, e.Cause)
	}

	return fmt.Sprintf("column %q: unknown type %q", e.Column, e.Type)
}

func (e *ResolveError) Unwrap() error { return e.Cause }

func scalarKind(typeName string) (Kind, bool) {
	switch typeName {
	case "String":
		return KindString, true
	case "Int8":
		return KindInt8, true
	case "Int16":
		return KindInt16, true
	case "Int32":
		return KindInt32, true
	case "Int64":
		return KindInt64, true
	case "UInt8":
		return KindUInt8, true
	case "UInt16":
		return KindUInt16, true
	case "UInt32":
		return KindUInt32, true
	case "UInt64":
		return KindUInt64, true
	case "Float32":
		return KindFloat32, true
	case "Float64":
		return KindFloat64, true
	case "Date":
		return KindDate, true
	case "DateTime":
		return KindDateTime, true
	case "DateTime64":
		return KindDateTime64, true
	case "UUID":
		return KindUUID, true
	case "IPv4":
		return KindIPv4, true
	case "IPv6":
		return KindIPv6, true
	default:
		return 0, false
	}
}

// Resolve maps a protocol type name to a Column. name labels the column in
// diagnostics; the item column of a compound type is labeled "[name]".
//
// Exact scalar names are matched before the compound FixedString, Array and
// Nullable patterns. Anything else is a *ResolveError.
func Resolve(name, typeName string) (*Column, error) {
	if kind, ok := scalarKind(typeName); ok {
		return &Column{Name: name, Kind: kind}, nil
	}

	inner := func(prefix string) string {
		return typeName[len(prefix) : len(typeName)-1]
	}

	switch {
	case strings.HasPrefix(typeName, "FixedString(") && strings.HasSuffix(typeName, ")"):
		size, err := strconv.Atoi(inner("FixedString("))
		if err != nil {
			return nil, &ResolveError{Column: name, Type: typeName, Cause: err}
		}
		if size <= 0 {
			return nil, &ResolveError{
				Column: name,
				Type:   typeName,
				Cause:  xerrors.Errorf("size must be positive, got %d", size),
			}
		}

		return &Column{Name: name, Kind: KindFixedString, Size: size}, nil

	case strings.HasPrefix(typeName, "Array(") && strings.HasSuffix(typeName, ")"):
		item, err := Resolve("["+name+"]", inner("Array("))
		if err != nil {
			return nil, err
		}

		return &Column{Name: name, Kind: KindArray, Item: item}, nil

	case strings.HasPrefix(typeName, "Nullable(") && strings.HasSuffix(typeName, ")"):
		item, err := Resolve("["+name+"]", inner("Nullable("))
		if err != nil {
			return nil, err
		}

		return &Column{Name: name, Kind: KindNullable, Item: item}, nil
	}

	return nil, &ResolveError{Column: name, Type: typeName}
}
