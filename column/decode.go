package column

import (
	"net/netip"

	"github.com/gofrs/uuid"
	"golang.org/x/xerrors"

	"github.com/clickwire/clickwire/wire"
)

// Data holds the decoded values of one column.
type Data struct {
	// Values has one element per row, in row order. Scalar rows carry the
	// value's natural Go type; Array rows carry []any slices; null rows of
	// a Nullable column carry untyped nil.
	Values []any

	// Offsets carries the per-row cumulative element counts of an Array
	// column. Nil for every other kind.
	Offsets []uint64
}

// Decode reads rows values of col from r, in strict row order.
//
// The stream must be positioned at the column's first value. Decode never
// reads ahead and never re-reads: on any error the whole call aborts with no
// partial result, and the stream must be considered corrupt.
func Decode(r *wire.Reader, col *Column, rows int) (*Data, error) {
	switch col.Kind {
	case KindArray:
		return decodeArray(r, col, rows)
	case KindNullable:
		return decodeNullable(r, col, rows)
	}

	values := make([]any, rows)
	for i := range values {
		v, err := decodeScalar(r, col)
		if err != nil {
			return nil, xerrors.Errorf("column %q: row %d: %w", col.Name, i, err)
		}
		values[i] = v
	}

	return &Data{Values: values}, nil
}

func decodeScalar(r *wire.Reader, col *Column) (any, error) {
	switch col.Kind {
	case KindString:
		return r.ReadString()
	case KindFixedString:
		return r.ReadFixedString(col.Size)
	case KindInt8:
		v, err := r.ReadInt8()
		return v, err
	case KindInt16:
		v, err := r.ReadInt16()
		return v, err
	case KindInt32:
		v, err := r.ReadInt32()
		return v, err
	case KindInt64:
		v, err := r.ReadInt64()
		return v, err
	case KindUInt8:
		v, err := r.ReadUint8()
		return v, err
	case KindUInt16:
		v, err := r.ReadUint16()
		return v, err
	case KindUInt32:
		v, err := r.ReadUint32()
		return v, err
	case KindUInt64:
		v, err := r.ReadUint64()
		return v, err
	case KindFloat32:
		v, err := r.ReadFloat32()
		return v, err
	case KindFloat64:
		v, err := r.ReadFloat64()
		return v, err
	case KindDate:
		v, err := r.ReadDate()
		return v, err
	case KindDateTime:
		v, err := r.ReadDateTime()
		return v, err
	case KindDateTime64:
		v, err := r.ReadDateTime64()
		return v, err
	case KindUUID:
		return decodeUUID(r)
	case KindIPv4:
		return decodeIPv4(r)
	case KindIPv6:
		return decodeIPv6(r)
	default:
		return nil, xerrors.Errorf("unsupported column kind %v", col.Kind)
	}
}

// decodeUUID reads 16 raw bytes and renders the canonical lowercase text
// form. The wire stores the id as two little-endian halves, so the bytes are
// regrouped into RFC 4122 order before rendering.
func decodeUUID(r *wire.Reader) (string, error) {
	b, err := r.ReadRaw("UUID", 16)
	if err != nil {
		return "", err
	}

	var u uuid.UUID
	copy(u[0:4], b[4:8])
	copy(u[4:6], b[2:4])
	copy(u[6:8], b[0:2])
	copy(u[8:10], b[14:16])
	copy(u[10:16], b[8:14])

	return u.String(), nil
}

// decodeIPv4 reads 4 raw bytes in little-endian order and renders the
// dotted-quad text form.
func decodeIPv4(r *wire.Reader) (string, error) {
	b, err := r.ReadRaw("IPv4", 4)
	if err != nil {
		return "", err
	}

	addr := netip.AddrFrom4([4]byte{b[3], b[2], b[1], b[0]})
	return addr.String(), nil
}

// decodeIPv6 reads 16 raw big-endian bytes and renders the standard IPv6
// text form.
func decodeIPv6(r *wire.Reader) (string, error) {
	b, err := r.ReadRaw("IPv6", 16)
	if err != nil {
		return "", err
	}

	addr := netip.AddrFrom16([16]byte(b))
	return addr.String(), nil
}

// decodeArray reads one cumulative uint64 offset per row, decodes the flat
// element stream delimited by the last offset, and splits it back into
// per-row slices by successive offset differences.
func decodeArray(r *wire.Reader, col *Column, rows int) (*Data, error) {
	offsets := make([]uint64, rows)
	for i := range offsets {
		off, err := r.ReadUint64()
		if err != nil {
			return nil, xerrors.Errorf("column %q: offset %d: %w", col.Name, i, err)
		}
		offsets[i] = off
	}

	var total uint64
	if rows > 0 {
		total = offsets[rows-1]
	}

	items, err := Decode(r, col.Item, int(total))
	if err != nil {
		return nil, err
	}

	values := make([]any, rows)
	var start uint64
	for i, end := range offsets {
		if end < start || end > total {
			return nil, xerrors.Errorf("column %q: offsets are not monotonic at row %d", col.Name, i)
		}
		values[i] = items.Values[start:end]
		start = end
	}

	return &Data{Values: values, Offsets: offsets}, nil
}

// decodeNullable reads one null flag per row, then decodes all rows of the
// item column unconditionally: the wire always transmits a placeholder value
// even for null rows. Flagged rows yield nil regardless of the placeholder.
func decodeNullable(r *wire.Reader, col *Column, rows int) (*Data, error) {
	nulls := make([]bool, rows)
	for i := range nulls {
		null, err := r.ReadBool()
		if err != nil {
			return nil, xerrors.Errorf("column %q: null flag %d: %w", col.Name, i, err)
		}
		nulls[i] = null
	}

	items, err := Decode(r, col.Item, rows)
	if err != nil {
		return nil, err
	}

	for i, null := range nulls {
		if null {
			items.Values[i] = nil
		}
	}

	return items, nil
}
