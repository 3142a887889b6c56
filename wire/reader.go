// Package wire implements the primitive value layer of the ClickHouse native
// protocol.
//
// Reader decodes little-endian fixed-width integers, base-128 varints, IEEE
// floats, length-prefixed and fixed-size strings, dates and server exception
// frames from a byte stream. It performs no buffering of its own and never
// reads ahead: every primitive consumes exactly the bytes it needs, so a
// single Reader may be driven directly by a raw connection.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"golang.org/x/xerrors"
)

// DecodeError reports a primitive that could not be decoded from the stream:
// a short read, or a byte outside the primitive's value domain.
//
// Once a DecodeError is returned the stream's byte alignment is lost and the
// owning connection must be closed.
type DecodeError struct {
	Type  string
	Bytes []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: cannot decode %s from bytes %v", e.Type, e.Bytes)
}

// Reader decodes protocol primitives from r.
//
// Reader holds no state besides the stream handle. It is not safe for
// concurrent use, since the protocol is a strict sequential byte grammar.
type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// pull reads exactly n bytes from the stream.
//
// End of data before n bytes arrived is reported as a DecodeError carrying
// the bytes that were observed.
func (r *Reader) pull(typ string, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	buf := make([]byte, n)
	read, err := io.ReadFull(r.r, buf)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return nil, &DecodeError{Type: typ, Bytes: buf[:read]}
	case err != nil:
		return nil, xerrors.Errorf("wire: read %s: %w", typ, err)
	}

	return buf, nil
}

// ReadRaw reads exactly n bytes of a fixed binary format. typ names the
// format in the decode error on a short read.
func (r *Reader) ReadRaw(typ string, n int) ([]byte, error) {
	return r.pull(typ, n)
}

// ReadVarUint reads an unsigned integer encoded as a base-128 little-endian
// byte sequence, low 7-bit group first, high bit of each byte marking
// continuation.
func (r *Reader) ReadVarUint() (uint64, error) {
	var value uint64
	for shift := uint(0); ; shift += 7 {
		b, err := r.pull("Number", 1)
		if err != nil {
			return 0, err
		}

		value |= uint64(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			return value, nil
		}
	}
}

// ReadFixedUint reads a width-byte little-endian unsigned integer.
// width must be between 1 and 8.
func (r *Reader) ReadFixedUint(width int) (uint64, error) {
	b, err := r.pull(fmt.Sprintf("UInt%d", 8*width), width)
	if err != nil {
		return 0, err
	}

	var value uint64
	for i, c := range b {
		value |= uint64(c) << (8 * uint(i))
	}

	return value, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.pull("UInt8", 1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.pull("UInt16", 2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.pull("UInt32", 4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.pull("UInt64", 8)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

// Signed readers reinterpret the unsigned bit pattern as two's-complement.

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadBool reads a single byte that must be 0 or 1.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.pull("Bool", 1)
	if err != nil {
		return false, err
	}

	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &DecodeError{Type: "Bool", Bytes: b}
	}
}

// ReadFloat32 reinterprets a 4-byte little-endian pattern as an IEEE-754
// binary32 value. The conversion is bit-for-bit and preserves NaN payloads
// and signed zero.
func (r *Reader) ReadFloat32() (float32, error) {
	b, err := r.pull("Float32", 4)
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadFloat64 reinterprets an 8-byte little-endian pattern as an IEEE-754
// binary64 value.
func (r *Reader) ReadFloat64() (float64, error) {
	b, err := r.pull("Float64", 8)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadString reads a varint length prefix followed by that many bytes of
// UTF-8 text.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadVarUint()
	if err != nil {
		return "", err
	}

	if n == 0 {
		return "", nil
	}

	b, err := r.pull("String", int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadFixedString reads exactly size bytes. NUL padding bytes are replaced
// with ASCII spaces, preserving the fixed-width right-padding semantics as
// blank text instead of embedded control characters.
func (r *Reader) ReadFixedString(size int) (string, error) {
	if size == 0 {
		return "", nil
	}

	b, err := r.pull("FixedString", size)
	if err != nil {
		return "", err
	}

	for i, c := range b {
		if c == 0 {
			b[i] = ' '
		}
	}

	return string(b), nil
}

const secondsPerDay = 86400

// ReadDate reads a signed 16-bit count of whole days since 1970-01-01 UTC.
func (r *Reader) ReadDate() (time.Time, error) {
	b, err := r.pull("Date", 2)
	if err != nil {
		return time.Time{}, err
	}

	days := int16(binary.LittleEndian.Uint16(b))
	return time.Unix(int64(days)*secondsPerDay, 0).UTC(), nil
}

// ReadDateTime reads a signed 32-bit count of whole seconds since the epoch.
//
// Column and session timezones are ignored: the instant is always rendered
// in UTC.
func (r *Reader) ReadDateTime() (time.Time, error) {
	b, err := r.pull("DateTime", 4)
	if err != nil {
		return time.Time{}, err
	}

	sec := int32(binary.LittleEndian.Uint32(b))
	return time.Unix(int64(sec), 0).UTC(), nil
}

// ReadDateTime64 reads a signed 64-bit count of nanoseconds since the epoch.
//
// time.Unix floor-divides the nanosecond count into whole seconds and a
// non-negative remainder, which keeps pre-epoch instants exact.
func (r *Reader) ReadDateTime64() (time.Time, error) {
	b, err := r.pull("DateTime64", 8)
	if err != nil {
		return time.Time{}, err
	}

	ns := int64(binary.LittleEndian.Uint64(b))
	return time.Unix(0, ns).UTC(), nil
}
