package wire

import (
	"io"
	"strings"

	"golang.org/x/xerrors"

	"github.com/clickwire/clickwire/cherrors"
)

// ReadException reads one server exception frame, following the chain of
// nested causes until a frame reports none.
//
// The server sometimes duplicates the exception class name as a message
// prefix; one leading "<name>: " is stripped from each frame's own message.
func (r *Reader) ReadException() (*cherrors.Error, error) {
	code, err := r.ReadInt32()
	if err != nil {
		return nil, xerrors.Errorf("wire: read exception code: %w", err)
	}

	name, err := r.ReadString()
	if err != nil {
		return nil, xerrors.Errorf("wire: read exception name: %w", err)
	}

	message, err := r.ReadString()
	if err != nil {
		return nil, xerrors.Errorf("wire: read exception message: %w", err)
	}

	stackTrace, err := r.ReadString()
	if err != nil {
		return nil, xerrors.Errorf("wire: read exception stack trace: %w", err)
	}

	hasNested, err := r.ReadBool()
	if err != nil {
		return nil, xerrors.Errorf("wire: read exception nested flag: %w", err)
	}

	exc := &cherrors.Error{
		Code:       code,
		Name:       name,
		Message:    strings.TrimPrefix(message, name+": "),
		StackTrace: stackTrace,
	}

	if hasNested {
		if exc.Nested, err = r.ReadException(); err != nil {
			return nil, err
		}
	}

	return exc, nil
}

// sentinelEOT terminates the final frame of a stream.
const sentinelEOT = 0x04

// Drain consumes the stream until end of data or until a chunk ending in the
// EOT sentinel byte, returning everything read including the sentinel-bearing
// chunk. Callers use it to flush trailing bytes before closing a connection.
func (r *Reader) Drain() ([]byte, error) {
	var drained []byte

	buf := make([]byte, 1024)
	for {
		n, err := r.r.Read(buf)
		drained = append(drained, buf[:n]...)

		if n > 0 && buf[n-1] == sentinelEOT {
			return drained, nil
		}

		switch {
		case err == io.EOF || (err == nil && n == 0):
			return drained, nil
		case err != nil:
			return drained, xerrors.Errorf("wire: drain: %w", err)
		}
	}
}
