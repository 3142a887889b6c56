package cherrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestContainsErrorCode(t *testing.T) {
	err0 := &Error{Code: 210, Name: "DB::NetException", Message: "Connection reset by peer"}

	require.True(t, ContainsErrorCode(err0, 210))
	require.False(t, ContainsErrorCode(err0, 60))

	err1 := &Error{Code: 1000, Name: "DB::Exception", Message: "Query failed", Nested: err0}

	require.True(t, ContainsErrorCode(err1, 1000))
	require.True(t, ContainsErrorCode(err1, 210))
	require.False(t, ContainsErrorCode(err1, 60))

	wrapped := xerrors.Errorf("query: %w", err1)
	require.True(t, ContainsErrorCode(wrapped, 210))

	require.False(t, ContainsErrorCode(nil, 210))
	require.False(t, ContainsErrorCode(fmt.Errorf("plain error"), 210))
}

func TestFindErrorName(t *testing.T) {
	err := &Error{
		Code:    1000,
		Name:    "DB::Exception",
		Message: "Query failed",
		Nested:  &Error{Code: 210, Name: "DB::NetException", Message: "Connection reset by peer"},
	}

	inner := FindErrorName(err, "DB::NetException")
	require.NotNil(t, inner)
	assert.Equal(t, int32(210), inner.Code)

	require.Nil(t, FindErrorName(err, "DB::ParsingException"))
}

func TestUnwrap(t *testing.T) {
	inner := &Error{Code: 210, Name: "DB::NetException", Message: "Connection reset by peer"}
	outer := &Error{Code: 1000, Name: "DB::Exception", Message: "Query failed", Nested: inner}

	require.True(t, errors.Is(outer, inner))
	require.Nil(t, errors.Unwrap(inner))
}

func TestErrorPrinting(t *testing.T) {
	inner := &Error{
		Code:       210,
		Name:       "DB::NetException",
		Message:    "Connection reset by peer",
		StackTrace: "0. Poco::Net\n1. DB::Connection",
	}
	outer := &Error{Code: 1000, Name: "DB::Exception", Message: "Query failed", Nested: inner}

	brief := fmt.Sprintf("%v", outer)
	assert.Equal(t, "DB::Exception: Query failed: DB::NetException: Connection reset by peer", brief)

	full := fmt.Sprintf("%+v", outer)
	assert.Contains(t, full, "code: 1000")
	assert.Contains(t, full, "code: 210")
	assert.Contains(t, full, "0. Poco::Net")
	assert.Contains(t, full, "Connection reset by peer")
}

func TestErrorWithoutName(t *testing.T) {
	err := &Error{Code: 1, Message: "internal error"}
	assert.Equal(t, "internal error", fmt.Sprintf("%v", err))
}
