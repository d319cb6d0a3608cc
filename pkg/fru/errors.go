package fru

import "fmt"

// DecodeError is returned for structurally unrecoverable input, and for
// forbidden-but-recoverable input when the policy decides to abort. The
// message carries a dotted area.field path where one applies.
type DecodeError struct {
	msg string
}

func (e *DecodeError) Error() string {
	return e.msg
}

func decodeErrorf(format string, args ...interface{}) *DecodeError {
	return &DecodeError{msg: fmt.Sprintf(format, args...)}
}

// EncodeError is returned for invalid or out-of-range configuration
// values. The message carries a dotted area.field path where one applies.
type EncodeError struct {
	msg string
}

func (e *EncodeError) Error() string {
	return e.msg
}

func encodeErrorf(format string, args ...interface{}) *EncodeError {
	return &EncodeError{msg: fmt.Sprintf(format, args...)}
}
