package tiffcore

import "fmt"

// Code is a discriminated error code returned by every fallible operation in
// the package. No exceptions escape the core: failures are always reported
// through a *Error wrapping one of these codes.
type Code int

const (
	Success Code = iota
	FileNotFound
	ReadError
	WriteError
	InvalidHeader
	InvalidFormat
	InvalidTag
	UnsupportedFeature
	OutOfBounds
	MemoryError
	UnexpectedEndOfFile
	InvalidTagType
	InvalidPageIndex
	CompressionError
	IOError
	InvalidArgument
	InvalidOperation
)

var codeNames = map[Code]string{
	Success:             "Success",
	FileNotFound:        "FileNotFound",
	ReadError:           "ReadError",
	WriteError:          "WriteError",
	InvalidHeader:       "InvalidHeader",
	InvalidFormat:       "InvalidFormat",
	InvalidTag:          "InvalidTag",
	UnsupportedFeature:  "UnsupportedFeature",
	OutOfBounds:         "OutOfBounds",
	MemoryError:         "MemoryError",
	UnexpectedEndOfFile: "UnexpectedEndOfFile",
	InvalidTagType:      "InvalidTagType",
	InvalidPageIndex:    "InvalidPageIndex",
	CompressionError:    "CompressionError",
	IOError:             "IOError",
	InvalidArgument:     "InvalidArgument",
	InvalidOperation:    "InvalidOperation",
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is the error type returned by every tiffcore operation. It carries a
// discriminated Code so callers can branch on failure kind without parsing
// messages, plus an optional wrapped Cause for diagnostics.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is / errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// newErr builds an *Error with no wrapped cause.
func newErr(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// wrapErr builds an *Error around an existing cause, preserving it for
// errors.Unwrap while narrowing the code for callers that switch on it.
func wrapErr(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}
