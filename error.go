package pageqa

import (
	"errors"
	"fmt"
)

// Application error codes. The values double as the machine-readable error
// kind returned to API clients.
const (
	EINTERNAL = "InternalError"
	EINVALID  = "InvalidInput"
	EFETCH    = "FetchError"
	EEXTRACT  = "ExtractionError"
	EANSWER   = "AnswerError"
	EFORMAT   = "FormatError"
)

// Error represents an application-specific error. Message is meant for end
// users and must not leak internal details; the underlying error, if any,
// goes in Err and only reaches logs.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface. The result includes Err and is
// meant for logs, not for clients.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with a given code and formatted message that
// keeps err as its cause. err is reported by Error but not by ErrorMessage.
func WrapError(err error, code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
