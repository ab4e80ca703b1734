package postcoder

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned by NewClient when no API key is configured.
var ErrMissingAPIKey = errors.New("postcoder: api key is required")

// Category classifies a failed lookup.
type Category string

const (
	CategoryTransport Category = "transport"
	CategoryDecode    Category = "decode"
	CategoryRequest   Category = "request"
)

// Error is returned for lookups that produced no usable HTTP reply.
type Error struct {
	Category Category
	Method   string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("postcoder %s [%s]: %s: %v", e.Method, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("postcoder %s [%s]: %s", e.Method, e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(category Category, method, message string, err error) *Error {
	return &Error{Category: category, Method: method, Message: message, Err: err}
}

// IsDecode reports whether err is a malformed-payload failure.
func IsDecode(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Category == CategoryDecode
}
