package provider

import "fmt"

const (
	codeInvalid  = "invalid"
	codeNotFound = "not_found"
	codeConflict = "conflict"
)

// ProviderError represents a registry or factory failure with a code.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// ErrorCode returns the error code.
func (e *ProviderError) ErrorCode() string {
	return e.Code
}

var (
	// ErrNilFactory is returned when Register is given a nil factory.
	ErrNilFactory = &ProviderError{Code: codeInvalid, Message: "factory cannot be nil"}
)

// ErrUnknownProvider is returned for names with no registered factory.
func ErrUnknownProvider(name string) error {
	return &ProviderError{Code: codeNotFound, Message: fmt.Sprintf("unknown verification provider: %s", name)}
}

// ErrDuplicateProvider is returned when a name is registered twice.
func ErrDuplicateProvider(name string) error {
	return &ProviderError{Code: codeConflict, Message: fmt.Sprintf("verification provider %s already registered", name)}
}

// ErrConfigKeyNotFound creates an error for missing option keys.
func ErrConfigKeyNotFound(key string) error {
	return &ProviderError{Code: codeInvalid, Message: fmt.Sprintf("option %q not found", key)}
}

// ErrConfigKeyInvalid creates an error for option values that fail to parse.
func ErrConfigKeyInvalid(key, value string, err error) error {
	return &ProviderError{Code: codeInvalid, Message: fmt.Sprintf("option %q has invalid value %q: %v", key, value, err)}
}
