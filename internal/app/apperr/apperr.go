// Package apperr defines the application-layer error type shared by all
// services. The HTTP adapter maps it onto a response; everything else is
// treated as an internal error.
package apperr

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// NotFound builds a 404 error with the given code.
func NotFound(code, message string) *Error {
	return &Error{Status: 404, Code: code, Message: message}
}

// Validation builds a 422 VALIDATION_ERROR with per-field details.
func Validation(message string, details map[string]any) *Error {
	return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: message, Details: details}
}
