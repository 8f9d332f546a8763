package skills

import "fmt"

// CodedError is an error carrying a machine-readable code. Skills
// return it from ValidateInput so the runner can preserve the code in
// the result envelope.
type CodedError struct {
	Code    string
	Message string
}

func (e *CodedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCodedError builds a CodedError.
func NewCodedError(code, format string, args ...any) *CodedError {
	return &CodedError{Code: code, Message: fmt.Sprintf(format, args...)}
}
