package domain

// APIError is a coded error carried by failed events. The code becomes
// the task status and the message is embedded into the task message.
type APIError struct {
	Code    string
	Message string
}

// NewAPIError creates a coded error.
func NewAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}
