package upload

// ValidationError describes why an upload was rejected. The Message is
// safe to return to the client verbatim.
type ValidationError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Error codes for ValidationError.
const (
	ErrCodeFileTooLarge    = "file_too_large"
	ErrCodeExtensionDenied = "extension_not_allowed"
	ErrCodeInvalidMIME     = "invalid_mime"
)
