package dto

// APIResponse is the envelope shared by every endpoint
type APIResponse struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
	Code    ErrorCode    `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// NewMessageResponse is a successful envelope without data
func NewMessageResponse(message string) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
	}
}

// NewErrorResponse creates a failed envelope
func NewErrorResponse(code ErrorCode, message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
		Code:    code,
	}
}

// WithDetails attaches per-field validation failures
func (r APIResponse) WithDetails(details []FieldError) APIResponse {
	r.Details = details
	return r
}
