package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`          // "success" or "error"
	StatusCode int         `json:"status_code"`     // HTTP status code
	Code       string      `json:"code,omitempty"`  // Machine-readable error code (NOT_FOUND, VALIDATION, ...)
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// ErrorWithCode returns an error response carrying a machine-readable code
// so clients can distinguish guard failures from validation or permission errors
func ErrorWithCode(statusCode int, code string, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Code:       code,
		Error:      err,
	}
}
