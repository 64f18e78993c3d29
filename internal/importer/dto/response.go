package dto

// Error codes returned in ErrorBody.Code.
const (
	CodeStockNotFound       = "STOCK_NOT_FOUND"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidCSVFormat    = "INVALID_CSV_FORMAT"
	CodeFileRequired        = "FILE_REQUIRED"
	CodeUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	CodeFileTooLarge        = "FILE_TOO_LARGE"
	CodeValidationError     = "VALIDATION_ERROR"
	CodeStockCodeDuplicate  = "STOCK_CODE_DUPLICATE"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

// Response is the success envelope of every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorBody carries a machine-readable code and a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// OK wraps data in a success envelope.
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// Fail builds a failure envelope.
func Fail(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: code, Message: message}}
}
