// Package response defines the JSON envelope every API endpoint of the
// invoicing backend replies with, so clients can dispatch on a stable
// status field instead of sniffing payload shapes.
package response

// Response is the envelope. Data carries the endpoint payload (a company,
// an invoice, an import report, a paginated list) on success; Error
// carries the message on failure.
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success wraps an endpoint payload in a success envelope.
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error wraps a message in an error envelope.
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
