package splitwise

import "fmt"

// APIError is a failure reported by Splitwise, either through the HTTP
// status or through a non-empty errors object on a 200 response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("splitwise: %s (status %d)", e.Message, e.StatusCode)
}
