package gateway

import "fmt"

// RequestError is a network failure: the request could not be sent, or the
// API answered with a non-2xx status or a body that is not JSON.
type RequestError struct {
	Method   string
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Endpoint, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Endpoint, e.Status)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
