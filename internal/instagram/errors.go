package instagram

import (
	"fmt"
	"strings"
)

// RequestError is a non-success reply from the messaging platform. The
// delivery retrier reads HTTPStatus to escalate the last failure.
type RequestError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *RequestError) Error() string {
	if e == nil {
		return "instagram request failed"
	}
	body := strings.TrimSpace(e.Body)
	switch {
	case e.StatusCode > 0 && body != "":
		return fmt.Sprintf("instagram http %d: %s", e.StatusCode, body)
	case e.StatusCode > 0:
		return fmt.Sprintf("instagram http %d", e.StatusCode)
	case body != "":
		return "instagram: " + body
	default:
		return "instagram request failed"
	}
}

func (e *RequestError) HTTPStatus() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}
