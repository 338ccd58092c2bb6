package client

import (
	"errors"
	"fmt"
)

// StatusError is a non-2xx answer from the recommender.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func IsStatusError(err error, status int) bool {
	var target *StatusError
	return errors.As(err, &target) && target.Status == status
}
