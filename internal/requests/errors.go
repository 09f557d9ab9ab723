package requests

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies why a request to the training backend failed.
type Kind string

const (
	KindTransport Kind = "transport" // network unreachable, timeout, cancelled
	KindStatus    Kind = "status"    // non-2xx response
	KindDecode    Kind = "decode"    // body is not the expected shape
)

// represents a failed request to the training backend
type Error struct {
	URL        string
	Kind       Kind
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindStatus && e.Body != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Kind, e.URL, e.StatusCode, e.Body)
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s %s: status %d", e.Kind, e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Kind, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.URL)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a request error, or "" for foreign errors.
func KindOf(err error) Kind {
	var reqErr *Error
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return ""
}

// StatusOf returns the upstream status code carried by err, or 0.
func StatusOf(err error) int {
	var reqErr *Error
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// Decode unmarshals a response body, reporting failures as KindDecode.
func Decode[T any](url string, body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return out, &Error{URL: url, Kind: KindDecode, Err: err}
	}
	return out, nil
}
