package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNotAddressable is returned for resources the backend exposes no
// update or delete route for.
var ErrNotAddressable = errors.New("resource cannot be updated or deleted")

// HTTPError is a non-2xx backend response.
type HTTPError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// IsNotFound reports whether err is, or wraps, a 404 from the backend.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == http.StatusNotFound
}

// ErrorMessage extracts the message to show a user: the backend's own
// message when there is one, else the error text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var he *HTTPError
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	return err.Error()
}

// bodyMessage reads the error text a backend put in a failure body.
func bodyMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	r := gjson.ParseBytes(body)
	for _, path := range []string{"message", "error.message", "error", "msg"} {
		if v := r.Get(path); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
