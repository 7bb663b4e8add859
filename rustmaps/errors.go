package rustmaps

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode"

	"github.com/go-resty/resty/v2"
)

// Sentinel errors matched by *RequestError and *InvalidTokenError via errors.Is.
var (
	// ErrRequestFailed matches every non-success response.
	ErrRequestFailed = errors.New("rustmaps request failed")
	// ErrUnauthorized indicates the API key was rejected (401).
	ErrUnauthorized = errors.New("unauthorized: invalid API key")
	// ErrForbidden indicates the key lacks access to the resource (403).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates the resource does not exist (404).
	ErrNotFound = errors.New("resource not found")
	// ErrNotFinishedGenerating indicates the map is still being generated
	// upstream (409). Retry later.
	ErrNotFinishedGenerating = errors.New("map has not finished generating")
	// ErrInvalidToken indicates an API key failed local validation.
	ErrInvalidToken = errors.New("invalid API token")
)

// RequestError is returned by HTTPClient.Request for any response whose
// status is not 200 or 201.
type RequestError struct {
	Method string
	URL    string
	Status int
	// Code is the application error code from the body, 0 if absent.
	Code int
	// Text is the human readable message derived from the body.
	Text string
	Body Body
	// Response is the raw response. It may be nil for errors built by hand.
	Response *resty.Response
}

func newRequestError(method, url string, resp *resty.Response, body Body) *RequestError {
	e := &RequestError{
		Method:   method,
		URL:      url,
		Body:     body,
		Response: resp,
	}
	if resp != nil {
		e.Status = resp.StatusCode()
	}
	e.Code, e.Text = describeBody(body)
	return e
}

// Error implements the error interface
func (e *RequestError) Error() string {
	msg := fmt.Sprintf("rustmaps: %s %s failed: %d %s (error code: %d)",
		e.Method, e.URL, e.Status, http.StatusText(e.Status), e.Code)
	if e.Text != "" {
		msg += ": " + e.Text
	}
	return msg
}

// Is implements errors.Is. Every RequestError matches ErrRequestFailed; the
// specific kinds are picked by status code.
func (e *RequestError) Is(target error) bool {
	if target == ErrRequestFailed {
		return true
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusForbidden:
		return target == ErrForbidden
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusConflict:
		return target == ErrNotFinishedGenerating
	}
	return false
}

// IsUnauthorized checks if the error is a 401
func (e *RequestError) IsUnauthorized() bool { return e.Status == http.StatusUnauthorized }

// IsForbidden checks if the error is a 403
func (e *RequestError) IsForbidden() bool { return e.Status == http.StatusForbidden }

// IsNotFound checks if the error is a 404
func (e *RequestError) IsNotFound() bool { return e.Status == http.StatusNotFound }

// IsNotFinishedGenerating checks if the error is a 409
func (e *RequestError) IsNotFinishedGenerating() bool { return e.Status == http.StatusConflict }

// describeBody derives the error code and message from a decoded body.
func describeBody(body Body) (int, string) {
	if body.Kind == BodyText {
		return 0, body.Text
	}
	if body.Kind != BodyObject {
		return 0, ""
	}

	code := 0
	switch c := body.Object["code"].(type) {
	case float64:
		code = int(c)
	case int:
		code = c
	}

	text, _ := body.Object["message"].(string)
	if nested, ok := body.Object["errors"].(map[string]any); ok && len(nested) > 0 {
		lines := make([]string, 0, len(nested))
		for _, item := range flattenErrors(nested, "") {
			lines = append(lines, fmt.Sprintf("In %s: %s", item.key, item.message))
		}
		text += "\n" + strings.Join(lines, "\n")
	}
	return code, text
}

type flatError struct {
	key     string
	message string
}

// flattenErrors walks a nested error object. Nodes carrying an "_errors"
// list produce one entry at their dotted key path; keys are visited in
// sorted order.
func flattenErrors(node map[string]any, prefix string) []flatError {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []flatError
	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		child, ok := node[k].(map[string]any)
		if !ok {
			out = append(out, flatError{key: path, message: fmt.Sprint(node[k])})
			continue
		}

		list, ok := child["_errors"].([]any)
		if !ok {
			out = append(out, flattenErrors(child, path)...)
			continue
		}

		msgs := make([]string, 0, len(list))
		for _, item := range list {
			entry, _ := item.(map[string]any)
			m, _ := entry["message"].(string)
			msgs = append(msgs, m)
		}
		out = append(out, flatError{key: path, message: strings.Join(msgs, " ")})
	}
	return out
}

// InvalidTokenError is returned before any request is made when an API key
// is structurally invalid.
type InvalidTokenError struct {
	Token string
}

// Error implements the error interface
func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid token: %q", e.Token)
}

// Is implements errors.Is for ErrInvalidToken.
func (e *InvalidTokenError) Is(target error) bool {
	return target == ErrInvalidToken
}

// TokenValidator reports whether an API key is acceptable.
type TokenValidator func(token string) bool

// defaultTokenValidator rejects empty keys and keys with whitespace or
// control characters.
func defaultTokenValidator(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
