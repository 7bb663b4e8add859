package rustmaps

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BaseURL is the root of every route.
const BaseURL = "https://api.rustmaps.com/v4"

// Method is an HTTP verb accepted by the API.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Param is a single query parameter. Params keep the order they were given in.
type Param struct {
	Key   string
	Value any
}

// Route describes one request: a method, a path below the base URL and
// optional query parameters.
type Route struct {
	Method Method
	Path   string
	Params []Param
}

// NewRoute creates a route. The path is not validated; a malformed path
// produces a malformed URL that fails when the request is sent.
func NewRoute(method Method, path string, params ...Param) Route {
	r := Route{Method: method, Path: path}
	if len(params) > 0 {
		r.Params = append([]Param(nil), params...)
	}
	return r
}

// URL returns the fully-qualified URL against BaseURL.
func (r Route) URL() string {
	return r.URLWithBase(BaseURL)
}

// URLWithBase returns the fully-qualified URL against base.
func (r Route) URLWithBase(base string) string {
	u := strings.TrimRight(base, "/") + r.Path
	if q := r.Query(); q != "" {
		u += "?" + q
	}
	return u
}

// Query returns the encoded query string without the leading '?'.
func (r Route) Query() string {
	if len(r.Params) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, p := range r.Params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(formatParam(p.Value)))
	}
	return sb.String()
}

func (r Route) String() string {
	return string(r.Method) + " " + r.URL()
}

func formatParam(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
