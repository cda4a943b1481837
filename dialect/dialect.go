package dialect

import (
	"context"
	"net/url"
	"strconv"
)

// Transport sends requests to the database HTTP API.
type Transport interface {
	Get(ctx context.Context, url string, params url.Values) (*Response, error)
	Post(ctx context.Context, url string, body any, params url.Values) (*Response, error)
	Put(ctx context.Context, url string, body any, params url.Values) (*Response, error)
	Delete(ctx context.Context, url string, params url.Values) (*Response, error)
}

// Response is a decoded server response.
type Response struct {
	StatusCode int
	Body       Envelope
}

// OK reports whether the status code is one of codes.
func (r *Response) OK(codes ...int) bool {
	for _, c := range codes {
		if r.StatusCode == c {
			return true
		}
	}
	return false
}

// InRange reports whether lo <= status <= hi.
func (r *Response) InRange(lo, hi int) bool {
	return r.StatusCode >= lo && r.StatusCode <= hi
}

// Envelope is the JSON object wrapping every server answer.
type Envelope map[string]any

// Failed reports whether the envelope's error flag is set.
func (e Envelope) Failed() bool {
	b, _ := e["error"].(bool)
	return b
}

// ErrorMessage returns the server error message, if any.
func (e Envelope) ErrorMessage() string {
	return e.String("errorMessage")
}

// ErrorNum returns the server error number, or 0.
func (e Envelope) ErrorNum() int {
	if n, ok := e["errorNum"].(float64); ok {
		return int(n)
	}
	return 0
}

// Object returns the nested object stored under key, or nil.
func (e Envelope) Object(key string) Envelope {
	switch v := e[key].(type) {
	case map[string]any:
		return v
	case Envelope:
		return v
	}
	return nil
}

// String returns the string stored under key, or "".
func (e Envelope) String(key string) string {
	s, _ := e[key].(string)
	return s
}

// Bool returns the boolean stored under key, or false.
func (e Envelope) Bool(key string) bool {
	b, _ := e[key].(bool)
	return b
}

// List returns the list stored under key, or nil.
func (e Envelope) List(key string) []any {
	l, _ := e[key].([]any)
	return l
}

// WaitForSync returns the query parameters carrying the waitForSync flag.
func WaitForSync(wait bool) url.Values {
	return url.Values{"waitForSync": []string{strconv.FormatBool(wait)}}
}
