// Package dialecttest provides a recording dialect.Transport for tests.
//
//	tr := dialecttest.New().
//	    Respond(http.StatusAccepted, dialect.Envelope{"vertex": map[string]any{"_key": "v1"}})
//	db := database.New("http://localhost:8529", "_system", tr)
//	...
//	assert.Len(t, tr.Calls(), 1)
package dialecttest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/syssam/arangox/dialect"
)

// Call is a recorded request.
type Call struct {
	Method string
	URL    string
	Params url.Values
	Body   dialect.Envelope // Request body as the server would decode it
}

type reply struct {
	resp *dialect.Response
	err  error
}

// Transport records every request and answers from a queue of replies,
// falling back to a handler when the queue is empty.
type Transport struct {
	mu      sync.Mutex
	calls   []Call
	replies []reply
	handler func(Call) (*dialect.Response, error)
}

var _ dialect.Transport = (*Transport)(nil)

// New returns a transport without queued replies.
func New() *Transport {
	return &Transport{}
}

// Respond queues a reply.
func (t *Transport) Respond(status int, body dialect.Envelope) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, reply{resp: &dialect.Response{StatusCode: status, Body: body}})
	return t
}

// Fail queues a transport error.
func (t *Transport) Fail(err error) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, reply{err: err})
	return t
}

// Handle sets the handler used once the queue is empty.
func (t *Transport) Handle(fn func(Call) (*dialect.Response, error)) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = fn
	return t
}

// Calls returns the recorded requests.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// Get implements dialect.Transport.
func (t *Transport) Get(ctx context.Context, u string, params url.Values) (*dialect.Response, error) {
	return t.do(ctx, "GET", u, nil, params)
}

// Post implements dialect.Transport.
func (t *Transport) Post(ctx context.Context, u string, body any, params url.Values) (*dialect.Response, error) {
	return t.do(ctx, "POST", u, body, params)
}

// Put implements dialect.Transport.
func (t *Transport) Put(ctx context.Context, u string, body any, params url.Values) (*dialect.Response, error) {
	return t.do(ctx, "PUT", u, body, params)
}

// Delete implements dialect.Transport.
func (t *Transport) Delete(ctx context.Context, u string, params url.Values) (*dialect.Response, error) {
	return t.do(ctx, "DELETE", u, nil, params)
}

func (t *Transport) do(ctx context.Context, method, u string, body any, params url.Values) (*dialect.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	call := Call{Method: method, URL: u, Params: params}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("dialecttest: encode body: %w", err)
		}
		if err := json.Unmarshal(b, &call.Body); err != nil {
			return nil, fmt.Errorf("dialecttest: decode body: %w", err)
		}
	}

	t.mu.Lock()
	t.calls = append(t.calls, call)
	var r *reply
	if len(t.replies) > 0 {
		r = &t.replies[0]
		t.replies = t.replies[1:]
	}
	handler := t.handler
	t.mu.Unlock()

	switch {
	case r != nil:
		return r.resp, r.err
	case handler != nil:
		return handler(call)
	}
	return nil, fmt.Errorf("dialecttest: no reply for %s %s", method, u)
}
