// Package dialect provides the transport abstraction used to talk to the
// graph database HTTP API.
//
// Every request is a single blocking round trip. The server always answers
// with a JSON object (the envelope), which is decoded before it reaches the
// caller.
//
// # Transport Interface
//
//	type Transport interface {
//	    Get(ctx context.Context, url string, params url.Values) (*Response, error)
//	    Post(ctx context.Context, url string, body any, params url.Values) (*Response, error)
//	    Put(ctx context.Context, url string, body any, params url.Values) (*Response, error)
//	    Delete(ctx context.Context, url string, params url.Values) (*Response, error)
//	}
//
// A Transport returns an error only when no response was received (network
// failure, cancelled context, undecodable body). Non-2xx answers are returned
// as regular responses; interpreting the status is up to the caller.
//
// # Envelope
//
// Envelope wraps the decoded response object:
//
//	resp, err := t.Post(ctx, u, body, nil)
//	if err != nil {
//	    return err
//	}
//	if resp.Body.Failed() {
//	    return fmt.Errorf("server: %s", resp.Body.ErrorMessage())
//	}
//	key := resp.Body.Object("vertex").String("_key")
//
// # Sub-packages
//
//   - dialect/http: net/http implementation with logging, metrics and an
//     optional circuit breaker
//   - dialect/dialecttest: recording transport for tests
package dialect
