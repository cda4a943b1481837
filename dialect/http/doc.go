// Package http implements dialect.Transport over net/http.
//
//	tr := http.New(
//	    http.WithBasicAuth("root", "secret"),
//	    http.WithTimeout(10*time.Second),
//	    http.WithLogger(logger),
//	)
//	db := database.New("http://localhost:8529", "_system", tr)
//
// Every request carries a fresh X-Request-Id header, which is also attached
// to the debug log entry of the request. Bodies are encoded as JSON and
// answers are decoded into a dialect.Envelope; an empty answer decodes to an
// empty envelope.
//
// # Metrics
//
// WithMetrics records a request counter (by method and status) and a
// latency histogram (by method):
//
//	reg := prometheus.NewRegistry()
//	tr := http.New(http.WithMetrics(http.NewMetrics("arangox", reg)))
//
// # Circuit Breaker
//
// WithCircuitBreaker wraps every request in a gobreaker circuit breaker.
// Network errors and 5xx answers count as failures; once the breaker is
// open, requests fail with gobreaker.ErrOpenState without reaching the
// server. 5xx answers are still returned to the caller as responses.
//
//	tr := http.New(http.WithCircuitBreaker(http.DefaultBreakerConfig("arangodb")))
package http
