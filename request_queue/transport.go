package request_queue

import "context"

// CallFunc performs the actual network call of a request
type CallFunc func(ctx context.Context) (any, error)

// Transport executes raw HTTP requests for Get and Post.
// Implementations return *StatusError for non-2xx answers and
// *NetworkError when no response was received.
//
//go:generate mockgen -destination=mocks/transport.go . Transport
type Transport interface {
	Do(ctx context.Context, method, url string, params map[string]string, body any) ([]byte, error)
}
