package plm_client

import "time"

// Request statuses reported to IHttpStatusHandler
const (
	StatusSuccess      = "success"
	StatusError        = "error"
	StatusRateLimited  = "rate_limited"
	StatusNetworkError = "network_error"
)

// IHttpStatusHandler is an interface for handling HTTP request statuses
//
//go:generate mockgen -destination=mocks/http_status_handler.go . IHttpStatusHandler
type IHttpStatusHandler interface {
	// OnRequest handles a request with its status result
	OnRequest(status string)
	// RecordRequestLatency records the latency of a request that got a response
	RecordRequestLatency(endpoint string, duration time.Duration)
}
