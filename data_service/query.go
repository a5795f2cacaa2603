package data_service

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/relplan/plm-proxy/plm_client"
	"github.com/relplan/plm-proxy/request_queue"
)

// Kind is the entity kind, used as cache key prefix
type Kind string

const (
	KindParts          Kind = "PARTS"
	KindChangeActions  Kind = "CA"
	KindChangeRequests Kind = "CR"
	KindPhases         Kind = "PHASES"
)

// Query describes one entity set request
type Query struct {
	Kind Kind
	// Scope is the program or part number the request is about
	Scope   string
	Request *plm_client.RequestBuilder
	// NotFoundAsEmpty turns a 404 answer into an empty collection
	NotFoundAsEmpty bool
}

// CacheKey returns the domain key of the query, e.g. "PHASES:apollo"
func (q Query) CacheKey() string {
	return request_queue.BuildDomainKey(string(q.Kind), q.Scope)
}

var emptyCollection = []byte(`{"value":[]}`)

// collection is the OData response envelope
type collection[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink,omitempty"`
}

func decodeCollection[T any](data []byte) ([]T, error) {
	var envelope collection[T]
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(err, "failed to decode OData collection")
	}
	if envelope.Value == nil {
		return []T{}, nil
	}
	return envelope.Value, nil
}
