package request_queue

import (
	"net/url"
	"strings"
)

// BuildCacheKey composes the key of an HTTP request. Parameters are sorted
// so semantically identical requests share a key.
func BuildCacheKey(method, rawURL string, params map[string]string) string {
	key := strings.ToUpper(method) + " " + rawURL
	if len(params) == 0 {
		return key
	}

	values := url.Values{}
	for name, value := range params {
		values.Set(name, value)
	}
	return key + "?" + values.Encode()
}

// BuildDomainKey composes a caller-defined key such as "PHASES:<program>"
func BuildDomainKey(prefix string, parts ...string) string {
	return prefix + ":" + strings.Join(parts, ":")
}
