package plm_client

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// OData query options
const (
	ParamFilter  = "$filter"
	ParamSelect  = "$select"
	ParamExpand  = "$expand"
	ParamTop     = "$top"
	ParamOrderBy = "$orderby"
)

// joinURL safely combines a base URL with a path
func joinURL(baseURL, path string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	trimmedPath := strings.TrimLeft(path, "/")

	return baseURL + "/" + trimmedPath
}

// RequestBuilder composes OData entity set requests. The same inputs always
// produce the same path and params, so results can be used as cache keys.
type RequestBuilder struct {
	path    string
	filters []string
	selects []string
	expands []string
	params  map[string]string
}

// NewRequestBuilder creates a builder for an entity set path, e.g. /ProdMgmt/Parts
func NewRequestBuilder(path string) *RequestBuilder {
	return &RequestBuilder{
		path:   path,
		params: make(map[string]string),
	}
}

// With adds a custom query parameter
func (rb *RequestBuilder) With(key, value string) *RequestBuilder {
	rb.params[key] = value
	return rb
}

// Filter adds a raw filter expression; multiple filters are combined with "and"
func (rb *RequestBuilder) Filter(expr string) *RequestBuilder {
	if expr != "" {
		rb.filters = append(rb.filters, expr)
	}
	return rb
}

// WhereEq adds a "field eq 'value'" filter
func (rb *RequestBuilder) WhereEq(field, value string) *RequestBuilder {
	return rb.Filter(FilterEq(field, value))
}

// WhereIn adds a filter matching any of values
func (rb *RequestBuilder) WhereIn(field string, values []string) *RequestBuilder {
	return rb.Filter(FilterIn(field, values))
}

func (rb *RequestBuilder) Select(fields ...string) *RequestBuilder {
	rb.selects = append(rb.selects, fields...)
	return rb
}

func (rb *RequestBuilder) Expand(relations ...string) *RequestBuilder {
	rb.expands = append(rb.expands, relations...)
	return rb
}

// Top limits the number of returned rows; non-positive values are ignored
func (rb *RequestBuilder) Top(n int) *RequestBuilder {
	if n > 0 {
		rb.params[ParamTop] = strconv.Itoa(n)
	}
	return rb
}

func (rb *RequestBuilder) OrderBy(field string) *RequestBuilder {
	if field != "" {
		rb.params[ParamOrderBy] = field
	}
	return rb
}

// Path returns the entity set path
func (rb *RequestBuilder) Path() string {
	return rb.path
}

// Params returns the query parameters. Select and expand lists are sorted and de-duplicated.
func (rb *RequestBuilder) Params() map[string]string {
	params := make(map[string]string, len(rb.params)+3)
	for key, value := range rb.params {
		params[key] = value
	}
	if len(rb.filters) > 0 {
		params[ParamFilter] = strings.Join(rb.filters, " and ")
	}
	if len(rb.selects) > 0 {
		params[ParamSelect] = strings.Join(uniqueSorted(rb.selects), ",")
	}
	if len(rb.expands) > 0 {
		params[ParamExpand] = strings.Join(uniqueSorted(rb.expands), ",")
	}
	return params
}

// BuildURL builds the complete URL for the request
func (rb *RequestBuilder) BuildURL(baseURL string) string {
	fullPath := joinURL(baseURL, rb.path)

	query := url.Values{}
	for key, value := range rb.Params() {
		query.Add(key, value)
	}

	queryString := query.Encode()
	if queryString == "" {
		return fullPath
	}
	return fmt.Sprintf("%s?%s", fullPath, queryString)
}

// FilterEq returns an OData equality expression with value quoted
func FilterEq(field, value string) string {
	return fmt.Sprintf("%s eq %s", field, quote(value))
}

// FilterIn returns an OData expression matching any of values.
// Values are sorted so the expression does not depend on input order.
func FilterIn(field string, values []string) string {
	values = uniqueSorted(values)
	switch len(values) {
	case 0:
		return ""
	case 1:
		return FilterEq(field, values[0])
	}

	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, FilterEq(field, value))
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

func quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok || value == "" {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	sort.Strings(result)
	return result
}
