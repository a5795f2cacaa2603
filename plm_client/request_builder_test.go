package plm_client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestBuilder_Params(t *testing.T) {
	params := NewRequestBuilder("/ProdMgmt/Parts").
		WhereEq("Program", "apollo").
		Filter("State eq 'RELEASED'").
		Select("Number", "Name", "Number").
		Top(100).
		Params()

	assert.Equal(t, map[string]string{
		ParamFilter: "Program eq 'apollo' and State eq 'RELEASED'",
		ParamSelect: "Name,Number",
		ParamTop:    "100",
	}, params)
}

func TestRequestBuilder_BuildURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		builder  *RequestBuilder
		expected string
	}{
		{
			name:     "no params",
			baseURL:  "https://plm.example.com/odata/",
			builder:  NewRequestBuilder("/ProjMgmt/Phases"),
			expected: "https://plm.example.com/odata/ProjMgmt/Phases",
		},
		{
			name:     "custom param and top",
			baseURL:  "https://plm.example.com/odata",
			builder:  NewRequestBuilder("ChangeMgmt/ChangeRequests").With("ptc.search.text", "x").Top(5),
			expected: "https://plm.example.com/odata/ChangeMgmt/ChangeRequests?%24top=5&ptc.search.text=x",
		},
		{
			name:     "zero top ignored",
			baseURL:  "https://plm.example.com",
			builder:  NewRequestBuilder("/Parts").Top(0),
			expected: "https://plm.example.com/Parts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.builder.BuildURL(tt.baseURL))
		})
	}
}

func TestFilterIn(t *testing.T) {
	assert.Equal(t, "", FilterIn("Number", nil))
	assert.Equal(t, "Number eq 'P-1'", FilterIn("Number", []string{"P-1", "P-1"}))
	assert.Equal(t, "(Number eq 'P-1' or Number eq 'P-2')", FilterIn("Number", []string{"P-2", "P-1"}))
}

func TestFilterEq_EscapesQuotes(t *testing.T) {
	assert.Equal(t, "Name eq 'O''Brien'", FilterEq("Name", "O'Brien"))
}
