package oaipmh

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func queryValues(pairs ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		q.Add(pairs[i], pairs[i+1])
	}
	return q
}

func errorCodes[E Error | ErrorNode](errs []E) []ErrorCode {
	var codes []ErrorCode
	for _, e := range errs {
		codes = append(codes, ErrorNode(e).Code)
	}
	return codes
}

func TestValidate(t *testing.T) {
	e := newTestEngine(t, nil)

	tests := []struct {
		name   string
		method string
		query  url.Values
		want   []ErrorCode
	}{
		{
			name:   "missing verb",
			method: http.MethodGet,
			query:  queryValues(),
			want:   []ErrorCode{ErrBadVerb},
		},
		{
			name:   "illegal verb",
			method: http.MethodGet,
			query:  queryValues("verb", "Harvest"),
			want:   []ErrorCode{ErrBadVerb},
		},
		{
			name:   "verb is case sensitive",
			method: http.MethodGet,
			query:  queryValues("verb", "identify"),
			want:   []ErrorCode{ErrBadVerb},
		},
		{
			name:   "unsupported method",
			method: http.MethodPut,
			query:  queryValues("verb", "Identify"),
			want:   []ErrorCode{ErrBadArgument},
		},
		{
			name:   "identify with extra argument",
			method: http.MethodGet,
			query:  queryValues("verb", "Identify", "set", "itemset_1"),
			want:   []ErrorCode{ErrBadArgument},
		},
		{
			name:   "get record without arguments",
			method: http.MethodGet,
			query:  queryValues("verb", "GetRecord"),
			want:   []ErrorCode{ErrBadArgument, ErrBadArgument},
		},
		{
			name:   "list records without prefix",
			method: http.MethodGet,
			query:  queryValues("verb", "ListRecords"),
			want:   []ErrorCode{ErrBadArgument},
		},
		{
			name:   "unknown metadata prefix",
			method: http.MethodGet,
			query:  queryValues("verb", "ListRecords", "metadataPrefix", "marc21"),
			want:   []ErrorCode{ErrCannotDisseminateFormat},
		},
		{
			name:   "duplicate argument on GET",
			method: http.MethodGet,
			query: queryValues("verb", "ListRecords",
				"metadataPrefix", "oai_dc", "metadataPrefix", "oai_dc"),
			want: []ErrorCode{ErrBadArgument},
		},
		{
			name:   "invalid from date",
			method: http.MethodGet,
			query: queryValues("verb", "ListRecords",
				"metadataPrefix", "oai_dc", "from", "01-05-2015"),
			want: []ErrorCode{ErrBadArgument},
		},
		{
			name:   "mixed granularity",
			method: http.MethodGet,
			query: queryValues("verb", "ListRecords", "metadataPrefix", "oai_dc",
				"from", "2015-05-01", "until", "2015-06-01T00:00:00Z"),
			want: []ErrorCode{ErrBadArgument},
		},
		{
			name:   "token excludes other arguments",
			method: http.MethodGet,
			query: queryValues("verb", "ListRecords",
				"resumptionToken", "abc", "metadataPrefix", "oai_dc"),
			want: []ErrorCode{ErrBadArgument},
		},
		{
			name:   "valid list request",
			method: http.MethodGet,
			query: queryValues("verb", "ListRecords", "metadataPrefix", "oai_dc",
				"from", "2015-05-01", "until", "2015-06-01", "set", "itemset_1"),
			want: nil,
		},
		{
			name:   "valid token request",
			method: http.MethodGet,
			query:  queryValues("verb", "ListIdentifiers", "resumptionToken", "abc"),
			want:   nil,
		},
		{
			name:   "POST is accepted",
			method: http.MethodPost,
			query:  queryValues("verb", "Identify"),
			want:   nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := e.validate(Request{Method: tc.method, Query: tc.query})
			assert.Equal(t, tc.want, errorCodes(errs))
		})
	}
}

func TestValidate_ParsesArguments(t *testing.T) {
	e := newTestEngine(t, nil)

	a, errs := e.validate(Request{
		Method: http.MethodGet,
		Query: queryValues("verb", "ListRecords", "metadataPrefix", "oai_dc",
			"from", "2015-05-01", "until", "2015-06-01", "set", "itemset_1"),
	})

	assert.Empty(t, errs)
	assert.Equal(t, VerbListRecords, a.verb)
	assert.Equal(t, "oai_dc", a.metadataPrefix)
	assert.Equal(t, "itemset_1", a.set)
	assert.NotNil(t, a.from)
	assert.NotNil(t, a.until)
	assert.Equal(t, GranularityDay, a.untilGran)
}
