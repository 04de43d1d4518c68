package edge

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTarget = "https://github.com/deltahdl/deltahdl"

func newTestFunction(t *testing.T) *Function {
	t.Helper()
	rule, err := NewRule(testTarget)
	require.NoError(t, err)
	return NewFunction(rule)
}

func TestHandleReturns301WithLocation(t *testing.T) {
	fn := newTestFunction(t)

	resp := fn.Handle(Request{Method: "GET", Host: "deltahdl.org", URI: "/"})

	assert.Equal(t, 301, resp.StatusCode)
	assert.Equal(t, "Moved Permanently", resp.StatusDescription)
	assert.Equal(t, testTarget, resp.Headers["location"].Value)
}

func TestHandleIgnoresRequestContent(t *testing.T) {
	fn := newTestFunction(t)

	requests := []Request{
		{},
		{Method: "GET", Host: "deltahdl.org", URI: "/"},
		{Method: "POST", Host: "www.deltahdl.org", URI: "/some/deep/path?q=1"},
		{Method: "HEAD", Host: "other.example", URI: "/", Headers: map[string]Header{
			"user-agent": {Value: "curl/8.0"},
		}},
	}

	base := fn.Handle(requests[0])
	for _, req := range requests[1:] {
		if diff := cmp.Diff(base, fn.Handle(req)); diff != "" {
			t.Errorf("response varies with request content (-want +got):\n%s", diff)
		}
	}
}

func TestHandleIsPure(t *testing.T) {
	fn := newTestFunction(t)
	req := Request{Method: "GET", Host: "deltahdl.org", URI: "/"}

	first := fn.Handle(req)
	second := fn.Handle(req)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestHTTPAdapterServesRedirect(t *testing.T) {
	adapter := NewHTTPAdapter(newTestFunction(t))

	req := httptest.NewRequest(http.MethodGet, "https://deltahdl.org/anything", nil)
	rec := httptest.NewRecorder()

	adapter.ServeHTTP(rec, req)

	assert.Equal(t, 301, rec.Code)
	assert.Equal(t, testTarget, rec.Header().Get("Location"))
	assert.Empty(t, rec.Body.String())
}

func TestNewRuleRejectsRelativeURL(t *testing.T) {
	_, err := NewRule("/just/a/path")
	assert.Error(t, err)

	_, err = NewRule("not a url at all ://")
	assert.Error(t, err)
}
