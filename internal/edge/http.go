package edge

import (
	"net/http"
)

// HTTPAdapter serves the redirect over plain HTTP so the behavior of the
// deployed function can be exercised before deployment.
type HTTPAdapter struct {
	fn *Function
}

func NewHTTPAdapter(fn *Function) *HTTPAdapter {
	return &HTTPAdapter{fn: fn}
}

func (a *HTTPAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := a.fn.Handle(Request{
		Method: r.Method,
		Host:   r.Host,
		URI:    r.URL.RequestURI(),
	})

	for name, h := range resp.Headers {
		w.Header().Set(name, h.Value)
	}
	w.WriteHeader(resp.StatusCode)
}

var _ http.Handler = (*HTTPAdapter)(nil)
