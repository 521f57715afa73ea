// pkg/funcs/response.go
package funcs

import "net/http"

// Response is the materialized result of one function execution.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// WriteTo flushes the response to a ResponseWriter. Headers are copied
// before the status line is committed.
func (r *Response) WriteTo(w http.ResponseWriter) {
	for k, vals := range r.Header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	status := r.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(r.Body) > 0 {
		_, _ = w.Write(r.Body)
	}
}
