// pkg/funcs/http.go
package funcs

import (
	"bytes"
	"fmt"
	"net/http"
	"runtime/debug"
)

// httpFunc adapts a plain HTTP handler to the Wrapped contract by
// running it against an in-memory response capture.
type httpFunc struct {
	fn http.Handler
}

// WrapHTTP wraps a handler function with the http signature.
func WrapHTTP(fn func(http.ResponseWriter, *http.Request)) Wrapped {
	return &httpFunc{fn: http.HandlerFunc(fn)}
}

// WrapHandler wraps any http.Handler with the http signature.
func WrapHandler(h http.Handler) Wrapped {
	return &httpFunc{fn: h}
}

func (f *httpFunc) Signature() SignatureType { return SignatureHTTP }

func (f *httpFunc) Execute(r *http.Request) (resp *Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp = nil
			err = fmt.Errorf("function panicked: %v\n%s", p, debug.Stack())
		}
	}()
	rec := newCapture()
	f.fn.ServeHTTP(rec, r)
	return rec.response(), nil
}

// capture is a minimal ResponseWriter that buffers the handler's output
// so Execute can hand back a materialized Response.
type capture struct {
	header      http.Header
	status      int
	wroteHeader bool
	buf         bytes.Buffer
}

func newCapture() *capture {
	return &capture{header: http.Header{}, status: http.StatusOK}
}

func (c *capture) Header() http.Header { return c.header }

func (c *capture) WriteHeader(code int) {
	if c.wroteHeader {
		return
	}
	c.status = code
	c.wroteHeader = true
}

func (c *capture) Write(b []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	return c.buf.Write(b)
}

func (c *capture) response() *Response {
	return &Response{
		StatusCode: c.status,
		Header:     c.header,
		Body:       c.buf.Bytes(),
	}
}
