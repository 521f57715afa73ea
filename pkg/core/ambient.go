// pkg/core/ambient.go
package core

import (
	"io"
	"net/http"
	"net/http/cgi"
	"os"
	"strings"
)

// AmbientRequest reconstructs an HTTP request from CGI-style process
// environment (REQUEST_METHOD, PATH_INFO, QUERY_STRING, HTTP_* headers)
// with the body read from stdin when CONTENT_LENGTH is set. Used when
// Handle is called without a request.
func AmbientRequest() (*http.Request, error) {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	if env["REQUEST_METHOD"] == "" {
		env["REQUEST_METHOD"] = http.MethodGet
	}
	if env["SERVER_PROTOCOL"] == "" {
		env["SERVER_PROTOCOL"] = "HTTP/1.1"
	}

	req, err := cgi.RequestFromMap(env)
	if err != nil {
		return nil, err
	}
	if req.ContentLength > 0 {
		req.Body = io.NopCloser(io.LimitReader(os.Stdin, req.ContentLength))
	} else {
		req.Body = http.NoBody
	}
	return req, nil
}
