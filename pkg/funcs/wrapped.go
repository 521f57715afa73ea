// pkg/funcs/wrapped.go
package funcs

import "net/http"

// Wrapped normalizes a user function in a given signature type to a
// single execute operation. Execution failures come back as the error;
// callers decide how to surface them. Signature is the discriminant the
// invoker uses to pick the failure status header value.
type Wrapped interface {
	Execute(r *http.Request) (*Response, error)
	Signature() SignatureType
}
