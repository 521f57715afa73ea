// pkg/funcs/cloudevent.go
package funcs

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/cloudevents/sdk-go/v2/binding"
	"github.com/cloudevents/sdk-go/v2/event"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
)

// EventHandler is the signature for user CloudEvent functions.
type EventHandler func(ctx context.Context, e event.Event) error

// ceFunc adapts a CloudEvent handler to the Wrapped contract. The
// inbound HTTP request is decoded through the CloudEvents HTTP binding
// (binary or structured). legacy controls the pre-1.0 payload shape and
// is fixed off.
type ceFunc struct {
	fn     EventHandler
	legacy bool
}

// WrapCloudEvent wraps a CloudEvent handler. The legacy event format is
// not supported and is always disabled.
func WrapCloudEvent(fn EventHandler) Wrapped {
	return &ceFunc{fn: fn, legacy: false}
}

func (f *ceFunc) Signature() SignatureType { return SignatureCloudEvent }

func (f *ceFunc) Execute(r *http.Request) (resp *Response, err error) {
	e, decodeErr := binding.ToEvent(r.Context(), cehttp.NewMessageFromHttpRequest(r))
	if decodeErr == nil {
		decodeErr = e.Validate()
	}
	if decodeErr != nil {
		// A malformed event is the sender's fault, not a function crash.
		h := http.Header{}
		h.Set("Content-Type", "text/plain; charset=utf-8")
		return &Response{
			StatusCode: http.StatusBadRequest,
			Header:     h,
			Body:       []byte(fmt.Sprintf("invalid cloudevent: %v\n", decodeErr)),
		}, nil
	}

	defer func() {
		if p := recover(); p != nil {
			resp = nil
			err = fmt.Errorf("function panicked: %v\n%s", p, debug.Stack())
		}
	}()
	if err := f.fn(r.Context(), *e); err != nil {
		return nil, err
	}
	return &Response{StatusCode: http.StatusOK, Header: http.Header{}}, nil
}
