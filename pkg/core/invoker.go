// pkg/core/invoker.go
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/joeydtaylor/flint-core/pkg/funcs"
)

var (
	// ErrInvalidTarget: target is neither a registered name nor a
	// callable value the adapters accept.
	ErrInvalidTarget = errors.New("invalid function target")
	// ErrInvalidSignatureType: target is callable but the signature is
	// missing or unrecognized.
	ErrInvalidSignatureType = errors.New("invalid signature type")
)

// Invoker resolves a target once at construction and exposes a single
// Handle(request) -> response operation. Execution failures never
// propagate; they become a 500 response with an X-Google-Status header
// plus one JSON line on the crash log.
type Invoker struct {
	wrapped  funcs.Wrapped
	registry *Registry
	crashLog io.Writer
}

type Option func(*Invoker)

// WithRegistry resolves string targets against reg instead of Default.
func WithRegistry(reg *Registry) Option {
	return func(v *Invoker) { v.registry = reg }
}

// WithCrashLog redirects the failure log line (default os.Stderr).
func WithCrashLog(w io.Writer) Option {
	return func(v *Invoker) { v.crashLog = w }
}

// NewInvoker resolves target and wraps it for the given signature.
// A string target found in the registry is used as stored and sig is
// ignored; registry resolution wins over signature validation.
func NewInvoker(target any, sig funcs.SignatureType, opts ...Option) (*Invoker, error) {
	v := &Invoker{registry: Default, crashLog: os.Stderr}
	for _, opt := range opts {
		opt(v)
	}

	if name, ok := target.(string); ok {
		fn, found := v.registry.Lookup(name)
		if !found {
			return nil, fmt.Errorf("%w: no function registered as %q", ErrInvalidTarget, name)
		}
		v.wrapped = fn
		return v, nil
	}

	if !isCallable(target) {
		return nil, fmt.Errorf("%w: %T is not callable", ErrInvalidTarget, target)
	}

	parsed, ok := funcs.ParseSignature(string(sig))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSignatureType, sig)
	}

	wrapped, err := wrapTarget(target, parsed)
	if err != nil {
		return nil, err
	}
	v.wrapped = wrapped
	return v, nil
}

// Handle dispatches one request to the wrapped function. A nil request
// is reconstructed from the ambient process environment. On success the
// function's response passes through unmodified; on failure the crash
// line is written and a fixed 500 comes back.
func (v *Invoker) Handle(r *http.Request) *funcs.Response {
	if r == nil {
		ar, err := AmbientRequest()
		if err != nil {
			return v.fail(fmt.Errorf("ambient request: %w", err))
		}
		r = ar
	}
	resp, err := v.wrapped.Execute(r)
	if err != nil {
		return v.fail(err)
	}
	return resp
}

// ServeHTTP lets an Invoker mount directly on a router.
func (v *Invoker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v.Handle(r).WriteTo(w)
}

// Signature reports the wrapped function's contract.
func (v *Invoker) Signature() funcs.SignatureType { return v.wrapped.Signature() }

func (v *Invoker) fail(err error) *funcs.Response {
	writeCrashLine(v.crashLog, err)

	status := "error"
	if v.wrapped.Signature() == funcs.SignatureHTTP {
		status = "crash"
	}
	h := http.Header{}
	h.Set("X-Google-Status", status)
	return &funcs.Response{StatusCode: http.StatusInternalServerError, Header: h}
}

func isCallable(target any) bool {
	switch target.(type) {
	case func(http.ResponseWriter, *http.Request),
		http.Handler,
		func(context.Context, event.Event) error,
		funcs.EventHandler:
		return true
	}
	return false
}

func wrapTarget(target any, sig funcs.SignatureType) (funcs.Wrapped, error) {
	switch sig {
	case funcs.SignatureHTTP:
		switch t := target.(type) {
		case func(http.ResponseWriter, *http.Request):
			return funcs.WrapHTTP(t), nil
		case http.Handler:
			return funcs.WrapHandler(t), nil
		}
		return nil, fmt.Errorf("%w: %T does not satisfy the http signature", ErrInvalidTarget, target)
	case funcs.SignatureCloudEvent:
		switch t := target.(type) {
		case func(context.Context, event.Event) error:
			return funcs.WrapCloudEvent(t), nil
		case funcs.EventHandler:
			return funcs.WrapCloudEvent(t), nil
		}
		return nil, fmt.Errorf("%w: %T does not satisfy the cloudevent signature", ErrInvalidTarget, target)
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidSignatureType, sig)
}
