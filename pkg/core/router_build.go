package core

import (
	"context"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/flint-core/pkg/manifest"
	"github.com/joeydtaylor/flint-core/pkg/middleware/auth"
	hmetrics "github.com/joeydtaylor/flint-core/pkg/middleware/metrics"
)

// BuildRouter mounts one invoker per manifest function plus the chassis
// endpoints (/ping heartbeat, /metrics).
func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware())
	}
	r.Use(hmetrics.Collect())

	r.Handle(http.MethodGet, "/metrics", d.Metrics)

	reg := d.Registry
	if reg == nil {
		reg = Default
	}

	for _, fn := range cfg.Functions {
		h := wrapFunction(fn, reg)
		if fn.Policy.TimeoutMS > 0 {
			h = withTimeout(h, time.Duration(fn.Policy.TimeoutMS)*time.Millisecond)
		}
		if fn.Guard.RequireAuth {
			h = withGuard(h, d.Auth)
		}

		switch fn.Method {
		case http.MethodGet:
			r.Get(fn.Path, h)
		case http.MethodPost:
			r.Post(fn.Path, h)
		case http.MethodPut:
			r.Put(fn.Path, h)
		case http.MethodDelete:
			r.Delete(fn.Path, h)
		default:
			r.Handle(fn.Method, fn.Path, h)
		}
	}
	return r.Mux()
}

// wrapFunction resolves a declared function through the registry. The
// declared signature is ignored on this path; registry resolution wins.
func wrapFunction(fn manifest.Function, reg *Registry) http.HandlerFunc {
	inv, err := NewInvoker(fn.Name, "", WithRegistry(reg))
	if err != nil {
		return func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "function not found", http.StatusInternalServerError)
		}
	}
	return inv.ServeHTTP
}

func withTimeout(next http.HandlerFunc, d time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}

// withGuard rejects guarded routes outright when no auth middleware is
// wired, matching the guard's own fail-closed behavior.
func withGuard(next http.HandlerFunc, a *auth.Middleware) http.HandlerFunc {
	if a == nil {
		return func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		}
	}
	return a.Require(next)
}
