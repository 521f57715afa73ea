package core

import (
	"net/http"

	"github.com/joeydtaylor/flint-core/pkg/middleware/auth"
	"github.com/joeydtaylor/flint-core/pkg/middleware/logger"
	httpx "github.com/joeydtaylor/flint-core/pkg/transport/httpx"
)

type BuildDeps struct {
	Auth     *auth.Middleware
	LogMW    *logger.Middleware
	Metrics  http.Handler
	Router   httpx.Router
	Registry *Registry
}
