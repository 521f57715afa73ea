package serverfx

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/flint-core/pkg/core"
	"github.com/joeydtaylor/flint-core/pkg/middleware/auth"
	"github.com/joeydtaylor/flint-core/pkg/middleware/logger"
	"github.com/joeydtaylor/flint-core/pkg/middleware/metrics"
	"github.com/joeydtaylor/flint-core/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Options allow per-service env keys/defaults without code duplication.
type Options struct {
	Service         string // service name for log fields
	ManifestEnv     string // e.g. "FUNCTION_MANIFEST"
	DefaultManifest string // e.g. "manifest.toml"
	ListenAddrEnv   string // e.g. "SERVER_LISTEN_ADDRESS"
	DefaultListen   string // e.g. ":8080"
	TLSCertEnv      string // e.g. "SSL_SERVER_CERTIFICATE"
	TLSKeyEnv       string // e.g. "SSL_SERVER_KEY"
}

// ---- Router ----

type routerDeps struct {
	fx.In

	Opts Options

	AuthMW *auth.Middleware
	LogMW  *logger.Middleware

	Metrics http.Handler `name:"metrics"`

	R   httpx.Router
	Log *zap.Logger
}

func provideRouter(d routerDeps) http.Handler {
	cfgPath := envOr(d.Opts.ManifestEnv, d.Opts.DefaultManifest)
	cfg, err := core.LoadConfig(cfgPath)
	if err != nil {
		d.Log.Fatal("manifest load failed", zap.Error(err), zap.String("path", cfgPath))
	}

	for _, fn := range cfg.Functions {
		if _, ok := core.Lookup(fn.Name); !ok {
			d.Log.Error("manifest function not registered",
				zap.String("function", fn.Name),
				zap.String("path", fn.Path),
			)
		}
	}

	return core.BuildRouter(cfg, core.BuildDeps{
		Auth:     d.AuthMW,
		LogMW:    d.LogMW,
		Metrics:  d.Metrics,
		Router:   d.R,
		Registry: core.Default,
	})
}

// ---- Server lifecycle ----

type serverDeps struct {
	fx.In
	Opts   Options
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	addr := envOr(d.Opts.ListenAddrEnv, d.Opts.DefaultListen)
	cert := os.Getenv(d.Opts.TLSCertEnv)
	key := os.Getenv(d.Opts.TLSKeyEnv)

	cfgPath := envOr(d.Opts.ManifestEnv, d.Opts.DefaultManifest)
	cfg, err := core.LoadConfig(cfgPath)
	if err != nil {
		d.Logger.Fatal("manifest load failed", zap.Error(err), zap.String("path", cfgPath))
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  timeoutOr(cfg.Server.ReadTimeoutMS, 15*time.Second),
		WriteTimeout: timeoutOr(cfg.Server.WriteTimeoutMS, 30*time.Second),
		IdleTimeout:  timeoutOr(cfg.Server.IdleTimeoutMS, 60*time.Second),
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	if cfg.Server.Listen != "" && os.Getenv(d.Opts.ListenAddrEnv) == "" {
		srv.Addr = cfg.Server.Listen
	}
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", srv.Addr),
					zap.String("cert", cert),
				)
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && err != http.ErrServerClosed {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			} else {
				d.Logger.Info("server starting (PLAINTEXT)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", srv.Addr),
				)
				go func() {
					srv.TLSConfig = nil
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", d.Opts.Service))
			return srv.Shutdown(ctx)
		},
	})
}

// ---- Public Fx module ----

func Module(opts Options) fx.Option {
	return fx.Options(
		// Supply options to DI.
		fx.Supply(opts),

		// Middleware modules
		auth.Module,
		logger.Module,

		// Metrics (named)
		fx.Provide(fx.Annotate(metrics.ProvideMetrics, fx.ResultTags(`name:"metrics"`))),

		// Router implementation
		fx.Provide(httpx.NewChi),

		// Router (named "app")
		fx.Provide(
			fx.Annotate(
				provideRouter,
				fx.ResultTags(`name:"app"`),
			),
		),

		// App lifecycle (starts HTTP server)
		fx.Invoke(registerHooks),
	)
}

// ---- helpers ----

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func timeoutOr(ms int, def time.Duration) time.Duration {
	if ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
