package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/toyz/fnspec/internal/catalog"
	"github.com/toyz/fnspec/pkg/specs/builder"
)

// Module wires the HTTP service. It expects a Config in the graph.
var Module = fx.Module("server",
	fx.Provide(
		NewLogger,
		NewSpecBuilder,
		LoadFunctions,
		NewHandlers,
		NewWebServerFromConfig,
	),
	fx.Invoke(registerRoutes, registerLifecycle),
)

// Options bundles Module with its configuration and fx event logging
func Options(cfg Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		Module,
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
	)
}

// NewApp creates the fx application serving cfg
func NewApp(cfg Config, extra ...fx.Option) *fx.App {
	return fx.New(append([]fx.Option{Options(cfg)}, extra...)...)
}

// NewLogger builds a development or production zap logger
func NewLogger(cfg Config) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewSpecBuilder returns the default builder behind a result cache
func NewSpecBuilder(cfg Config) builder.FunctionSpecBuilder {
	return catalog.NewCachingBuilder(builder.New(), cfg.CacheSize)
}

// LoadFunctions builds the configured catalog, if any
func LoadFunctions(cfg Config, b builder.FunctionSpecBuilder, logger *zap.Logger) ([]catalog.Entry, error) {
	if cfg.CatalogPath == "" {
		return nil, nil
	}

	c, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	entries, err := c.Build(b)
	if err != nil {
		return nil, err
	}

	logger.Info("catalog loaded", zap.String("path", cfg.CatalogPath), zap.Int("functions", len(entries)))
	return entries, nil
}

// NewWebServerFromConfig creates the adapter named by cfg
func NewWebServerFromConfig(cfg Config) (WebServer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewWebServer(cfg.Adapter)
}

func registerRoutes(server WebServer, handlers *Handlers, logger *zap.Logger) {
	server.Use(RequestID())
	server.Use(AccessLog(logger))
	handlers.Register(server)
}

func registerLifecycle(lc fx.Lifecycle, server WebServer, cfg Config, logger *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting server", zap.String("adapter", server.Name()), zap.String("addr", cfg.Addr))
			go func() {
				if err := server.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server exited", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server", zap.String("adapter", server.Name()))
			err := server.Stop(ctx)
			_ = logger.Sync()
			return err
		},
	})
}
