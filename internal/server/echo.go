package server

import (
	"context"
	"io"

	"github.com/labstack/echo/v4"
)

// EchoAdapter implements WebServer for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates a new Echo adapter with a quiet Echo instance
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &EchoAdapter{engine: e}
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	echoMiddlewares := make([]echo.MiddlewareFunc, len(middlewares))
	for i, mw := range middlewares {
		echoMiddlewares[i] = ea.convertMiddleware(mw)
	}

	ea.engine.Add(method, path, ea.convertHandler(handler), echoMiddlewares...)
}

// Use adds global middleware
func (ea *EchoAdapter) Use(middleware MiddlewareFunc) {
	ea.engine.Use(ea.convertMiddleware(middleware))
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine returns the underlying Echo instance
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}

func (ea *EchoAdapter) convertHandler(handler HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := handler(&echoContext{context: c}); err != nil {
			code, body := errorStatus(err)
			return c.JSON(code, body)
		}
		return nil
	}
}

func (ea *EchoAdapter) convertMiddleware(middleware MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wrapped := middleware(func(Context) error {
				return next(c)
			})
			return wrapped(&echoContext{context: c})
		}
	}
}

// echoContext implements Context for Echo
type echoContext struct {
	context echo.Context
}

func (ec *echoContext) Method() string {
	return ec.context.Request().Method
}

func (ec *echoContext) Path() string {
	return ec.context.Request().URL.Path
}

func (ec *echoContext) Body() ([]byte, error) {
	return io.ReadAll(ec.context.Request().Body)
}

func (ec *echoContext) Header(key string) string {
	return ec.context.Request().Header.Get(key)
}

func (ec *echoContext) SetHeader(key, value string) {
	ec.context.Response().Header().Set(key, value)
}

func (ec *echoContext) Get(key string) any {
	return ec.context.Get(key)
}

func (ec *echoContext) Set(key string, val any) {
	ec.context.Set(key, val)
}

func (ec *echoContext) JSON(code int, v any) error {
	return ec.context.JSON(code, v)
}

func (ec *echoContext) Status() int {
	return ec.context.Response().Status
}
