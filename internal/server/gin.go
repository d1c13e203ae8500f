package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// GinAdapter implements WebServer for the Gin framework. Gin has no
// shutdown of its own, so the engine is served through an http.Server.
type GinAdapter struct {
	engine *gin.Engine

	mu  sync.Mutex
	srv *http.Server
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a new Gin adapter with panic recovery
func NewDefaultGinAdapter() *GinAdapter {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	return &GinAdapter{engine: engine}
}

// RegisterRoute registers a route with the Gin server
func (ga *GinAdapter) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	var handlers []gin.HandlerFunc
	for _, middleware := range middlewares {
		handlers = append(handlers, ga.convertMiddleware(middleware))
	}
	handlers = append(handlers, ga.convertHandler(handler))

	ga.engine.Handle(method, path, handlers...)
}

// Use registers a global middleware with the Gin server
func (ga *GinAdapter) Use(middleware MiddlewareFunc) {
	ga.engine.Use(ga.convertMiddleware(middleware))
}

// Start serves the engine on addr until Stop is called
func (ga *GinAdapter) Start(addr string) error {
	ga.mu.Lock()
	ga.srv = &http.Server{Addr: addr, Handler: ga.engine}
	srv := ga.srv
	ga.mu.Unlock()

	return srv.ListenAndServe()
}

// Stop gracefully shuts the server down
func (ga *GinAdapter) Stop(ctx context.Context) error {
	ga.mu.Lock()
	srv := ga.srv
	ga.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}

func (ga *GinAdapter) convertHandler(handler HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(&ginContext{ctx: c}); err != nil {
			code, body := errorStatus(err)
			c.JSON(code, body)
		}
	}
}

func (ga *GinAdapter) convertMiddleware(middleware MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := func(Context) error {
			c.Next()
			return nil
		}

		if err := middleware(next)(&ginContext{ctx: c}); err != nil {
			code, body := errorStatus(err)
			c.AbortWithStatusJSON(code, body)
		}
	}
}

// ginContext implements Context for Gin
type ginContext struct {
	ctx *gin.Context
}

func (gc *ginContext) Method() string {
	return gc.ctx.Request.Method
}

func (gc *ginContext) Path() string {
	return gc.ctx.Request.URL.Path
}

func (gc *ginContext) Body() ([]byte, error) {
	return io.ReadAll(gc.ctx.Request.Body)
}

func (gc *ginContext) Header(key string) string {
	return gc.ctx.GetHeader(key)
}

func (gc *ginContext) SetHeader(key, value string) {
	gc.ctx.Header(key, value)
}

func (gc *ginContext) Get(key string) any {
	value, _ := gc.ctx.Get(key)
	return value
}

func (gc *ginContext) Set(key string, val any) {
	gc.ctx.Set(key, val)
}

func (gc *ginContext) JSON(code int, v any) error {
	gc.ctx.JSON(code, v)
	return nil
}

func (gc *ginContext) Status() int {
	return gc.ctx.Writer.Status()
}
