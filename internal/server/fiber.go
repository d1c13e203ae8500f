package server

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// FiberAdapter wraps a Fiber app to implement WebServer
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter instance
func NewFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a new Fiber adapter with panic recovery
func NewDefaultFiberAdapter() *FiberAdapter {
	adapter := NewFiberAdapter()
	adapter.app.Use(recover.New())
	return adapter
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	var handlers []fiber.Handler
	for _, mw := range middlewares {
		handlers = append(handlers, convertMiddlewareToFiber(mw))
	}
	handlers = append(handlers, convertHandlerToFiber(handler))

	fa.app.Add(strings.ToUpper(method), path, handlers...)
}

// Use adds middleware to the Fiber app
func (fa *FiberAdapter) Use(middleware MiddlewareFunc) {
	fa.app.Use(convertMiddlewareToFiber(middleware))
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the Fiber server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}

func convertHandlerToFiber(handler HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := handler(&fiberContext{ctx: c}); err != nil {
			code, body := errorStatus(err)
			return c.Status(code).JSON(body)
		}
		return nil
	}
}

func convertMiddlewareToFiber(middleware MiddlewareFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := middleware(func(Context) error {
			return c.Next()
		})(&fiberContext{ctx: c})

		if err != nil {
			code, body := errorStatus(err)
			return c.Status(code).JSON(body)
		}
		return nil
	}
}

// fiberContext wraps fiber.Ctx to implement Context
type fiberContext struct {
	ctx *fiber.Ctx
}

func (fc *fiberContext) Method() string {
	return fc.ctx.Method()
}

func (fc *fiberContext) Path() string {
	return fc.ctx.Path()
}

// Body copies the request body; fasthttp reuses the underlying buffer
func (fc *fiberContext) Body() ([]byte, error) {
	body := fc.ctx.Body()
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (fc *fiberContext) Header(key string) string {
	return fc.ctx.Get(key)
}

func (fc *fiberContext) SetHeader(key, value string) {
	fc.ctx.Set(key, value)
}

func (fc *fiberContext) Get(key string) any {
	return fc.ctx.Locals(key)
}

func (fc *fiberContext) Set(key string, val any) {
	fc.ctx.Locals(key, val)
}

func (fc *fiberContext) JSON(code int, v any) error {
	return fc.ctx.Status(code).JSON(v)
}

func (fc *fiberContext) Status() int {
	return fc.ctx.Response().StatusCode()
}
