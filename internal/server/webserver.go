// Package server exposes function spec parsing over HTTP behind a
// framework-agnostic web server abstraction.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// WebServer defines the contract for web server implementations
type WebServer interface {
	// Route registration
	RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc)

	// Global middleware, applied to routes registered afterwards
	Use(middleware MiddlewareFunc)

	// Server lifecycle
	Start(addr string) error
	Stop(ctx context.Context) error

	// Server information
	Name() string
}

// Context is the slice of a request/response pair the handlers need
type Context interface {
	Method() string
	Path() string
	Body() ([]byte, error)

	Header(key string) string
	SetHeader(key, value string)

	Get(key string) any
	Set(key string, val any)

	JSON(code int, v any) error
	Status() int
}

// HandlerFunc defines the signature for HTTP handlers
type HandlerFunc func(Context) error

// MiddlewareFunc defines the signature for middleware
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// HTTPError represents an HTTP error with status code and message
type HTTPError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

func (he *HTTPError) Error() string {
	if he.Internal != nil {
		return he.Internal.Error()
	}
	return he.Message
}

func (he *HTTPError) Unwrap() error {
	return he.Internal
}

// NewHTTPError creates an HTTPError, defaulting the message to the status text
func NewHTTPError(code int, message ...string) *HTTPError {
	he := &HTTPError{Code: code, Message: http.StatusText(code)}
	if len(message) > 0 {
		he.Message = message[0]
	}
	return he
}

// errorStatus maps a handler error onto a status code and body
func errorStatus(err error) (int, map[string]any) {
	if httpErr, ok := err.(*HTTPError); ok {
		return httpErr.Code, map[string]any{"error": httpErr.Message}
	}
	return http.StatusInternalServerError, map[string]any{"error": err.Error()}
}

// Adapter names accepted by NewWebServer
const (
	AdapterEcho  = "echo"
	AdapterGin   = "gin"
	AdapterFiber = "fiber"
)

// NewWebServer creates the adapter registered under name
func NewWebServer(name string) (WebServer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case AdapterEcho, "":
		return NewDefaultEchoAdapter(), nil
	case AdapterGin:
		return NewDefaultGinAdapter(), nil
	case AdapterFiber:
		return NewDefaultFiberAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown web server adapter %q (expected echo, gin or fiber)", name)
	}
}
