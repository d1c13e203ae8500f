package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/toyz/fnspec/internal/catalog"
	"github.com/toyz/fnspec/pkg/specs"
	"github.com/toyz/fnspec/pkg/specs/builder"
)

type parseRequest struct {
	Definition *string `json:"definition"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type functionResponse struct {
	Name       string              `json:"name"`
	Definition string              `json:"definition"`
	Spec       *specs.FunctionSpec `json:"spec"`
}

// Handlers serves the HTTP endpoints
type Handlers struct {
	builder   builder.FunctionSpecBuilder
	functions []catalog.Entry
	logger    *zap.Logger
}

// NewHandlers creates handlers that build definitions with b and list the
// given catalog entries
func NewHandlers(b builder.FunctionSpecBuilder, functions []catalog.Entry, logger *zap.Logger) *Handlers {
	return &Handlers{builder: b, functions: functions, logger: logger}
}

// Register mounts every route on server
func (h *Handlers) Register(server WebServer) {
	server.RegisterRoute(http.MethodPost, "/v1/specs", h.ParseSpec)
	server.RegisterRoute(http.MethodGet, "/v1/functions", h.ListFunctions)
	server.RegisterRoute(http.MethodGet, "/healthz", h.Health)
}

// ParseSpec builds the definition carried in the request body
func (h *Handlers) ParseSpec(c Context) error {
	body, err := c.Body()
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "unable to read request body")
	}

	var req parseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: errorDetail{Kind: "BadRequest", Message: "request body must be a JSON object"}})
	}
	if req.Definition == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: errorDetail{Kind: "BadRequest", Message: "missing field: definition"}})
	}

	spec, err := h.builder.Build(*req.Definition)
	if err != nil {
		var specErr *specs.Error
		if !errors.As(err, &specErr) {
			return err
		}

		h.logger.Debug("definition rejected",
			zap.String("kind", specErr.Kind.String()),
			zap.String("request_id", RequestIDFrom(c)),
		)
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: errorDetail{Kind: specErr.Kind.String(), Message: specErr.Error()}})
	}

	return c.JSON(http.StatusOK, spec)
}

// ListFunctions returns the catalog loaded at startup
func (h *Handlers) ListFunctions(c Context) error {
	out := make([]functionResponse, 0, len(h.functions))
	for _, entry := range h.functions {
		out = append(out, functionResponse{Name: entry.Name, Definition: entry.Definition, Spec: entry.Spec})
	}
	return c.JSON(http.StatusOK, map[string]any{"functions": out})
}

// Health reports liveness
func (h *Handlers) Health(c Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
