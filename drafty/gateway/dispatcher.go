package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/drafty-mcp/drafty/api"
	ports "github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/panics"
)

// Dispatcher routes invocations to catalog tools and turns every outcome
// into exactly one Envelope.
type Dispatcher struct {
	catalog    *Catalog
	guardrails *Guardrails
	tracer     ports.Tracer
	limiter    ports.RateLimiter
	logger     zerolog.Logger
}

// NewDispatcher creates a dispatcher. The guardrails allowlist should match
// the catalog.
func NewDispatcher(catalog *Catalog, guardrails *Guardrails, tracer ports.Tracer, limiter ports.RateLimiter, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		catalog:    catalog,
		guardrails: guardrails,
		tracer:     tracer,
		limiter:    limiter,
		logger:     logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Catalog returns the tools this dispatcher serves.
func (d *Dispatcher) Catalog() *Catalog {
	return d.catalog
}

// Handle invokes the named tool with an argument mapping.
func (d *Dispatcher) Handle(ctx context.Context, name string, args map[string]any) Envelope {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return ErrorEnvelope(d.guardrails.SanitizeOutput(fmt.Sprintf("invalid arguments for %s: %v", name, err)))
	}
	return d.HandleRaw(ctx, name, raw)
}

// HandleRaw invokes the named tool with JSON arguments. It never panics and
// never returns an error; failures are error envelopes.
func (d *Dispatcher) HandleRaw(ctx context.Context, name string, args json.RawMessage) Envelope {
	invocationID := uuid.NewString()
	ctx = api.WithRequestID(ctx, invocationID)

	ctx, finish := d.tracer.StartSpan(ctx, "tool_call", map[string]any{
		"tool":          name,
		"invocation_id": invocationID,
	})

	start := time.Now()
	result := d.invoke(ctx, name, args)
	result.Text = d.guardrails.SanitizeOutput(result.Text)

	d.logger.Debug().
		Str("tool", name).
		Str("invocation_id", invocationID).
		Bool("is_error", result.IsError).
		Dur("duration", time.Since(start)).
		Msg("tool call finished")

	if result.IsError {
		finish(errors.New(result.Text))
		return ErrorEnvelope(result.Text)
	}
	finish(nil)
	return TextEnvelope(result.Text)
}

func (d *Dispatcher) invoke(ctx context.Context, name string, args json.RawMessage) (result ports.Result) {
	if err := d.guardrails.ValidateToolCall(ports.ToolCall{Name: name, Args: args}); err != nil {
		return ports.FailureFromError(err)
	}

	tool, ok := d.catalog.Lookup(name)
	if !ok {
		return ports.FailureFromError(&UnknownToolError{Name: name})
	}
	d.tracer.Event(ctx, "arguments_accepted", nil)

	if err := d.limiter.Acquire(ctx, name); err != nil {
		return ports.Failure(fmt.Sprintf("%s: %v", name, err))
	}

	var pc panics.Catcher
	pc.Try(func() {
		result = tool.Invoke(ctx, args)
	})
	if r := pc.Recovered(); r != nil {
		d.logger.Error().Str("tool", name).Str("stack", string(r.Stack)).Msgf("tool panicked: %v", r.Value)
		return ports.Failure(fmt.Sprintf("%s failed unexpectedly: %v", name, r.Value))
	}

	return result
}
