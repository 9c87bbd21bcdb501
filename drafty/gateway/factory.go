package gateway

import (
	"fmt"

	"github.com/ZanzyTHEbar/drafty-mcp/drafty/api"
	"github.com/ZanzyTHEbar/drafty-mcp/drafty/config"
	"github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/adapters"
	ports "github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/ports"
	"github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/tools"

	"github.com/rs/zerolog"
)

// Factory creates and wires gateway components from configuration.
type Factory struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// NewFactory creates a new gateway factory. cfg is treated as read-only.
func NewFactory(cfg *config.Config, logger zerolog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateServer creates a fully wired MCP server from config.
func (f *Factory) CreateServer() (*Server, error) {
	dispatcher, err := f.CreateDispatcher()
	if err != nil {
		return nil, err
	}
	return NewServer(f.cfg.Server.Name, f.cfg.Server.Version, dispatcher, f.logger), nil
}

// CreateDispatcher wires the API client, tools, guardrails and tracer.
func (f *Factory) CreateDispatcher() (*Dispatcher, error) {
	client, err := api.NewClient(f.cfg.Drafty, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create drafty client: %w", err)
	}

	catalog, err := f.CreateCatalog(client)
	if err != nil {
		return nil, err
	}

	guardrails, err := f.createGuardrails(catalog)
	if err != nil {
		return nil, err
	}

	return NewDispatcher(catalog, guardrails, f.createTracer(), f.createRateLimiter(), f.logger), nil
}

// CreateCatalog builds the fixed three-tool catalog around client.
func (f *Factory) CreateCatalog(client tools.PostsAPI) (*Catalog, error) {
	loc, err := f.cfg.Location()
	if err != nil {
		return nil, err
	}

	return NewCatalog(
		tools.NewCreatePostTool(client),
		tools.NewListPostsTool(client, loc),
		tools.NewUpdatePostTool(client),
	)
}

// createGuardrails allows exactly the catalog tools and hides the credential.
func (f *Factory) createGuardrails(catalog *Catalog) (*Guardrails, error) {
	guardrails := NewGuardrails()
	guardrails.SetArgumentValidation(f.cfg.Tools.ValidateArguments)
	guardrails.AddSecret(f.cfg.Drafty.APIKey)

	for _, spec := range catalog.Specs() {
		if err := guardrails.AddAllowedTool(spec); err != nil {
			return nil, err
		}
	}

	return guardrails, nil
}

// createTracer creates a tracer adapter from config.
func (f *Factory) createTracer() ports.Tracer {
	if !f.cfg.Log.Tracing {
		return adapters.NoopTracer{}
	}

	return adapters.NewZerologTracer(f.logger)
}

// createRateLimiter creates a per-tool limiter from config.
func (f *Factory) createRateLimiter() ports.RateLimiter {
	rl := f.cfg.Tools.RateLimit
	if !rl.Enabled {
		return adapters.NoopRateLimiter{}
	}

	return adapters.NewTokenBucket(rl.Capacity, rl.RefillInterval)
}
