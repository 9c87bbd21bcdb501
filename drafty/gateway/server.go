package gateway

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Server exposes a Dispatcher over the Model Context Protocol.
type Server struct {
	mcp        *server.MCPServer
	dispatcher *Dispatcher
	logger     zerolog.Logger
}

// NewServer registers every catalog tool with an MCP server.
func NewServer(name, version string, dispatcher *Dispatcher, logger zerolog.Logger) *Server {
	s := &Server{
		mcp: server.NewMCPServer(name, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "mcp_server").Logger(),
	}

	for _, spec := range dispatcher.Catalog().Specs() {
		tool := mcp.NewToolWithRawSchema(spec.Name, spec.Description, json.RawMessage(spec.JSONSchema))
		s.mcp.AddTool(tool, s.handleCall)
	}

	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) handleCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return ErrorEnvelope("invalid arguments for " + req.Params.Name + ": " + err.Error()).ToMCP(), nil
	}
	return s.dispatcher.HandleRaw(ctx, req.Params.Name, args).ToMCP(), nil
}

// toolCall is the part of a tools/call request needed to route it.
type toolCall struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      mcp.RequestId `json:"id"`
	Method  mcp.MCPMethod `json:"method"`
	Params  struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"params"`
}

// HandleMessage processes one JSON-RPC message. A tools/call for a name
// outside the catalog is answered with an error envelope result; mcp-go
// would otherwise reject it with a protocol error. It returns nil for
// notifications.
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	var call toolCall
	if err := json.Unmarshal(raw, &call); err == nil &&
		call.JSONRPC == mcp.JSONRPC_VERSION &&
		call.Method == mcp.MethodToolsCall &&
		!call.ID.IsNil() {
		if _, ok := s.dispatcher.Catalog().Lookup(call.Params.Name); !ok {
			return mcp.JSONRPCResponse{
				JSONRPC: mcp.JSONRPC_VERSION,
				ID:      call.ID,
				Result:  s.dispatcher.HandleRaw(ctx, call.Params.Name, call.Params.Arguments).ToMCP(),
			}
		}
	}

	return s.mcp.HandleMessage(ctx, raw)
}

// ServeStdio serves newline-delimited JSON-RPC on in/out until ctx is
// cancelled or in is closed. Diagnostics go to the logger, never to out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info().Strs("tools", s.dispatcher.Catalog().Names()).Msg("Drafty MCP server running on stdio")

	type readResult struct {
		line []byte
		err  error
	}
	lines := make(chan readResult)

	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadBytes('\n')
			select {
			case lines <- readResult{line: line, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-lines:
			if !ok {
				return ctx.Err()
			}
			if line := bytes.TrimSpace(res.line); len(line) > 0 {
				if err := s.serveLine(ctx, line, out); err != nil {
					return err
				}
			}
			if res.err != nil {
				if errors.Is(res.err, io.EOF) {
					return nil
				}
				s.logger.Error().Err(res.err).Msg("error reading input")
				return res.err
			}
		}
	}
}

func (s *Server) serveLine(ctx context.Context, line []byte, out io.Writer) error {
	response := s.HandleMessage(ctx, json.RawMessage(line))
	if response == nil {
		return nil
	}

	payload, err := json.Marshal(response)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
		return nil
	}
	if _, err := fmt.Fprintf(out, "%s\n", payload); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
