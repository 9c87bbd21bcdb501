package gatewayports

import (
	"context"
	"encoding/json"
)

// ToolSpec describes a callable tool exposed to MCP clients.
type ToolSpec struct {
	Name        string // unique logical name
	Description string // concise doc for tool selection
	JSONSchema  []byte // JSON schema for args
}

// Result is the outcome of one tool invocation. Adapters return failures as
// values; nothing is thrown across the dispatcher boundary.
type Result struct {
	Text    string
	IsError bool
}

// Success wraps human-readable output.
func Success(text string) Result {
	return Result{Text: text}
}

// Failure wraps an error message.
func Failure(msg string) Result {
	return Result{Text: msg, IsError: true}
}

// FailureFromError converts err into a failed Result.
func FailureFromError(err error) Result {
	return Failure(err.Error())
}

// Tool defines the runtime that executes a tool call.
type Tool interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, args json.RawMessage) Result
}

// ToolCall is a single named invocation with JSON arguments.
type ToolCall struct {
	Name string
	Args json.RawMessage
}
