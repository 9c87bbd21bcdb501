package gateway

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrorPrefix starts the text of every error envelope.
const ErrorPrefix = "❌ Error: "

// Content is one block of envelope output. Only "text" is produced.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Envelope is the uniform response returned for every invocation.
type Envelope struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextEnvelope wraps a successful result.
func TextEnvelope(text string) Envelope {
	return Envelope{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorEnvelope wraps a failure message.
func ErrorEnvelope(message string) Envelope {
	return Envelope{
		Content: []Content{{Type: "text", Text: ErrorPrefix + message}},
		IsError: true,
	}
}

// Text joins all content blocks.
func (e Envelope) Text() string {
	parts := make([]string, 0, len(e.Content))
	for _, c := range e.Content {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n")
}

// ToMCP converts the envelope into an MCP tool result.
func (e Envelope) ToMCP() *mcp.CallToolResult {
	res := &mcp.CallToolResult{IsError: e.IsError}
	for _, c := range e.Content {
		res.Content = append(res.Content, mcp.NewTextContent(c.Text))
	}
	return res
}
