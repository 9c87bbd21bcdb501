package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	ports "github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/ports"

	"github.com/xeipuuv/gojsonschema"
)

// ErrUnknownTool is returned for names outside the allowlist.
var ErrUnknownTool = errors.New("unknown tool")

// UnknownToolError names the rejected tool. Its text is what callers see.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return "Unknown tool: " + e.Name
}

func (e *UnknownToolError) Is(target error) bool {
	return target == ErrUnknownTool
}

const redacted = "[REDACTED]"

// Shorter values would match ordinary digits and words in tool output.
const minSecretLen = 8

// Guardrails enforces the tool allowlist, argument schemas and credential
// redaction. It is configured once and read-only afterwards.
type Guardrails struct {
	allowlist     map[string]bool // allowed tool names
	secrets       []string        // values masked in output
	jsonValidator *JSONValidator  // per-tool argument schemas
	validateArgs  bool
}

// NewGuardrails creates guardrails with argument validation enabled.
func NewGuardrails() *Guardrails {
	return &Guardrails{
		allowlist:     make(map[string]bool),
		jsonValidator: NewJSONValidator(),
		validateArgs:  true,
	}
}

// AddAllowedTool adds a tool and its argument schema to the allowlist.
func (g *Guardrails) AddAllowedTool(spec ports.ToolSpec) error {
	if err := g.jsonValidator.Register(spec.Name, spec.JSONSchema); err != nil {
		return err
	}
	g.allowlist[spec.Name] = true
	return nil
}

// AddSecret registers a value that must never reach a caller. Values
// shorter than minSecretLen are ignored.
func (g *Guardrails) AddSecret(secret string) {
	if len(strings.TrimSpace(secret)) >= minSecretLen {
		g.secrets = append(g.secrets, secret)
	}
}

// SetArgumentValidation toggles schema checks. With validation off,
// arguments are forwarded as-is and the remote API decides.
func (g *Guardrails) SetArgumentValidation(enabled bool) {
	g.validateArgs = enabled
}

// ValidateToolCall checks if a tool call is allowed and well-formed.
func (g *Guardrails) ValidateToolCall(call ports.ToolCall) error {
	if !g.allowlist[call.Name] {
		return &UnknownToolError{Name: call.Name}
	}

	if !g.validateArgs {
		return nil
	}

	if err := g.jsonValidator.Validate(call.Name, call.Args); err != nil {
		return fmt.Errorf("invalid arguments for %s: %w", call.Name, err)
	}
	return nil
}

// SanitizeOutput masks registered secrets.
func (g *Guardrails) SanitizeOutput(output string) string {
	sanitized := output
	for _, secret := range g.secrets {
		sanitized = strings.ReplaceAll(sanitized, secret, redacted)
	}
	return sanitized
}

// JSONValidator handles JSON schema validation against precompiled schemas.
type JSONValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewJSONValidator creates a new JSON validator.
func NewJSONValidator() *JSONValidator {
	return &JSONValidator{schemas: make(map[string]*gojsonschema.Schema)}
}

// Register compiles and stores the schema for name. An empty schema
// disables validation for that name.
func (v *JSONValidator) Register(name string, schema []byte) error {
	if len(schema) == 0 {
		return nil
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return fmt.Errorf("invalid schema for %s: %w", name, err)
	}
	v.schemas[name] = compiled
	return nil
}

// Validate checks if JSON data conforms to the schema registered for name.
func (v *JSONValidator) Validate(name string, data json.RawMessage) error {
	schema, ok := v.schemas[name]
	if !ok {
		return nil // no schema to validate against
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		data = json.RawMessage("{}")
	}
	if !json.Valid(data) {
		return fmt.Errorf("data is not valid JSON")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var errs []string
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}
