package gateway

import (
	"fmt"

	ports "github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/ports"
)

// Catalog is the immutable, ordered set of tools served to callers.
type Catalog struct {
	specs []ports.ToolSpec
	tools map[string]ports.Tool
}

// NewCatalog builds a catalog in registration order. Names must be unique.
func NewCatalog(tools ...ports.Tool) (*Catalog, error) {
	c := &Catalog{
		specs: make([]ports.ToolSpec, 0, len(tools)),
		tools: make(map[string]ports.Tool, len(tools)),
	}
	for _, tool := range tools {
		spec := tool.Spec()
		if spec.Name == "" {
			return nil, fmt.Errorf("tool name cannot be empty")
		}
		if _, dup := c.tools[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", spec.Name)
		}
		c.tools[spec.Name] = tool
		c.specs = append(c.specs, spec)
	}
	return c, nil
}

// Specs returns a copy of the tool descriptors.
func (c *Catalog) Specs() []ports.ToolSpec {
	out := make([]ports.ToolSpec, len(c.specs))
	for i, s := range c.specs {
		s.JSONSchema = append([]byte(nil), s.JSONSchema...)
		out[i] = s
	}
	return out
}

// Names returns tool names in registration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.specs))
	for i, s := range c.specs {
		names[i] = s.Name
	}
	return names
}

// Lookup finds a tool by exact name.
func (c *Catalog) Lookup(name string) (ports.Tool, bool) {
	tool, ok := c.tools[name]
	return tool, ok
}
