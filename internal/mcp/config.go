// Package mcp manages the connection to the documentation-search MCP
// server and exposes its tools to the agent.
package mcp

import "time"

// Default timeout for starting the server and listing its tools.
const DefaultStartupTimeout = 10 * time.Second

// Default timeout for individual tool calls.
const DefaultToolTimeout = 60 * time.Second

// ServerConfig configures the retrieval MCP server connection.
type ServerConfig struct {
	// Name qualifies tool names; defaults to "docs".
	Name string `json:"name,omitempty"`

	// Transport configuration (stdio or streamable HTTP).
	Transport TransportConfig `json:"transport"`

	// Timeout for server startup and initial tool listing.
	StartupTimeoutSec *int `json:"startup_timeout_sec,omitempty"`

	// Timeout for individual tool calls.
	ToolTimeoutSec *int `json:"tool_timeout_sec,omitempty"`

	// Explicit allow-list of tool names. If set, only these are exposed.
	EnabledTools []string `json:"enabled_tools,omitempty"`

	// Explicit deny-list of tool names. These are never exposed.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// ServerName returns the configured name, defaulting to "docs".
func (c *ServerConfig) ServerName() string {
	if c.Name == "" {
		return "docs"
	}
	return c.Name
}

// StartupTimeout returns the startup timeout, using the default if unset.
func (c *ServerConfig) StartupTimeout() time.Duration {
	if c.StartupTimeoutSec != nil {
		return time.Duration(*c.StartupTimeoutSec) * time.Second
	}
	return DefaultStartupTimeout
}

// ToolTimeout returns the tool call timeout, using the default if unset.
func (c *ServerConfig) ToolTimeout() time.Duration {
	if c.ToolTimeoutSec != nil {
		return time.Duration(*c.ToolTimeoutSec) * time.Second
	}
	return DefaultToolTimeout
}

// TransportConfig specifies how to reach the MCP server. Command and
// URL are mutually exclusive.
type TransportConfig struct {
	// Stdio transport: spawn a subprocess.
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`

	// Streamable HTTP transport: connect to a URL.
	URL string `json:"url,omitempty"`
}

// IsStdio returns true if this config uses stdio transport.
func (t *TransportConfig) IsStdio() bool {
	return t.Command != ""
}

// IsHTTP returns true if this config uses streamable HTTP transport.
func (t *TransportConfig) IsHTTP() bool {
	return t.URL != ""
}

// ToolFilter controls which server tools are exposed. A tool passes
// when it is in the allow-list (or no allow-list exists) and not in
// the deny-list.
type ToolFilter struct {
	Enabled  map[string]bool // allow-list (nil = allow all)
	Disabled map[string]bool // deny-list
}

// NewToolFilter creates a ToolFilter from the config's tool lists.
func NewToolFilter(enabledTools, disabledTools []string) ToolFilter {
	var enabled map[string]bool
	if len(enabledTools) > 0 {
		enabled = make(map[string]bool, len(enabledTools))
		for _, t := range enabledTools {
			enabled[t] = true
		}
	}

	disabled := make(map[string]bool, len(disabledTools))
	for _, t := range disabledTools {
		disabled[t] = true
	}

	return ToolFilter{Enabled: enabled, Disabled: disabled}
}

// Allows returns whether the given tool name passes the filter.
func (f *ToolFilter) Allows(toolName string) bool {
	if f.Enabled != nil && !f.Enabled[toolName] {
		return false
	}
	return !f.Disabled[toolName]
}
