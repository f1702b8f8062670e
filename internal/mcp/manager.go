package mcp

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"sync"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docseekhq/docseek/internal/llm"
	"github.com/docseekhq/docseek/internal/version"
)

// ToolInfo holds metadata about one server tool, keyed by its
// qualified name and carrying the raw name needed for dispatch.
type ToolInfo struct {
	ToolName    string
	Description string
	InputSchema map[string]any
}

// Manager owns the single retrieval server session for the process
// lifetime: Connect once at startup, Close on every exit path.
type Manager struct {
	config ServerConfig

	mu      sync.Mutex
	session *gomcp.ClientSession
	tools   map[string]ToolInfo // qualified name → tool metadata
}

// NewManager creates a disconnected manager for the given server.
func NewManager(config ServerConfig) *Manager {
	return &Manager{
		config: config,
		tools:  make(map[string]ToolInfo),
	}
}

// Connect starts the server session and discovers its tools, applying
// the configured filter and name qualification. Safe to call once.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.dial(ctx)
	if err != nil {
		return err
	}

	listCtx, cancel := context.WithTimeout(ctx, m.config.StartupTimeout())
	defer cancel()

	toolsResult, err := session.ListTools(listCtx, nil)
	if err != nil {
		_ = session.Close()
		return fmt.Errorf("failed to list tools for %s: %w", m.config.ServerName(), err)
	}

	filter := NewToolFilter(m.config.EnabledTools, m.config.DisabledTools)
	tools := make(map[string]ToolInfo)
	for _, t := range toolsResult.Tools {
		if !filter.Allows(t.Name) {
			continue
		}
		qualified := QualifyToolName(m.config.ServerName(), t.Name)
		if _, dup := tools[qualified]; dup {
			log.Printf("mcp: skipping duplicated tool %s", qualified)
			continue
		}
		info := ToolInfo{ToolName: t.Name, Description: t.Description}
		if schema, ok := t.InputSchema.(map[string]any); ok {
			info.InputSchema = schema
		}
		tools[qualified] = info
	}

	m.session = session
	m.tools = tools
	return nil
}

// dial creates the client session over the configured transport.
func (m *Manager) dial(ctx context.Context) (*gomcp.ClientSession, error) {
	transport := m.config.Transport
	name := m.config.ServerName()

	client := gomcp.NewClient(&gomcp.Implementation{
		Name:    "docseek",
		Version: version.Version,
	}, nil)

	connectCtx, cancel := context.WithTimeout(ctx, m.config.StartupTimeout())
	defer cancel()

	if transport.IsStdio() {
		cmd := exec.CommandContext(connectCtx, transport.Command, transport.Args...)
		for k, v := range transport.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
		session, err := client.Connect(connectCtx, &gomcp.CommandTransport{Command: cmd}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MCP server %s (stdio): %w", name, err)
		}
		return session, nil
	}

	if transport.IsHTTP() {
		session, err := client.Connect(connectCtx, &gomcp.StreamableClientTransport{Endpoint: transport.URL}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MCP server %s (HTTP): %w", name, err)
		}
		return session, nil
	}

	return nil, fmt.Errorf("MCP server %s has neither command nor URL configured", name)
}

// ToolSpecs returns the discovered tools as provider-facing specs.
func (m *Manager) ToolSpecs() []llm.ToolSpec {
	m.mu.Lock()
	defer m.mu.Unlock()

	specs := make([]llm.ToolSpec, 0, len(m.tools))
	for qualified, info := range m.tools {
		specs = append(specs, llm.ToolSpec{
			Name:        qualified,
			Description: info.Description,
			InputSchema: info.InputSchema,
		})
	}
	return specs
}

// CallTool dispatches a qualified tool call to the server with the
// per-call timeout. The returned string is the concatenated text
// content; isError mirrors the server's error flag.
func (m *Manager) CallTool(ctx context.Context, qualifiedName string, args map[string]any) (content string, isError bool, err error) {
	m.mu.Lock()
	session := m.session
	info, known := m.tools[qualifiedName]
	m.mu.Unlock()

	if session == nil {
		return "", false, fmt.Errorf("MCP server %q not connected", m.config.ServerName())
	}
	if !known {
		return "", false, fmt.Errorf("unknown tool %q", qualifiedName)
	}

	callCtx, cancel := context.WithTimeout(ctx, m.config.ToolTimeout())
	defer cancel()

	result, err := session.CallTool(callCtx, &gomcp.CallToolParams{
		Name:      info.ToolName,
		Arguments: args,
	})
	if err != nil {
		return "", false, fmt.Errorf("MCP tool call %s failed: %w", qualifiedName, err)
	}

	return flattenContent(result), result.IsError, nil
}

// flattenContent joins the text blocks of a tool result.
func flattenContent(result *gomcp.CallToolResult) string {
	var out string
	for _, block := range result.Content {
		if text, ok := block.(*gomcp.TextContent); ok {
			if out != "" {
				out += "\n"
			}
			out += text.Text
		}
	}
	return out
}

// SetToolInfo injects tool metadata without a live session. Test hook.
func (m *Manager) SetToolInfo(qualifiedName string, info ToolInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tools[qualifiedName] = info
}

// Close shuts down the server session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		if err := m.session.Close(); err != nil {
			log.Printf("mcp: error closing session for %s: %v", m.config.ServerName(), err)
		}
		m.session = nil
	}
	m.tools = make(map[string]ToolInfo)
}
