package mcp

import (
	"crypto/sha1"
	"fmt"
)

const (
	// ToolNameDelimiter separates "mcp", server name, and tool name.
	ToolNameDelimiter = "__"

	// ToolNamePrefix is the prefix for all qualified MCP tool names.
	ToolNamePrefix = "mcp"

	// MaxToolNameLength is the maximum length for a qualified name.
	// Providers require tool names matching ^[a-zA-Z0-9_-]+$, <= 64 chars.
	MaxToolNameLength = 64
)

// SanitizeName replaces characters not in [a-zA-Z0-9_-] with underscore.
// Returns "_" if the input is empty.
func SanitizeName(name string) string {
	sanitized := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-' {
			sanitized = append(sanitized, c)
		} else {
			sanitized = append(sanitized, '_')
		}
	}
	if len(sanitized) == 0 {
		return "_"
	}
	return string(sanitized)
}

func sha1Hex(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// QualifyToolName builds the provider-facing name for a server tool:
// mcp__<sanitized_server>__<sanitized_tool>, truncated with a SHA1
// suffix when it exceeds MaxToolNameLength.
func QualifyToolName(serverName, toolName string) string {
	raw := ToolNamePrefix + ToolNameDelimiter + serverName + ToolNameDelimiter + toolName
	qualified := SanitizeName(raw)

	if len(qualified) > MaxToolNameLength {
		hash := sha1Hex(raw)
		prefixLen := MaxToolNameLength - len(hash)
		qualified = qualified[:prefixLen] + hash
	}

	return qualified
}
