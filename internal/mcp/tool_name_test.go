package mcp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"search", "search"},
		{"get-docs", "get-docs"},
		{"resolve.library", "resolve_library"},
		{"weird name!", "weird_name_"},
		{"", "_"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in))
	}
}

func TestQualifyToolName(t *testing.T) {
	assert.Equal(t, "mcp__docs__search", QualifyToolName("docs", "search"))
}

func TestQualifyToolName_LongNamesTruncated(t *testing.T) {
	name := QualifyToolName("docs", strings.Repeat("a", 100))
	assert.Len(t, name, MaxToolNameLength)

	// Distinct long names must not collide after truncation.
	other := QualifyToolName("docs", strings.Repeat("a", 99)+"b")
	assert.NotEqual(t, name, other)
}

func TestToolFilter(t *testing.T) {
	f := NewToolFilter(nil, []string{"dangerous"})
	assert.True(t, f.Allows("search"))
	assert.False(t, f.Allows("dangerous"))

	f = NewToolFilter([]string{"search"}, nil)
	assert.True(t, f.Allows("search"))
	assert.False(t, f.Allows("other"))

	f = NewToolFilter([]string{"search"}, []string{"search"})
	assert.False(t, f.Allows("search"), "deny-list wins over allow-list")
}

func TestManagerToolSpecs(t *testing.T) {
	m := NewManager(ServerConfig{Name: "docs"})
	m.SetToolInfo("mcp__docs__search", ToolInfo{
		ToolName:    "search",
		Description: "Search the documentation index",
		InputSchema: map[string]any{"type": "object"},
	})

	specs := m.ToolSpecs()
	assert.Len(t, specs, 1)
	assert.Equal(t, "mcp__docs__search", specs[0].Name)
	assert.Equal(t, "Search the documentation index", specs[0].Description)
}
