// Package config loads and validates docseek settings from the
// environment. A Config is built once at startup and injected into the
// store, agent, and TUI; nothing reads the environment after Load.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Environment variable names. Provider API keys follow the vendor
// conventions (OPENAI_API_KEY, ANTHROPIC_API_KEY); everything else is
// prefixed DOCSEEK_.
const (
	EnvProvider       = "DOCSEEK_PROVIDER"
	EnvModel          = "DOCSEEK_MODEL"
	EnvBaseURL        = "DOCSEEK_BASE_URL"
	EnvHistoryFile    = "DOCSEEK_HISTORY_FILE"
	EnvMaxHistory     = "DOCSEEK_MAX_HISTORY"
	EnvChatTimeoutSec = "DOCSEEK_CHAT_TIMEOUT_SEC"
	EnvTheme          = "DOCSEEK_THEME"
	EnvMCPCommand     = "DOCSEEK_MCP_COMMAND"
	EnvMCPURL         = "DOCSEEK_MCP_URL"
)

// Defaults.
const (
	DefaultProvider      = "openai"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultClaudeModel   = "claude-sonnet-4.5"
	DefaultMaxHistory    = 50
	DefaultPreviewLength = 50
	DefaultChatTimeout   = 120 * time.Second
	DefaultTheme         = "cyberpunk"
	DefaultMCPCommand    = "npx"
)

// DefaultMCPArgs launches the documentation-search MCP server over stdio.
var DefaultMCPArgs = []string{"-y", "@upstash/context7-mcp@latest"}

// Config holds all application settings. Immutable after Load.
type Config struct {
	// LLM provider settings
	Provider    string  // "openai" or "anthropic"
	APIKey      string
	BaseURL     string  // optional override
	Model       string
	Temperature float64
	MaxTokens   int

	// History store settings
	HistoryFile   string
	MaxHistory    int // per-conversation retention cap
	PreviewLength int // /history last-message truncation

	// Orchestration
	ChatTimeout   time.Duration // deadline around one logical turn
	MaxToolRounds int           // retrieval round cap inside a turn

	// Retrieval MCP server: stdio command or streamable HTTP URL
	MCPCommand string
	MCPArgs    []string
	MCPURL     string

	// Presentation
	Theme      string
	NoColor    bool
	NoMarkdown bool
}

// Load builds a Config from the environment, applying defaults for
// everything the environment leaves unset.
func Load() Config {
	cfg := Config{
		Provider:      envOr(EnvProvider, DefaultProvider),
		BaseURL:       os.Getenv(EnvBaseURL),
		Temperature:   0.7,
		MaxTokens:     4096,
		HistoryFile:   envOr(EnvHistoryFile, defaultHistoryPath()),
		MaxHistory:    envInt(EnvMaxHistory, DefaultMaxHistory),
		PreviewLength: DefaultPreviewLength,
		ChatTimeout:   time.Duration(envInt(EnvChatTimeoutSec, int(DefaultChatTimeout/time.Second))) * time.Second,
		MaxToolRounds: 8,
		MCPCommand:    DefaultMCPCommand,
		MCPArgs:       DefaultMCPArgs,
		MCPURL:        os.Getenv(EnvMCPURL),
		Theme:         envOr(EnvTheme, DefaultTheme),
	}

	if cmd := os.Getenv(EnvMCPCommand); cmd != "" {
		cfg.MCPCommand = cmd
		cfg.MCPArgs = nil
	}

	switch cfg.Provider {
	case "anthropic":
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		cfg.Model = envOr(EnvModel, DefaultClaudeModel)
	default:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.Model = envOr(EnvModel, DefaultOpenAIModel)
	}

	return cfg
}

// Validate reports configuration problems that must stop startup.
func (c Config) Validate() error {
	if c.Provider != "openai" && c.Provider != "anthropic" {
		return fmt.Errorf("unsupported provider %q (supported: openai, anthropic)", c.Provider)
	}
	if c.APIKey == "" {
		key := "OPENAI_API_KEY"
		if c.Provider == "anthropic" {
			key = "ANTHROPIC_API_KEY"
		}
		return fmt.Errorf("missing API key: set %s", key)
	}
	if c.MaxHistory <= 0 {
		return errors.New("max history must be positive")
	}
	if c.HistoryFile == "" {
		return errors.New("history file path must not be empty")
	}
	if c.MCPURL == "" && c.MCPCommand == "" {
		return errors.New("retrieval server needs either a command or a URL")
	}
	return nil
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("data", "history.json")
	}
	return filepath.Join(home, ".docseek", "history.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
