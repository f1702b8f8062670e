// Interactive terminal client for docseek.
//
// Connects an LLM provider to a documentation-search MCP server and
// runs a themed chat shell with persistent, bounded conversation
// history.
//
// Usage:
//
//	docseek                                  Run with environment config
//	docseek --provider anthropic             Use the Anthropic backend
//	docseek --model gpt-4o --theme ocean     Pick a model and a theme
//	docseek --mcp-url http://host:8080/mcp   Use a remote retrieval server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docseekhq/docseek/internal/agent"
	"github.com/docseekhq/docseek/internal/config"
	"github.com/docseekhq/docseek/internal/history"
	"github.com/docseekhq/docseek/internal/llm"
	"github.com/docseekhq/docseek/internal/mcp"
	"github.com/docseekhq/docseek/internal/theme"
	"github.com/docseekhq/docseek/internal/tui"
	"github.com/docseekhq/docseek/internal/version"
)

func main() {
	cfg := config.Load()

	provider := flag.String("provider", cfg.Provider, "LLM provider (openai or anthropic)")
	model := flag.String("model", "", "Model to use (defaults per provider)")
	baseURL := flag.String("base-url", cfg.BaseURL, "Override the provider API base URL")
	historyFile := flag.String("history-file", cfg.HistoryFile, "Path to the conversation history file")
	maxHistory := flag.Int("max-history", cfg.MaxHistory, "Messages retained per conversation")
	themeName := flag.String("theme", cfg.Theme, "Visual theme (cyberpunk, ocean, forest, sunset)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	noMarkdown := flag.Bool("no-markdown", false, "Disable markdown rendering")
	mcpCommand := flag.String("mcp-command", "", "Retrieval server command (stdio transport)")
	mcpURL := flag.String("mcp-url", cfg.MCPURL, "Retrieval server URL (streamable HTTP transport)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("docseek %s\n", version.Version)
		return
	}

	if *provider != cfg.Provider {
		cfg.Provider = *provider
		switch cfg.Provider {
		case "anthropic":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			cfg.Model = config.DefaultClaudeModel
		default:
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
			cfg.Model = config.DefaultOpenAIModel
		}
	}
	if *model != "" {
		cfg.Model = *model
	}
	cfg.BaseURL = *baseURL
	cfg.HistoryFile = *historyFile
	cfg.MaxHistory = *maxHistory
	cfg.Theme = strings.ToLower(*themeName)
	cfg.NoColor = *noColor
	cfg.NoMarkdown = *noMarkdown
	cfg.MCPURL = *mcpURL
	if *mcpCommand != "" {
		parts := strings.Fields(*mcpCommand)
		cfg.MCPCommand = parts[0]
		cfg.MCPArgs = parts[1:]
		cfg.MCPURL = ""
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if _, err := theme.Get(cfg.Theme); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	store := history.NewStore(cfg.HistoryFile, cfg.MaxHistory, cfg.PreviewLength)
	store.Load()

	client, err := llm.NewClient(cfg.Provider, cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return err
	}

	serverCfg := mcp.ServerConfig{Name: "docs"}
	if cfg.MCPURL != "" {
		serverCfg.Transport = mcp.TransportConfig{URL: cfg.MCPURL}
	} else {
		serverCfg.Transport = mcp.TransportConfig{
			Command: cfg.MCPCommand,
			Args:    cfg.MCPArgs,
		}
	}

	manager := mcp.NewManager(serverCfg)
	if err := manager.Connect(context.Background()); err != nil {
		return err
	}
	defer manager.Close()

	svc := agent.New(store, client, manager, agent.Options{
		Model:         cfg.Model,
		Temperature:   cfg.Temperature,
		MaxTokens:     cfg.MaxTokens,
		ChatTimeout:   cfg.ChatTimeout,
		MaxToolRounds: cfg.MaxToolRounds,
	})

	model := tui.NewModel(tui.Config{
		ModelName:  cfg.Model,
		Theme:      cfg.Theme,
		NoColor:    cfg.NoColor,
		NoMarkdown: cfg.NoMarkdown,
	}, svc)

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
