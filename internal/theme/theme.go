// Package theme provides the visual themes for the docseek TUI: a
// lipgloss color palette plus a banner per theme.
package theme

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme is one named palette.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Banner    string
}

var themes = map[string]Theme{
	"cyberpunk": {
		Name:      "Cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ff8800"),
		Error:     lipgloss.Color("#ff0000"),
		Banner: `
██████╗  ██████╗  ██████╗███████╗███████╗███████╗██╗  ██╗
██╔══██╗██╔═══██╗██╔════╝██╔════╝██╔════╝██╔════╝██║ ██╔╝
██║  ██║██║   ██║██║     ███████╗█████╗  █████╗  █████╔╝
██║  ██║██║   ██║██║     ╚════██║██╔══╝  ██╔══╝  ██╔═██╗
██████╔╝╚██████╔╝╚██████╗███████║███████╗███████╗██║  ██╗
╚═════╝  ╚═════╝  ╚═════╝╚══════╝╚══════╝╚══════╝╚═╝  ╚═╝`,
	},
	"ocean": {
		Name:      "Ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#40e0d0"),
		Accent:    lipgloss.Color("#87ceeb"),
		Success:   lipgloss.Color("#20b2aa"),
		Warning:   lipgloss.Color("#ffd700"),
		Error:     lipgloss.Color("#ff6347"),
		Banner: `
 ██████╗  ██████╗███████╗ █████╗ ███╗   ██╗
██╔═══██╗██╔════╝██╔════╝██╔══██╗████╗  ██║
██║   ██║██║     █████╗  ███████║██╔██╗ ██║
██║   ██║██║     ██╔══╝  ██╔══██║██║╚██╗██║
╚██████╔╝╚██████╗███████╗██║  ██║██║ ╚████║
 ╚═════╝  ╚═════╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═══╝`,
	},
	"forest": {
		Name:      "Forest",
		Primary:   lipgloss.Color("#228b22"),
		Secondary: lipgloss.Color("#32cd32"),
		Accent:    lipgloss.Color("#90ee90"),
		Success:   lipgloss.Color("#00ff7f"),
		Warning:   lipgloss.Color("#ffa500"),
		Error:     lipgloss.Color("#dc143c"),
		Banner: `
███████╗ ██████╗ ██████╗ ███████╗███████╗████████╗
██╔════╝██╔═══██╗██╔══██╗██╔════╝██╔════╝╚══██╔══╝
█████╗  ██║   ██║██████╔╝█████╗  ███████╗   ██║
██╔══╝  ██║   ██║██╔══██╗██╔══╝  ╚════██║   ██║
██║     ╚██████╔╝██║  ██║███████╗███████║   ██║
╚═╝      ╚═════╝ ╚═╝  ╚═╝╚══════╝╚══════╝   ╚═╝`,
	},
	"sunset": {
		Name:      "Sunset",
		Primary:   lipgloss.Color("#ff6347"),
		Secondary: lipgloss.Color("#ffa500"),
		Accent:    lipgloss.Color("#ffd700"),
		Success:   lipgloss.Color("#32cd32"),
		Warning:   lipgloss.Color("#ff8c00"),
		Error:     lipgloss.Color("#b22222"),
		Banner: `
███████╗██╗   ██╗███╗   ██╗███████╗███████╗████████╗
██╔════╝██║   ██║████╗  ██║██╔════╝██╔════╝╚══██╔══╝
███████╗██║   ██║██╔██╗ ██║███████╗█████╗     ██║
╚════██║██║   ██║██║╚██╗██║╚════██║██╔══╝     ██║
███████║╚██████╔╝██║ ╚████║███████║███████╗   ██║
╚══════╝ ╚═════╝ ╚═╝  ╚═══╝╚══════╝╚══════╝   ╚═╝`,
	},
}

// Get returns the named theme. Name matching is exact and lowercase.
func Get(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %v)", name, Names())
	}
	return t, nil
}

// Default returns the cyberpunk theme.
func Default() Theme {
	return themes["cyberpunk"]
}

// Names lists the available theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
