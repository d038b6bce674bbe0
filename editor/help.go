package editor

import (
	"fmt"
	"strings"
)

// Help categories
type HelpCategory struct {
	Name     string
	Commands []HelpCommand
}

type HelpCommand struct {
	Key         string
	Description string
}

// HelpCategories lists every key the terminal host binds.
func HelpCategories() []HelpCategory {
	return []HelpCategory{
		{
			Name: "Placement",
			Commands: []HelpCommand{
				{"s", "Place start point (again to cancel)"},
				{"e", "Place end point (again to cancel)"},
				{"o", "Draw obstacle, press again to send"},
				{"click", "Place point / add obstacle vertex"},
			},
		},
		{
			Name: "Points",
			Commands: []HelpCommand{
				{"Tab", "Select next point"},
				{"x", "Delete selected point"},
				{"r", "Rename selected point"},
			},
		},
		{
			Name: "Dialogs",
			Commands: []HelpCommand{
				{"Enter", "Confirm name / dismiss error"},
				{"Ctrl+W", "Delete word"},
				{"Ctrl+U", "Clear name"},
				{"ESC", "Cancel/Exit mode"},
			},
		},
		{
			Name: "System",
			Commands: []HelpCommand{
				{"R", "Reload map"},
				{"?", "Toggle this help"},
				{"q", "Quit"},
				{"Ctrl+C", "Force quit"},
			},
		},
	}
}

// GetHelpText returns the help text for display
func GetHelpText() string {
	categories := HelpCategories()

	var b strings.Builder
	b.WriteString("╔════════════════════════════════════════════════════╗\n")
	b.WriteString("║                  MAPEDIT HELP                      ║\n")
	b.WriteString("╠════════════════════════════════════════════════════╣\n")

	for i, cat := range categories {
		b.WriteString(fmt.Sprintf("║ %-50s ║\n", cat.Name+":"))
		for _, cmd := range cat.Commands {
			b.WriteString(fmt.Sprintf("║   %-8s %-39s ║\n", cmd.Key, cmd.Description))
		}
		if i < len(categories)-1 {
			b.WriteString("║                                                    ║\n")
		}
	}

	b.WriteString("╚════════════════════════════════════════════════════╝\n")
	return b.String()
}

// GetCompactHelp returns a single-line help hint
func GetCompactHelp() string {
	return "s:start e:end o:obstacle Tab:select x:delete r:rename R:reload ?:help q:quit"
}
