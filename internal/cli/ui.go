package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/shotgrid/pkg/layout"
)

// =============================================================================
// Palette and styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorLink   = lipgloss.Color("75")  // light blue
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleLink      = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue     = lipgloss.NewStyle().Foreground(colorValue)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorAccent)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
)

// lineKinds are the one-line message prefixes.
var lineKinds = map[string]struct {
	icon  string
	style lipgloss.Style
}{
	"success": {"✓", lipgloss.NewStyle().Foreground(colorOK)},
	"error":   {"✗", lipgloss.NewStyle().Foreground(colorFail)},
	"warning": {"!", lipgloss.NewStyle().Foreground(colorWarn)},
	"info":    {"›", lipgloss.NewStyle().Foreground(colorLabel)},
}

// statusStyles colors a layout status in summaries. Unknown statuses use the
// warning style.
var statusStyles = map[layout.Status]lipgloss.Style{
	layout.StatusOK:         lipgloss.NewStyle().Foreground(colorOK),
	layout.StatusEmpty:      StyleDim,
	layout.StatusTooSmall:   StyleWarning,
	layout.StatusDegenerate: lipgloss.NewStyle().Foreground(colorFail),
}

// =============================================================================
// Message lines
// =============================================================================

func printLine(kind, format string, args ...any) {
	k := lineKinds[kind]
	msg := fmt.Sprintf(format, args...)
	if kind == "warning" {
		msg = StyleWarning.Render(msg)
	}
	fmt.Println(k.style.Render(k.icon) + " " + msg)
}

func printSuccess(format string, args ...any) { printLine("success", format, args...) }
func printError(format string, args ...any) { printLine("error", format, args...) }
func printWarning(format string, args ...any) { printLine("warning", format, args...) }
func printInfo(format string, args ...any) { printLine("info", format, args...) }

// printDetail prints an indented, muted line under the previous message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Layout summary
// =============================================================================

// layoutStats summarizes a snapshot for printStats. An empty status means no
// layout was computed, as after an import.
type layoutStats struct {
	shots      int
	placements int
	groups     int
	status     string
}

// printStats prints "4 shots · 6 tiles · 3 groups · ok · fresh". Tiles are
// only shown when flag grouping fanned shots out.
func printStats(st layoutStats, cached bool) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d shots", st.shots))}
	if st.placements != st.shots {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d tiles", st.placements)))
	}
	if st.groups > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d groups", st.groups)))
	}
	if st.status != "" {
		parts = append(parts, statusBadge(layout.Status(st.status)))
		if cached {
			parts = append(parts, statusStyles[layout.StatusOK].Render("cached"))
		} else {
			parts = append(parts, StyleDim.Render("fresh"))
		}
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

func statusBadge(s layout.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		style = StyleWarning
	}
	return style.Render(string(s))
}
