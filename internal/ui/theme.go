package ui

import "github.com/charmbracelet/lipgloss"

// tally's color palette: greens for progress, warm accents for streaks.
var (
	Leaf   = lipgloss.Color("#50C878")
	Moss   = lipgloss.Color("#2E8B57")
	Pine   = lipgloss.Color("#1E5631")
	Sprout = lipgloss.Color("#A8E6A1")
	Amber  = lipgloss.Color("#FFBF00")
	Ember  = lipgloss.Color("#FF7F50")
	Ruby   = lipgloss.Color("#E0115F")
	Sky    = lipgloss.Color("#4A90D9")
	Dim    = lipgloss.Color("#666666")
	Faint  = lipgloss.Color("#3A3A3A")
	Bright = lipgloss.Color("#FFFFFF")

	// Semantic styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Leaf)

	Subtitle = lipgloss.NewStyle().
			Foreground(Amber)

	Success = lipgloss.NewStyle().
		Foreground(Leaf)

	Error = lipgloss.NewStyle().
		Foreground(Ruby)

	Warning = lipgloss.NewStyle().
		Foreground(Amber)

	Info = lipgloss.NewStyle().
		Foreground(Sky)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Ember).
		Bold(true)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Bright)
)

// heatLevels colors heatmap cells from no activity to the busiest days.
var heatLevels = []lipgloss.Color{Faint, Sprout, Leaf, Moss, Pine}

// Icon constants.
const (
	IconTally    = "𝍸 "
	IconFire     = "🔥"
	IconStar     = "⭐"
	IconCalendar = "📅"
	IconChart    = "📊"
	IconWarn     = "⚠️ "
	IconError    = "✗ "
	IconOk       = "✓ "
	IconArrow    = "→"
	IconDot      = "·"
)
