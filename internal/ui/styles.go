package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorBright    = lipgloss.Color("255")
	colorPanel     = lipgloss.Color("236")
	colorSlate     = lipgloss.Color("235")
	colorError     = lipgloss.Color("196")
)

// sourceColors mirror the archive's per-source badge palette.
var sourceColors = map[string]lipgloss.Color{
	"DOJ":              lipgloss.Color("33"),  // blue
	"House Oversight":  lipgloss.Color("135"), // purple
	"HuggingFace":      lipgloss.Color("178"), // yellow
	"Internet Archive": lipgloss.Color("208"), // orange
}

// SourceBadge renders a source label in its palette color.
func SourceBadge(source string) string {
	if source == "" {
		return ""
	}
	c, ok := sourceColors[source]
	if !ok {
		c = colorSecondary
	}
	return lipgloss.NewStyle().Foreground(c).Background(colorPanel).Padding(0, 1).Render(source)
}

var (
	HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(colorBright)
	HeaderSub   = lipgloss.NewStyle().Foreground(colorSecondary)

	// Stats banner
	BannerBox   = lipgloss.NewStyle().Background(colorSlate).Padding(0, 1)
	BannerLabel = lipgloss.NewStyle().Foreground(colorSecondary).Background(colorSlate)
	BannerValue = lipgloss.NewStyle().Bold(true).Foreground(colorBright).Background(colorSlate)

	// Tab bar
	TabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBright).
			Background(colorPrimary).
			Padding(0, 1)
	TabInactive = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Padding(0, 1)
	TabBadge = lipgloss.NewStyle().Foreground(colorMuted)

	SectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHighlight).
			MarginTop(1).
			Padding(0, 1)
	ViewAllHint = lipgloss.NewStyle().Foreground(colorPrimary)
)

// SelectedItem style for the currently highlighted item.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorBright).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for unselected items.
var NormalItem = lipgloss.NewStyle().
	Foreground(colorBright).
	Padding(0, 1)

// Muted is secondary detail text.
var Muted = lipgloss.NewStyle().Foreground(colorSecondary)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(colorBright).
	Background(colorPanel).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for transient notes after a failed load.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true)

// SpinnerStyle colors the loading spinner.
var SpinnerStyle = lipgloss.NewStyle().Foreground(colorHighlight)

// SearchBar wraps the search input.
var SearchBar = lipgloss.NewStyle().
	Foreground(colorBright).
	Background(colorMuted).
	Padding(0, 1)

// Modal styles
var (
	ModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)
	ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(colorBright)
	ModalLabel = lipgloss.NewStyle().Bold(true).Foreground(colorSecondary).Width(8)
)

// People dropdown styles
var (
	DropdownBox = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
	DropdownSelected = lipgloss.NewStyle().Foreground(colorBright).Background(colorPrimary)
	FacetChip        = lipgloss.NewStyle().Foreground(colorBright).Background(colorPrimary).Padding(0, 1)
)

// Debug overlay styles
var (
	DebugPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorHighlight).
			Padding(1, 1)
	DebugHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)
)
