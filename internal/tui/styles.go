package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary     = lipgloss.Color("#00BFFF") // Cyan — primary accent
	colorAccent      = lipgloss.Color("#FFD700") // Gold — highlight/pin
	colorDanger      = lipgloss.Color("#FF5252") // Red — DST warnings, errors
	colorMuted       = lipgloss.Color("#636363") // Gray — night rows
	colorMutedLight  = lipgloss.Color("#8C8C8C") // Lighter gray — weekends
	colorWhite       = lipgloss.Color("#EEEEEE") // Off-white — primary text
	colorBrightWhite = lipgloss.Color("#FFFFFF") // Pure white — current row
	colorSurface     = lipgloss.Color("#1E1E2E") // Dark surface — header bg
	colorSurfaceDim  = lipgloss.Color("#181825") // Darkest surface — footer bg
	colorMars        = lipgloss.Color("#FF8C5A") // Rust — Mars columns
)

// Row indicator prepended to the cursor row of the focused column.
const cursorIndicator = "▎"

// Marker glyphs.
const (
	iconDSTWarn  = "⚠"
	iconPinned   = "◆"
	iconWeekend  = "·"
	iconBoundary = "┄"
)

// Header bar styles.
var (
	styleHeader = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleHeaderLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleHeaderPin = lipgloss.NewStyle().
			Foreground(colorAccent)
)

// Column styles.
var (
	styleColTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleColTitleMars = lipgloss.NewStyle().
				Foreground(colorMars).
				Bold(true)

	styleColTitleFocus = lipgloss.NewStyle().
				Foreground(colorBrightWhite).
				Background(colorSurface).
				Bold(true)

	styleColMeta = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleColBorder = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted)

	styleColBorderFocus = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(colorPrimary)
)

// Row styles, in precedence order: highlighted beats current beats night.
var (
	styleRow = lipgloss.NewStyle().
			Foreground(colorWhite)

	styleRowCurrent = lipgloss.NewStyle().
			Foreground(colorBrightWhite).
			Bold(true)

	styleRowHighlight = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	styleRowNight = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleRowWeekend = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleRowBoundary = lipgloss.NewStyle().
				Foreground(colorPrimary)

	styleRowDSTWarn = lipgloss.NewStyle().
			Foreground(colorDanger)

	styleRowInvalid = lipgloss.NewStyle().
			Foreground(colorDanger)
)

// Footer hint style.
var styleFooter = lipgloss.NewStyle().
	Background(colorSurfaceDim).
	Foreground(colorMutedLight).
	Padding(0, 1)
