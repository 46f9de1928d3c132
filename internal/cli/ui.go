package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette & Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCached  = lipgloss.NewStyle().Foreground(colorGreen)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

// status prints msg behind a styled icon.
func status(icon lipgloss.Style, glyph, format string, args ...any) {
	fmt.Println(icon.Render(glyph) + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(styleIconSuccess, iconSuccess, format, args...) }
func printError(format string, args ...any)   { status(styleIconError, iconError, format, args...) }
func printInfo(format string, args ...any)    { status(styleIconInfo, iconInfo, format, args...) }

func printWarning(format string, args ...any) {
	status(styleIconWarning, iconWarning, "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints diagram counts and whether the layout came from the
// cache, e.g. "12 nodes · 9 edges · cached".
func printStats(nodes, edges int, cached bool) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodes)),
		StyleDim.Render(fmt.Sprintf("%d edges", edges)),
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("computed"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
