package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/quantmind-br/py/internal/core"
)

// Color scheme for the launcher
var (
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow)
	Info    = color.New(color.FgCyan)

	Highlight = color.New(color.FgHiCyan, color.Bold)
	Muted     = color.New(color.Faint)
	Bold      = color.New(color.Bold)

	CheckMark = color.GreenString("✓")
	CrossMark = color.RedString("✗")
	Arrow     = color.CyanString("→")
	Bullet    = color.HiBlackString("•")

	// Origin tier colors
	TierShebangColor     = color.New(color.FgMagenta)
	TierVenvColor        = color.New(color.FgGreen)
	TierVersionFileColor = color.New(color.FgYellow)
	TierPathColor        = color.New(color.FgBlue)
)

// InitColors initializes color settings based on environment
func InitColors() {
	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	if os.Getenv("TERM") == "dumb" {
		color.NoColor = true
	}
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Fprintf(os.Stdout, "%s %s\n", CheckMark, fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "%s Error: %s\n", CrossMark, fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Fprintf(os.Stderr, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Fprintf(os.Stdout, "%s %s\n", Arrow, fmt.Sprintf(format, args...))
}

// PrintKeyValue prints a key-value pair with color
func PrintKeyValue(key, value string) {
	Bold.Fprintf(os.Stdout, "%s: ", key)
	fmt.Fprintln(os.Stdout, value)
}

// PrintHeader prints a section header
func PrintHeader(text string) {
	fmt.Fprintln(os.Stdout)
	Bold.Fprintln(os.Stdout, text)
	Muted.Fprintln(os.Stdout, "────────────────────────────────────────")
}

// PrintSubheader prints a subsection header
func PrintSubheader(text string) {
	fmt.Fprintln(os.Stdout)
	Highlight.Fprintln(os.Stdout, text)
}

// ColorizeTier returns a colored origin-tier string
func ColorizeTier(tier core.OriginTier) string {
	switch tier {
	case core.TierShebang:
		return TierShebangColor.Sprint(string(tier))
	case core.TierVirtualEnv:
		return TierVenvColor.Sprint(string(tier))
	case core.TierVersionFile:
		return TierVersionFileColor.Sprint(string(tier))
	case core.TierPath:
		return TierPathColor.Sprint(string(tier))
	default:
		return string(tier)
	}
}

// ColorizeArch renders an architecture, muting the unknown case
func ColorizeArch(arch core.Architecture) string {
	if arch == core.ArchUnknown {
		return Muted.Sprint("-")
	}
	return string(arch) + "-bit"
}
