// Package style provides the colors and icons shared by CLI output.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
)

// BundleStatus returns the icon and color used to report a bundle's validity.
func BundleStatus(stale bool) (string, lipgloss.Color) {
	if stale {
		return Cross, Red
	}
	return Check, Green
}
