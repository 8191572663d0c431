// Package detector inspects the terminal environment the CLI runs in.
package detector

import (
	"os"

	"golang.org/x/term"
	"go.trai.ch/dll/internal/core/domain"
)

// IsInteractive reports whether stdout is a terminal and no CI environment is detected.
func IsInteractive() bool {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	return isTTY && !isCI
}

// ResolveTTY decides whether the bundler should get a pseudo-terminal.
func ResolveTTY(mode domain.TTYMode, interactive func() bool) bool {
	switch mode {
	case domain.TTYAlways:
		return true
	case domain.TTYNever:
		return false
	default:
		return interactive()
	}
}
