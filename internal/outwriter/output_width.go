package outwriter

import (
	"os"

	"github.com/aipowerranking/toolrank/internal/contract"
	"golang.org/x/term"
)

// terminalWidth returns the width override, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detected
}

// GetMaxTableNameWidth calculates the maximum width for tool names in table output
// based on terminal width and table configuration.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	// Rank + Score + Tier + Move with borders/padding
	baseWidth := 40

	if cfg.Detail {
		baseWidth += 8 * 12 // one column per factor
	}

	// Reserve space for table borders, separators, and padding
	baseWidth += 10

	available := terminalWidth(cfg) - baseWidth
	if available < 12 {
		return 12
	}
	if available > 48 {
		return 48
	}
	return available
}
