package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/aipowerranking/toolrank/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	LeaderColor    = color.New(color.FgGreen, color.Bold) // LeaderColor marks the top tier.
	StrongColor    = color.New(color.FgCyan, color.Bold)  // StrongColor marks strong contenders.
	ContenderColor = color.New(color.FgYellow)            // ContenderColor is a neutral middle tier.
	EmergingColor  = color.New(color.FgWhite)             // EmergingColor is for everyone else.

	UpColor      = color.New(color.FgGreen)
	DownColor    = color.New(color.FgRed)
	NewColor     = color.New(color.FgCyan, color.Bold)
	DroppedColor = color.New(color.FgMagenta)
)

// GetColorLabel returns a colored tier label for console output (table).
func GetColorLabel(label string) string {
	switch label {
	case schema.LeaderTier:
		return LeaderColor.Sprint(label)
	case schema.StrongTier:
		return StrongColor.Sprint(label)
	case schema.ContenderTier:
		return ContenderColor.Sprint(label)
	default:
		return EmergingColor.Sprint(label)
	}
}

// GetPlainMovement returns a compact text form of a movement,
// e.g. "+3", "-2", "=", "NEW" or "OUT".
func GetPlainMovement(m schema.Movement, positionChange int) string {
	switch m {
	case schema.MovementUp:
		return fmt.Sprintf("+%d", positionChange)
	case schema.MovementDown:
		return fmt.Sprintf("%d", positionChange)
	case schema.MovementNew:
		return "NEW"
	case schema.MovementDropped:
		return "OUT"
	default:
		return "="
	}
}

// GetColorMovement returns GetPlainMovement with console colors applied.
func GetColorMovement(m schema.Movement, positionChange int) string {
	text := GetPlainMovement(m, positionChange)
	switch m {
	case schema.MovementUp:
		return UpColor.Sprint(text)
	case schema.MovementDown:
		return DownColor.Sprint(text)
	case schema.MovementNew:
		return NewColor.Sprint(text)
	case schema.MovementDropped:
		return DroppedColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
