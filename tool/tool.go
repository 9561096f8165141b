// Package tool holds the side-effecting collaborators of a session: the
// project writer and the shell command runner.
package tool

import "fmt"

// Mode controls whether side effects are applied.
type Mode string

const (
	// ModeNormal writes files and runs approved commands.
	ModeNormal Mode = "normal"
	// ModePlan only reports what would happen.
	ModePlan Mode = "plan"
)

// ParseMode maps a flag value onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeNormal:
		return ModeNormal, nil
	case ModePlan:
		return ModePlan, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

func planTitle(format string, args ...any) string {
	return "[PLAN] " + fmt.Sprintf(format, args...)
}
