package utils

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

// MessageType selects the colour of a status line.
type MessageType int

// The message types used across the command line tools.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// ANSI colours used across the command line tools.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
)

var colorEnabled atomic.Bool

func init() {
	colorEnabled.Store(true)
}

// EnableColor switches ANSI decoration on or off, typically depending on
// whether the output is a terminal.
func EnableColor(on bool) {
	colorEnabled.Store(on)
}

// DecorateText wraps s in the colour of msgType. It returns s unchanged
// while colour is disabled.
func DecorateText(s string, msgType MessageType) string {
	if !colorEnabled.Load() {
		return s
	}
	var c string
	switch msgType {
	case DefaultMessage:
		c = DefaultColor
	case StatusMessage:
		c = StatusColor
	case SuccessMessage:
		c = SuccessColor
	case ErrorMessage:
		c = ErrorColor
	default:
		return s
	}
	return c + s + DefaultColor
}

// FormatTime formats a duration in a human readable form, such as "3m 4.50s".
func FormatTime(d time.Duration) string {
	secs := math.Mod(d.Seconds(), 60)
	mins := int64(math.Mod(d.Minutes(), 60))
	hours := int64(math.Mod(d.Hours(), 24))
	days := int64(d.Hours() / 24)

	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %.2fs", int64(d.Minutes()), secs)
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh %dm %.2fs", int64(d.Hours()), mins, secs)
	}
	return fmt.Sprintf("%dd %dh %dm %.2fs", days, hours, mins, secs)
}
