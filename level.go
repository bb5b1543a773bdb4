package schemavalidator

import (
	"fmt"
	"strings"
)

// LogLevel is the severity of a processing message.
// Levels are ordered: a report compares levels to decide whether a message
// is recorded, whether it makes the report unsuccessful, and whether it aborts
// processing.
type LogLevel int

const (
	// LevelDebug is for tracing output only.
	LevelDebug LogLevel = iota
	// LevelInfo is informational feedback.
	LevelInfo
	// LevelWarning indicates a potential problem that does not fail validation.
	LevelWarning
	// LevelError indicates the instance does not conform.
	LevelError
	// LevelFatal indicates processing cannot meaningfully continue.
	LevelFatal
	// LevelNone is above every real level. As an exception threshold it
	// means "never abort"; as a log level it means "record nothing".
	LevelNone
)

var levelNames = [...]string{
	LevelDebug:   "debug",
	LevelInfo:    "info",
	LevelWarning: "warning",
	LevelError:   "error",
	LevelFatal:   "fatal",
	LevelNone:    "none",
}

// String returns the lower-case level name used in rendered reports.
func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelNone {
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
	return levelNames[l]
}

// IsError returns true for error and fatal.
func (l LogLevel) IsError() bool {
	return l == LevelError || l == LevelFatal
}

// MarshalText renders the level name.
func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLogLevel parses a level name, case-insensitively.
// "warn" is accepted as an alias for "warning".
func ParseLogLevel(s string) (LogLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warn" {
		return LevelWarning, nil
	}
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i), nil
		}
	}
	return LevelNone, fmt.Errorf("unknown log level %q", s)
}
