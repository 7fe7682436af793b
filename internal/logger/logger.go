// Package logger is a small leveled, category-filtered logger used for
// engine diagnostics. It is intentionally not a structured-logging
// library: the engine's own hot path (compute) never calls it above
// LevelDebug, and LevelTrace exists purely for tracing one tree's
// measure/place transitions during development.
package logger

import "fmt"

type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var (
	currentLevel = LevelSilent
	categories   = make(map[string]bool)
)

func SetLevel(level Level) {
	currentLevel = level
}

func EnableCategory(category string) {
	categories[category] = true
}

func DisableCategory(category string) {
	delete(categories, category)
}

func shouldLog(level Level, category string) bool {
	if currentLevel == LevelSilent {
		return false
	}
	if level > currentLevel {
		return false
	}
	if len(categories) > 0 && category != "" {
		return categories[category]
	}
	return true
}

func Error(category, format string, args ...interface{}) {
	if shouldLog(LevelError, category) {
		fmt.Printf("[ERROR][%s] %s\n", category, fmt.Sprintf(format, args...))
	}
}

func Warn(category, format string, args ...interface{}) {
	if shouldLog(LevelWarn, category) {
		fmt.Printf("[WARN][%s] %s\n", category, fmt.Sprintf(format, args...))
	}
}

func Info(category, format string, args ...interface{}) {
	if shouldLog(LevelInfo, category) {
		fmt.Printf("[INFO][%s] %s\n", category, fmt.Sprintf(format, args...))
	}
}

func Debug(category, format string, args ...interface{}) {
	if shouldLog(LevelDebug, category) {
		fmt.Printf("[DEBUG][%s] %s\n", category, fmt.Sprintf(format, args...))
	}
}

func Trace(category, format string, args ...interface{}) {
	if shouldLog(LevelTrace, category) {
		fmt.Printf("[TRACE][%s] %s\n", category, fmt.Sprintf(format, args...))
	}
}
