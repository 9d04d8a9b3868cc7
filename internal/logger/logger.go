// Package logger provides leveled logging for the application. Debug output
// is disabled unless enabled at startup.
package logger

import (
	"fmt"
	"log"
	"os"
)

var (
	debugEnabled = false
	debugLogger  = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	infoLogger   = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	warnLogger   = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime)
	errorLogger  = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
)

// Init sets the debug flag. Safe to call more than once.
func Init(debug bool) {
	debugEnabled = debug
	if debugEnabled {
		Debug("Debug logging enabled")
	}
}

// Debug logs a debug message when debug mode is enabled.
func Debug(format string, v ...interface{}) {
	if debugEnabled {
		debugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// Info logs an informational message.
func Info(format string, v ...interface{}) {
	infoLogger.Output(2, fmt.Sprintf(format, v...))
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	warnLogger.Output(2, fmt.Sprintf(format, v...))
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	errorLogger.Output(2, fmt.Sprintf(format, v...))
}
