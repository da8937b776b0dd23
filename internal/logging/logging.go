// Package logging is the terminal logger shared by the runtime and the CLI.
package logging

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/mborders/logmatic"
)

// Level numbers follow LogCLI's numbering, which is not ordered by
// severity. Filtering goes through rank.
const (
	Fatal = iota
	Error
	Warn
	Debug
	Info
	Trace
)

var threshold atomic.Int32

func init() {
	threshold.Store(Info)
}

// rank orders levels from most to least severe.
func rank(level int) int {
	switch level {
	case Fatal:
		return 0
	case Error:
		return 1
	case Warn:
		return 2
	case Info:
		return 3
	case Debug:
		return 4
	}
	return 5
}

// Enabled reports whether messages at level pass the current threshold.
func Enabled(level int) bool {
	return rank(level) <= rank(int(threshold.Load()))
}

// SetLevel drops every message less severe than level.
func SetLevel(level int) {
	threshold.Store(int32(level))
}

// ParseLevel maps a level name to its number, unknown names read as Info.
func ParseLevel(name string) int {
	switch name {
	case "fatal":
		return Fatal
	case "error":
		return Error
	case "warn", "warning":
		return Warn
	case "debug":
		return Debug
	case "trace":
		return Trace
	}
	return Info
}

// LogCLI logs to the terminal. Level options are: 0 fatal error (stack dump),
// 1 serious error (stack dump), 2 warning, 3 debug, 4 info, 5 trace (stack dump).
// Fatal does not exit, the caller decides how to shut down.
func LogCLI(message interface{}, level int) {
	if !Enabled(level) {
		return
	}
	l := logmatic.NewLogger()
	l.SetLevel(logmatic.TRACE)
	message = fmt.Sprint(message)
	switch level {
	case Trace:
		debug.PrintStack()
		l.Trace("%v", message)
	case Info:
		l.Info("%v", message)
	case Debug:
		l.Debug("%v", message)
	case Warn:
		l.Warn("%v", message)
	case Error:
		debug.PrintStack()
		l.Error("%v", message)
	case Fatal:
		debug.PrintStack()
		l.Error("%v", message)
	}
}

// Logf formats before handing off to LogCLI.
func Logf(level int, format string, args ...interface{}) {
	if !Enabled(level) {
		return
	}
	LogCLI(fmt.Sprintf(format, args...), level)
}
