// Package nlog is the engine's ambient logger: a small leveled wrapper
// around stdlib `log`, in the spirit of (not copied from) AIStore's
// cmn/nlog — AIStore hand-rolls its own logger rather than importing
// zap/logrus, and this module follows the same ambient choice rather than
// pulling in a logging library for the fraction of the engine that logs
// (node lifecycle transitions, channel diagnostics).
package nlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

var (
	mu     sync.Mutex
	level  = LevelInfo
	logger = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
)

// SetOutput redirects where log lines are written. Tests use this to
// capture output instead of polluting stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// SetLevel sets the minimum level that will be emitted.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

func logf(l Level, format string, a ...any) {
	mu.Lock()
	cur := level
	mu.Unlock()
	if l < cur {
		return
	}
	logger.Output(3, fmt.Sprintf("[%s] %s", l, fmt.Sprintf(format, a...)))
}

func Debugf(format string, a ...any) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...any)  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...any)  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...any) { logf(LevelError, format, a...) }
