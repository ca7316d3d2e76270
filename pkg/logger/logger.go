
package logger

import (
	"io"
	"log"
	"os"
)

type Logger struct {
	l     *log.Logger
	debug bool
}

func New() *Logger { return &Logger{l: log.New(os.Stderr, "", log.LstdFlags)} }

// NewWithWriter logs to w; debug enables Debugf output.
func NewWithWriter(w io.Writer, debug bool) *Logger {
	return &Logger{l: log.New(w, "", log.LstdFlags), debug: debug}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger { return NewWithWriter(io.Discard, false) }

func (l *Logger) SetDebug(on bool) { l.debug = on }

func (l *Logger) Debugf(format string, args ...any) {
	if l.debug {
		l.l.Printf("[DEBUG] "+format, args...)
	}
}
func (l *Logger) Infof(format string, args ...any) {
	l.l.Printf("[INFO] "+format, args...)
}
func (l *Logger) Warnf(format string, args ...any) {
	l.l.Printf("[WARN] "+format, args...)
}
func (l *Logger) Errorf(format string, args ...any) {
	l.l.Printf("[ERROR] "+format, args...)
}
