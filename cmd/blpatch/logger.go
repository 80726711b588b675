package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// logrusLogger adapts a logrus logger to patcher.Logger.
type logrusLogger struct {
	entry *logrus.Entry
}

// newLogger creates a logger writing to out. Colours are used only when out
// is a terminal.
func newLogger(out io.Writer, verbose bool) *logrusLogger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:    !isTerminal(out),
		DisableTimestamp: true,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return &logrusLogger{entry: logrus.NewEntry(log)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func (l *logrusLogger) Debug(msg string, kv ...interface{}) {
	l.entry.WithFields(fields(kv)).Debug(msg)
}

func (l *logrusLogger) Info(msg string, kv ...interface{}) {
	l.entry.WithFields(fields(kv)).Info(msg)
}

func (l *logrusLogger) Error(msg string, kv ...interface{}) {
	l.entry.WithFields(fields(kv)).Error(msg)
}

// fields converts alternating keys and values to logrus fields. A trailing
// key without value is kept under "extra".
func fields(kv []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			f["extra"] = kv[i]
			break
		}
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
