// Package log provides named leveled loggers that share a single output sink.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

// Level controls which messages reach the sink.
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// Names accepted by ParseLevel and the backend level of each Level.
var levels = []struct {
	names   []string
	backend logging.Level
}{
	Debug:   {[]string{"debug"}, logging.DEBUG},
	Info:    {[]string{"info"}, logging.INFO},
	Notice:  {[]string{"", "notice"}, logging.NOTICE},
	Warning: {[]string{"warning", "warn"}, logging.WARNING},
	Error:   {[]string{"error"}, logging.ERROR},
}

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var backend logging.LeveledBackend

// Logger is implemented by the loggers returned from New.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger for a module.
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink redirects all loggers to w. The current level is kept.
func SetSink(w io.Writer) {
	level := logging.NOTICE
	if backend != nil {
		level = backend.GetLevel("")
	}

	backend = logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format))
	backend.SetLevel(level, "")
	logging.SetBackend(backend)
}

// SetLevel sets the verbosity of all loggers. Unknown levels map to Error.
func SetLevel(level Level) {
	if level < Debug || int(level) >= len(levels) {
		level = Error
	}
	backend.SetLevel(levels[level].backend, "")
}

// ParseLevel maps a level name from a config file to a Level.
func ParseLevel(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for level, spec := range levels {
		for _, candidate := range spec.names {
			if candidate == name {
				return Level(level), nil
			}
		}
	}
	return Notice, fmt.Errorf("log: unknown level %q", name)
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
