// Package logger builds the zerolog logger shared by the service, the stores
// and the HTTP layer.
//
//	logData, err := logger.New().FromPath("/var/log/campaignsync.log").WithLevel("info").Make()
//	if err != nil {
//		return err
//	}
//	defer logData.Close()
//	logData.Logger.Info().Msg("started")
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

type LogBuild struct {
	writer  io.Writer
	path    string
	level   string
	console bool
	fields  map[string]string
}

type LogData struct {
	writer  io.Writer
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{}
}

// FromPath appends log lines to the file at path.
func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

// FromBuffer writes log lines to w. Ignored when a path is set.
func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// WithLevel sets the minimum level by name ("debug", "info", "warn", ...).
// An empty name keeps the default of info.
func (build *LogBuild) WithLevel(level string) *LogBuild {
	build.level = level
	return build
}

// Console switches to zerolog's human readable console output.
func (build *LogBuild) Console(enabled bool) *LogBuild {
	build.console = enabled
	return build
}

// WithField attaches a static field to every line.
func (build *LogBuild) WithField(key, value string) *LogBuild {
	if build.fields == nil {
		build.fields = make(map[string]string)
	}
	build.fields[key] = value
	return build
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	logData.writer = os.Stdout
	if build.writer != nil {
		logData.writer = build.writer
	}
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		logData.writer = zerolog.SyncWriter(logData.LogFile)
	}
	if build.console {
		logData.writer = zerolog.ConsoleWriter{Out: logData.writer, NoColor: build.path != ""}
	}

	level := zerolog.InfoLevel
	if build.level != "" {
		level, err = zerolog.ParseLevel(strings.ToLower(build.level))
		if err != nil {
			logData.Close()
			return nil, fmt.Errorf("invalid log level %q: %w", build.level, err)
		}
	}

	ctx := zerolog.New(logData.writer).Level(level).With().Timestamp()
	for k, v := range build.fields {
		ctx = ctx.Str(k, v)
	}
	logData.Logger = ctx.Logger()
	return logData, nil
}

// Close releases the log file, if any.
func (logData *LogData) Close() error {
	if logData.LogFile == nil {
		return nil
	}
	return logData.LogFile.Close()
}
