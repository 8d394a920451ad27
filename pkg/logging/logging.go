// Package logging configures the zerolog logger shared by every ocp
// component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/ocp/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logFile is the handle opened by the last SetupLogger call.
var logFile *os.File

// SetupLogger sets the global level from the -v count (0 warn, 1 info,
// 2 debug, 3+ trace) and writes to stderr and to the ocp log file. A log
// file that cannot be opened only costs the file output.
func SetupLogger(verbosity int) {
	zerolog.SetGlobalLevel(levelFor(verbosity))

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	path := getLogFilePath()
	file, err := openLogFile(path)
	if err == nil {
		logFile = file
		writers = append(writers, file)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to create log file, logging to console only")
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", path).Msg("Logger initialized")
}

func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger returns a logger tagged with the component name
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// getLogFilePath honours XDG_STATE_HOME and falls back to
// ~/.local/state/ocp/ocp.log.
func getLogFilePath() string {
	stateHome := os.Getenv(paths.EnvStateHome)
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return paths.LogFileName
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, paths.AppDirName, paths.LogFileName)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// LogOperationStart logs the start of an operation at debug level and
// returns the function that logs its completion and duration.
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
