/*
File: logger.go
Description: Logging setup for the Adaptix Fuzzer. Provides structured logrus
logging with validated configuration, text or JSON formats, and optional
timestamped log files alongside console output.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
)

// LogFormat represents the logging format.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// Config holds the configuration for the logger.
type Config struct {
	Level     LogLevel  `json:"level"`
	Format    LogFormat `json:"format"`
	OutputDir string    `json:"output_dir"` // Empty = console only
	Timestamp bool      `json:"timestamp"`  // Timestamp log file names
}

// Validate checks the Config for invalid or missing values.
func (c *Config) Validate() error {
	switch c.Format {
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

// New creates a configured logrus logger. When OutputDir is set, log lines go
// to both stderr and a log file in that directory.
func New(config *Config) (*logrus.Logger, error) {
	if config == nil {
		config = &Config{Level: LogLevelInfo, Format: LogFormatText}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := logrus.New()

	level, err := logrus.ParseLevel(string(config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if config.Format == LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if config.OutputDir != "" {
		file, err := openLogFile(config.OutputDir, config.Timestamp)
		if err != nil {
			return nil, err
		}
		logger.SetOutput(io.MultiWriter(os.Stderr, file))
	}

	return logger, nil
}

// openLogFile creates the log directory and opens the session log file.
func openLogFile(dir string, timestamp bool) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := "fuzzer.log"
	if timestamp {
		name = fmt.Sprintf("fuzzer_%s.log", time.Now().Format("2006-01-02_15-04-05"))
	}

	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}
