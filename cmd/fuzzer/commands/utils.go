/*
File: utils.go
Description: Shared utilities for the Adaptix Fuzzer commands. Provides common
configuration loading and logging setup used across command implementations.
*/

package commands

import (
	"fmt"
	"time"

	"github.com/adaptixlabs/adaptix-fuzzer/pkg/interfaces"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("ADAPTIX")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging builds the session logger from the bound viper settings.
func SetupLogging() (*logrus.Logger, error) {
	format := logging.LogFormatText
	if viper.GetBool("json_logs") {
		format = logging.LogFormatJSON
	}

	logger, err := logging.New(&logging.Config{
		Level:     logging.LogLevel(viper.GetString("log_level")),
		Format:    format,
		OutputDir: viper.GetString("log_dir"),
		Timestamp: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// createFuzzerConfig creates the fuzzer configuration from viper
func createFuzzerConfig() *interfaces.FuzzerConfig {
	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = time.Second
	}

	return &interfaces.FuzzerConfig{
		Seed:                viper.GetInt64("seed"),
		Iterations:          viper.GetInt("iterations"),
		Engine:              viper.GetString("engine"),
		MutationChainLength: viper.GetInt("chain"),
		BootstrapThreshold:  viper.GetInt("bootstrap_threshold"),
		CorpusDir:           viper.GetString("corpus_dir"),
		OutputDir:           viper.GetString("output_dir"),
		CrashDir:            viper.GetString("crash_dir"),
		MaxCorpusSize:       viper.GetInt("max_corpus_size"),
		SeedCount:           viper.GetInt("seed_count"),
		Timeout:             timeout,
		LogLevel:            viper.GetString("log_level"),
		JSONLogs:            viper.GetBool("json_logs"),
	}
}

// validateFuzzerConfig validates the fuzzer configuration
func validateFuzzerConfig(config *interfaces.FuzzerConfig) error {
	switch config.Engine {
	case "adaptive", "baseline":
	default:
		return fmt.Errorf("unknown engine: %s (expected adaptive or baseline)", config.Engine)
	}

	if config.MutationChainLength < 1 {
		return fmt.Errorf("mutation chain length must be at least 1, got %d", config.MutationChainLength)
	}

	if config.BootstrapThreshold < 1 {
		return fmt.Errorf("bootstrap threshold must be at least 1, got %d", config.BootstrapThreshold)
	}

	if config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	if config.CorpusDir == "" && config.SeedCount < 1 {
		return fmt.Errorf("either a corpus directory or a positive seed count is required")
	}

	return nil
}
