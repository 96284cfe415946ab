/*
File: main.go
Description: Command-line interface for the Adaptix Fuzzer. Wires the cobra
command tree, binds flags into viper, and dispatches to the command
implementations for fuzzing, mutator listing, and engine comparison.
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/adaptixlabs/adaptix-fuzzer/cmd/fuzzer/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	logDir     string
	jsonLogs   bool

	// Session configuration
	seed       int64
	iterations int
	engineName string

	// Mutation configuration
	chainLength        int
	bootstrapThreshold int

	// Corpus configuration
	corpusDir     string
	outputDir     string
	crashDir      string
	maxCorpusSize int
	seedCount     int

	// Execution configuration
	targetName string
	timeout    time.Duration

	dryRun bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "adaptix-fuzzer",
		Short: "Adaptix Fuzzer - coverage-guided fuzzing with adaptive mutation selection",
		Long: `Adaptix Fuzzer is a coverage-guided fuzzing engine that learns which
mutation strategies are productive for the target at hand. Every mutator's
coverage yield, crash yield, and latency are tracked per execution, and the
adaptive engine shifts selection probability toward the strategies that earn
it while guaranteeing every strategy a minimum share.`,
		Version: "1.0.0",
	}

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Log output directory (empty = console only)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))

	// Fuzz command
	fuzzCmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Start a fuzzing session against a built-in target",
		Long: `Start the fuzzing loop. Seeds are loaded from the corpus directory or
generated when it is empty, candidates are produced by the selected engine,
and crashes plus campaign metrics are written to the output directories.`,
		RunE: commands.RunFuzz,
	}

	fuzzCmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (0 = derive from clock)")
	fuzzCmd.Flags().IntVar(&iterations, "iterations", 0, "Iterations to run (0 = until interrupted)")
	fuzzCmd.Flags().StringVar(&engineName, "engine", "adaptive", "Selection engine (adaptive, baseline)")
	fuzzCmd.Flags().IntVar(&chainLength, "chain", 1, "Sequential mutations per candidate")
	fuzzCmd.Flags().IntVar(&bootstrapThreshold, "bootstrap-threshold", 10, "Minimum samples per mutator before adaptive scoring")
	fuzzCmd.Flags().StringVar(&corpusDir, "corpus", "", "Directory containing seed corpus")
	fuzzCmd.Flags().StringVar(&outputDir, "output", "./fuzz_output", "Directory for fuzzer output")
	fuzzCmd.Flags().StringVar(&crashDir, "crash-dir", "./crashes", "Directory for crash files")
	fuzzCmd.Flags().IntVar(&maxCorpusSize, "max-corpus-size", 10000, "Maximum number of entries in corpus")
	fuzzCmd.Flags().IntVar(&seedCount, "seed-count", 32, "Generated seeds when the corpus directory is empty")
	fuzzCmd.Flags().StringVar(&targetName, "target", "codec", "Built-in target (codec, cache)")
	fuzzCmd.Flags().DurationVar(&timeout, "timeout", time.Second, "Maximum execution time per candidate")
	fuzzCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate configuration and exit without fuzzing")

	viper.BindPFlag("seed", fuzzCmd.Flags().Lookup("seed"))
	viper.BindPFlag("iterations", fuzzCmd.Flags().Lookup("iterations"))
	viper.BindPFlag("engine", fuzzCmd.Flags().Lookup("engine"))
	viper.BindPFlag("chain", fuzzCmd.Flags().Lookup("chain"))
	viper.BindPFlag("bootstrap_threshold", fuzzCmd.Flags().Lookup("bootstrap-threshold"))
	viper.BindPFlag("corpus_dir", fuzzCmd.Flags().Lookup("corpus"))
	viper.BindPFlag("output_dir", fuzzCmd.Flags().Lookup("output"))
	viper.BindPFlag("crash_dir", fuzzCmd.Flags().Lookup("crash-dir"))
	viper.BindPFlag("max_corpus_size", fuzzCmd.Flags().Lookup("max-corpus-size"))
	viper.BindPFlag("seed_count", fuzzCmd.Flags().Lookup("seed-count"))
	viper.BindPFlag("target", fuzzCmd.Flags().Lookup("target"))
	viper.BindPFlag("timeout", fuzzCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("dry_run", fuzzCmd.Flags().Lookup("dry-run"))

	rootCmd.AddCommand(fuzzCmd)

	// List-mutators command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list-mutators",
		Short: "List available mutators and their capabilities",
		Long: `List all mutators in the default registry with descriptions of the
transformations they apply to candidate buffers.`,
		Run: commands.ListMutators,
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
