/*
File: fuzz.go
Description: Fuzz command implementation for the Adaptix Fuzzer. Builds the
engine, executor, coverage tracker, and corpus from configuration, runs the
fuzzing loop with graceful shutdown, and reports final campaign statistics.
*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/adaptixlabs/adaptix-fuzzer/pkg/core"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/corpus"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/coverage"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/engine"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/execution"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/interfaces"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/mutation"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// generatedSeedMaxLen caps the length of seeds produced when no corpus
// directory is supplied.
const generatedSeedMaxLen = 256

// RunFuzz executes the main fuzzing process
func RunFuzz(cmd *cobra.Command, args []string) error {
	fmt.Println("Adaptix Fuzzer - Starting Fuzzing Session")
	fmt.Println("=========================================")
	fmt.Println()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging()
	if err != nil {
		return err
	}

	config := createFuzzerConfig()
	if err := validateFuzzerConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if viper.GetBool("dry_run") {
		return performDryRun(config)
	}

	// Build components
	eng, err := createEngine(config)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	executor, targetName, err := createExecutor(config)
	if err != nil {
		return fmt.Errorf("failed to create executor: %w", err)
	}
	executor.SetLogger(logger)

	tracker := coverage.NewTracker()

	store, err := createCorpus(config, logger)
	if err != nil {
		return fmt.Errorf("failed to prepare corpus: %w", err)
	}

	loop, err := core.NewLoop(config, eng, executor, tracker, store)
	if err != nil {
		return fmt.Errorf("failed to create fuzzing loop: %w", err)
	}
	loop.SetLogger(logger)
	loop.AddReporter(core.NewLoggerReporter(logger))

	// Graceful shutdown on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived shutdown signal, stopping fuzzer...")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"engine":     config.Engine,
		"target":     targetName,
		"iterations": config.Iterations,
		"seed":       config.Seed,
	}).Info("Fuzzing session starting")

	// Cancellation is the normal way an unbounded session ends; final
	// statistics and metrics are still owed to the user.
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("fuzzing loop failed: %w", err)
	}

	printFinalStats(loop, eng, tracker, store)

	path, err := writeMetrics(config, targetName, loop, eng, tracker, store)
	if err != nil {
		logger.WithError(err).Warn("Failed to write campaign metrics")
	} else {
		fmt.Printf("\nCampaign metrics written to %s\n", path)
	}

	fmt.Println("\nFuzzing session completed")
	return nil
}

// createEngine builds the selection engine named in the configuration and
// registers the default mutator set.
func createEngine(config *interfaces.FuzzerConfig) (engine.Engine, error) {
	var eng engine.Engine
	switch config.Engine {
	case "baseline":
		eng = engine.NewBaselineEngine(config.Seed)
	default:
		adaptive := engine.NewAdaptiveEngine(config.Seed)
		adaptive.SetBootstrapThreshold(int64(config.BootstrapThreshold))
		eng = adaptive
	}

	for _, m := range mutation.DefaultMutators() {
		if err := eng.RegisterMutator(m); err != nil {
			return nil, fmt.Errorf("failed to register mutator %s: %w", m.Name(), err)
		}
	}
	return eng, nil
}

// createExecutor wires the built-in target named by the --target flag.
func createExecutor(config *interfaces.FuzzerConfig) (*execution.InProcessExecutor, string, error) {
	var target interfaces.Target
	switch viper.GetString("target") {
	case "cache":
		target = execution.NewCacheTarget(0)
	case "codec", "":
		target = execution.NewCodecTarget()
	default:
		return nil, "", fmt.Errorf("unknown target: %s (expected codec or cache)", viper.GetString("target"))
	}

	executor, err := execution.NewInProcessExecutor(target, config.Timeout)
	if err != nil {
		return nil, "", err
	}
	return executor, target.Name(), nil
}

// createCorpus loads seeds from the corpus directory, or generates a
// synthetic seed set when no directory is configured or it holds no files.
func createCorpus(config *interfaces.FuzzerConfig, logger *logrus.Logger) (*corpus.Corpus, error) {
	store := corpus.NewCorpus()
	if config.MaxCorpusSize > 0 {
		store.SetMaxSize(config.MaxCorpusSize)
	}

	if config.CorpusDir != "" {
		loaded, err := store.LoadDirectory(config.CorpusDir)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"dir":    config.CorpusDir,
			"loaded": loaded,
		}).Info("Seed corpus loaded")
	}

	if store.Size() == 0 {
		seed := config.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		gen := corpus.NewGenerator(rand.New(rand.NewSource(seed)))
		for _, entry := range gen.Generate(config.SeedCount, generatedSeedMaxLen) {
			if err := store.Add(entry); err != nil {
				return nil, err
			}
		}
		logger.WithField("count", store.Size()).Info("Generated synthetic seed corpus")
	}

	return store, nil
}

// printFinalStats prints comprehensive final statistics
func printFinalStats(loop *core.Loop, eng engine.Engine, tracker *coverage.Tracker, store *corpus.Corpus) {
	stats := loop.GetStats()
	duration := time.Since(stats.StartTime)

	fmt.Println("\nFinal Statistics")
	fmt.Println("================")
	fmt.Printf("Total Runtime: %v\n", duration.Round(time.Millisecond))
	fmt.Printf("Total Executions: %d\n", stats.Executions)
	fmt.Printf("Total Crashes: %d\n", stats.Crashes)
	fmt.Printf("Total Timeouts: %d\n", stats.Timeouts)
	fmt.Printf("New Coverage Events: %d\n", stats.NewCoverageEvents)
	fmt.Printf("Corpus Additions: %d\n", stats.CorpusAdditions)
	fmt.Printf("Corpus Size: %d\n", store.Size())
	fmt.Printf("Coverage: %.1f%% of %d signals\n", tracker.PercentageCovered()*100, tracker.Size())
	fmt.Printf("Average Rate: %.1f executions/sec\n", stats.ExecutionsPerSecond)

	if stats.Crashes > 0 {
		fmt.Printf("Last Crash: %v\n", stats.LastCrashTime.Format("2006-01-02 15:04:05"))
	}

	printMutatorStats(eng)
}

// printMutatorStats prints the per-mutator statistics table sorted by name.
func printMutatorStats(eng engine.Engine) {
	statistics := eng.GetStatistics()
	names := make([]string, 0, len(statistics))
	for name := range statistics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nMutator Statistics")
	fmt.Println("==================")
	for _, name := range names {
		s := statistics[name]
		fmt.Printf("%-24s execs=%-8d coverage=%-6d crashes=%-4d avg_latency=%.3fms\n",
			name, s.TotalExecutions, s.NewCoverageCount, s.CrashCount, s.AverageLatencyMs)
	}
}

// writeMetrics persists the campaign snapshot for later comparison runs.
func writeMetrics(config *interfaces.FuzzerConfig, targetName string, loop *core.Loop,
	eng engine.Engine, tracker *coverage.Tracker, store *corpus.Corpus) (string, error) {
	stats := loop.GetStats()
	return utils.WriteCampaignMetrics(config.OutputDir, &utils.CampaignMetrics{
		Engine:              config.Engine,
		Target:              targetName,
		Seed:                config.Seed,
		Iterations:          stats.Executions,
		Crashes:             stats.Crashes,
		Timeouts:            stats.Timeouts,
		NewCoverageEvents:   stats.NewCoverageEvents,
		CorpusSize:          store.Size(),
		CoveragePercent:     tracker.PercentageCovered() * 100,
		ExecutionsPerSecond: stats.ExecutionsPerSecond,
		DurationSeconds:     time.Since(stats.StartTime).Seconds(),
		MutatorStats:        eng.GetStatistics(),
	})
}

// performDryRun validates configuration without starting fuzzing
func performDryRun(config *interfaces.FuzzerConfig) error {
	fmt.Println("Performing dry run validation...")
	fmt.Printf("Engine: %s\n", config.Engine)
	fmt.Printf("Target: %s\n", viper.GetString("target"))
	fmt.Printf("Seed: %d\n", config.Seed)
	fmt.Printf("Iterations: %d\n", config.Iterations)
	fmt.Printf("Mutation Chain Length: %d\n", config.MutationChainLength)
	fmt.Printf("Bootstrap Threshold: %d\n", config.BootstrapThreshold)
	fmt.Printf("Corpus Directory: %s\n", config.CorpusDir)
	fmt.Printf("Output Directory: %s\n", config.OutputDir)
	fmt.Printf("Crash Directory: %s\n", config.CrashDir)
	fmt.Printf("Mutators: %d registered\n", len(mutation.DefaultMutators()))
	fmt.Println("Configuration is valid")
	return nil
}
