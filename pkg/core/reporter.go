/*
File: reporter.go
Description: Reporter interface and implementations for Adaptix Fuzzer
telemetry and live reporting. Allows the orchestration loop to notify
listeners of executions, crashes, and corpus growth.
*/

package core

import (
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/corpus"
	"github.com/adaptixlabs/adaptix-fuzzer/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// Reporter defines the telemetry hooks the loop invokes.
type Reporter interface {
	// OnCandidateExecuted is called after each candidate execution, with the
	// name of the mutator that produced the candidate (empty for chained
	// baseline mutations).
	OnCandidateExecuted(result *interfaces.ExecutionResult, mutatorName string)

	// OnCorpusEntryAdded is called when a candidate is promoted into the corpus.
	OnCorpusEntryAdded(entry *corpus.Entry)
}

// LoggerReporter logs execution and corpus events through logrus.
type LoggerReporter struct {
	logger *logrus.Logger
}

// NewLoggerReporter creates a new LoggerReporter.
func NewLoggerReporter(logger *logrus.Logger) *LoggerReporter {
	return &LoggerReporter{logger: logger}
}

// OnCandidateExecuted logs notable execution results.
func (r *LoggerReporter) OnCandidateExecuted(result *interfaces.ExecutionResult, mutatorName string) {
	fields := logrus.Fields{
		"mutator":    mutatorName,
		"latency_ms": result.LatencyMs,
	}
	switch result.Status {
	case interfaces.StatusCrash:
		if result.CrashInfo != nil {
			fields["message"] = result.CrashInfo.Message
		}
		r.logger.WithFields(fields).Warn("Crash detected")
	case interfaces.StatusTimeout:
		r.logger.WithFields(fields).Warn("Timeout detected")
	default:
		r.logger.WithFields(fields).Debug("Candidate executed")
	}
}

// OnCorpusEntryAdded logs corpus growth.
func (r *LoggerReporter) OnCorpusEntryAdded(entry *corpus.Entry) {
	r.logger.WithFields(logrus.Fields{
		"id":          entry.ID,
		"generation":  entry.Generation,
		"priority":    entry.Priority,
		"new_signals": entry.NewSignals,
	}).Info("Candidate promoted to corpus")
}
