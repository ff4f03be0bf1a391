// Package runner executes a single inspection run: open the run log,
// collect the system snapshot, dispatch to the checks the selected mode
// asks for. It runs each stage at most once, linearly.
package runner

import (
	"context"
	"time"

	"github.com/yolo-ops/checker/checks"
	"github.com/yolo-ops/checker/config"
	"github.com/yolo-ops/checker/runlog"
	"github.com/yolo-ops/checker/state"
	"github.com/yolo-ops/checker/systemstats"
	"github.com/yolo-ops/checker/util"
)

// Run performs the inspections for the given mode and returns the
// accumulated result. The reporter is not part of the run; whoever called
// us decides whether the log gets shipped.
func Run(ctx context.Context, conf config.Config, opts state.RunOpts, logger *util.Logger, mode state.Mode) (*state.RunResult, error) {
	return runWithProbes(ctx, conf, opts, logger, mode, nil)
}

// RunWithProbes is Run with the platform probes swapped out, for tests.
func RunWithProbes(ctx context.Context, conf config.Config, opts state.RunOpts, logger *util.Logger, mode state.Mode, probes checks.Probes) (*state.RunResult, error) {
	return runWithProbes(ctx, conf, opts, logger, mode, &probes)
}

func runWithProbes(ctx context.Context, conf config.Config, opts state.RunOpts, logger *util.Logger, mode state.Mode, probes *checks.Probes) (*state.RunResult, error) {
	result := state.NewRunResult(mode)
	result.LogPath = conf.LogPath

	log, err := runlog.Open(conf.LogPath, opts)
	if err != nil {
		return result, err
	}
	defer log.Close()

	logger.PrintVerbose("Run %s started in %s mode, logging to %s", result.RunID, mode, conf.LogPath)

	if err := log.Info("Executing checker (run %s, mode %s, %s)", result.RunID, mode, util.CheckerNameAndVersion); err != nil {
		return result, err
	}

	snapshot := systemstats.Collect(ctx, logger)
	for _, line := range snapshot.LogLines() {
		if err := log.Info("%s", line); err != nil {
			return result, err
		}
	}

	var checker *checks.Checker
	if probes == nil {
		checker = checks.New(conf, logger, log, result)
	} else {
		checker = checks.NewWithProbes(conf, logger, log, result, *probes)
	}

	if mode.IncludesApplications() {
		if err := checker.RunApplicationChecks(ctx); err != nil {
			return result, err
		}
	}
	if mode.IncludesPerformance() {
		if err := checker.RunPerformanceChecks(ctx); err != nil {
			return result, err
		}
	}

	result.FinishedAt = time.Now()

	if err := log.Info("Run finished in %s (%d checks, %d recorded actions)",
		result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond), len(result.Checks), len(result.Actions)); err != nil {
		return result, err
	}

	return result, nil
}
