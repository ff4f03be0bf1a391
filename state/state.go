package state

import (
	"time"

	raven "github.com/getsentry/raven-go"
	uuid "github.com/satori/go.uuid"
)

// Mode selects which inspections a run performs.
type Mode string

const (
	ModeFullCheck   Mode = "full-check"
	ModeApplication Mode = "application"
	ModePerformance Mode = "performance"
)

func (m Mode) IncludesApplications() bool {
	return m == ModeFullCheck || m == ModeApplication
}

func (m Mode) IncludesPerformance() bool {
	return m == ModeFullCheck || m == ModePerformance
}

// RunOpts carries the global settings for a single invocation.
type RunOpts struct {
	Verbose bool
	Quiet   bool

	// EmailReport enables the reporter stage. The checker never emails on
	// its own; the operator has to ask for it.
	EmailReport bool

	// TestRun skips the privilege gate so the run log can be written to a
	// scratch location, e.g. from tests or --dry-run.
	TestRun bool

	ConfigFilename string

	SentryClient *raven.Client
}

type CheckStatus int

const (
	CheckStatusUnchecked CheckStatus = iota
	CheckStatusOkay
	CheckStatusWarning
	CheckStatusError
)

// CheckResult is the outcome of one inspection (one required app, one
// performance metric, ...).
type CheckResult struct {
	Name   string
	Status CheckStatus
	Detail string
}

// RecordedAction is an install/removal the checker would have performed.
// Actions are recorded only; execution is intentionally not implemented.
type RecordedAction struct {
	Verb   string // "install" or "remove"
	App    string
	Reason string
}

const (
	ActionInstall = "install"
	ActionRemove  = "remove"
)

// RunResult accumulates everything a single run produced.
type RunResult struct {
	RunID      uuid.UUID
	Mode       Mode
	StartedAt  time.Time
	FinishedAt time.Time

	Checks  []CheckResult
	Actions []RecordedAction

	// ShipLog marks the run log as worth sending out, set whenever a check
	// fails or an action gets recorded.
	ShipLog bool

	LogPath string
}

func NewRunResult(mode Mode) *RunResult {
	return &RunResult{
		RunID:     uuid.NewV4(),
		Mode:      mode,
		StartedAt: time.Now(),
	}
}

func (r *RunResult) AddCheck(name string, status CheckStatus, detail string) {
	r.Checks = append(r.Checks, CheckResult{Name: name, Status: status, Detail: detail})
	if status == CheckStatusWarning || status == CheckStatusError {
		r.ShipLog = true
	}
}

func (r *RunResult) RecordAction(verb string, app string, reason string) {
	r.Actions = append(r.Actions, RecordedAction{Verb: verb, App: app, Reason: reason})
	r.ShipLog = true
}

func (r *RunResult) CheckCount(status CheckStatus) int {
	count := 0
	for _, check := range r.Checks {
		if check.Status == status {
			count++
		}
	}
	return count
}
