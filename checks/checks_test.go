package checks_test

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/yolo-ops/checker/checks"
	"github.com/yolo-ops/checker/config"
	"github.com/yolo-ops/checker/runlog"
	"github.com/yolo-ops/checker/state"
	"github.com/yolo-ops/checker/util"
)

type fakeInventory struct {
	installed map[string]bool
	failFor   map[string]error
}

func (f fakeInventory) Installed(name string) (bool, error) {
	if err, ok := f.failFor[name]; ok {
		return false, err
	}
	return f.installed[name], nil
}

type perfFixture struct {
	diskFree   float64
	diskErr    error
	uptimeSecs uint64
	uptimeErr  error
	encrypted  bool
	encDetail  string
	encErr     error
}

func testProbes(inv fakeInventory, perf perfFixture) checks.Probes {
	return checks.Probes{
		Inventory: inv,
		DiskFreePercent: func(ctx context.Context) (float64, error) {
			return perf.diskFree, perf.diskErr
		},
		UptimeSeconds: func(ctx context.Context) (uint64, error) {
			return perf.uptimeSecs, perf.uptimeErr
		},
		EncryptionStatus: func(ctx context.Context) (bool, string, error) {
			return perf.encrypted, perf.encDetail, perf.encErr
		},
	}
}

func testLogger() *util.Logger {
	return &util.Logger{Destination: log.New(io.Discard, "", 0)}
}

func testConfig() config.Config {
	return config.Config{
		DiskFreeWarnPercent: 20.0,
		UptimeLimitDays:     30,
		RequiredApps: []config.App{
			{Name: "Zoom", URL: "https://zoom.us/"},
			{Name: "Slack", URL: "https://www.slack.com/"},
		},
		Blocklist:      []string{"SpywareApp"},
		OptionalApp:    "Spotify",
		OptionalAppURL: "https://spotify.com",
	}
}

func newChecker(t *testing.T, conf config.Config, probes checks.Probes) (*checks.Checker, *state.RunResult, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checker.log")
	runLog, err := runlog.Open(path, state.RunOpts{TestRun: true})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { runLog.Close() })

	result := state.NewRunResult(state.ModeFullCheck)
	return checks.NewWithProbes(conf, testLogger(), runLog, result, probes), result, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}

func TestApplicationChecksRecordOnly(t *testing.T) {
	inv := fakeInventory{installed: map[string]bool{
		"Zoom":       true,
		"Slack":      false,
		"SpywareApp": true,
	}}
	checker, result, logPath := newChecker(t, testConfig(), testProbes(inv, perfFixture{}))

	if err := checker.RunApplicationChecks(context.Background()); err != nil {
		t.Fatalf("RunApplicationChecks: %v", err)
	}

	expected := []state.RecordedAction{
		{Verb: state.ActionInstall, App: "Slack", Reason: "required app missing"},
		{Verb: state.ActionRemove, App: "SpywareApp", Reason: "blocklisted app present"},
	}
	if diff := pretty.Compare(result.Actions, expected); diff != "" {
		t.Errorf("recorded actions diff: (-got +want)\n%s", diff)
	}

	if !result.ShipLog {
		t.Error("findings must flag the log for shipping")
	}

	contents := readLog(t, logPath)
	if !strings.Contains(contents, "Zoom exists") {
		t.Errorf("log missing present-app entry:\n%s", contents)
	}
	if !strings.Contains(contents, "Slack not found. Would download from https://www.slack.com/") {
		t.Errorf("log missing would-install entry:\n%s", contents)
	}
	if !strings.Contains(contents, "SpywareApp exists. Would uninstall it") {
		t.Errorf("log missing would-remove entry:\n%s", contents)
	}
}

func TestApplicationChecksAllClean(t *testing.T) {
	inv := fakeInventory{installed: map[string]bool{"Zoom": true, "Slack": true}}
	checker, result, _ := newChecker(t, testConfig(), testProbes(inv, perfFixture{}))

	if err := checker.RunApplicationChecks(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(result.Actions) != 0 {
		t.Errorf("want no recorded actions, got %v", result.Actions)
	}
	if result.ShipLog {
		t.Error("clean run must not flag the log")
	}
	if got := result.CheckCount(state.CheckStatusOkay); got != 3 {
		t.Errorf("want 3 okay checks (2 required + 1 blocklist), got %d", got)
	}
}

func TestApplicationChecksInventoryError(t *testing.T) {
	inv := fakeInventory{
		installed: map[string]bool{"Slack": true, "SpywareApp": false},
		failFor:   map[string]error{"Zoom": errors.New("mdm daemon unavailable")},
	}
	checker, result, _ := newChecker(t, testConfig(), testProbes(inv, perfFixture{}))

	if err := checker.RunApplicationChecks(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := result.CheckCount(state.CheckStatusError); got != 1 {
		t.Errorf("want 1 errored check, got %d", got)
	}
	// The other apps must still have been inspected.
	if got := len(result.Checks); got != 3 {
		t.Errorf("want 3 checks despite one failure, got %d", got)
	}
	if !result.ShipLog {
		t.Error("inventory failure must flag the log")
	}
}

func TestPerformanceChecksAllPass(t *testing.T) {
	perf := perfFixture{
		diskFree:   55.5,
		uptimeSecs: 60 * 60 * 24 * 3, // 3 days
		encrypted:  true,
		encDetail:  "FileVault is On.",
	}

	t.Run("optional app installed", func(t *testing.T) {
		inv := fakeInventory{installed: map[string]bool{"Spotify": true}}
		checker, result, logPath := newChecker(t, testConfig(), testProbes(inv, perf))

		if err := checker.RunPerformanceChecks(context.Background()); err != nil {
			t.Fatal(err)
		}

		if len(result.Actions) != 0 {
			t.Errorf("want no actions, got %v", result.Actions)
		}
		if result.ShipLog {
			t.Error("passing run must not flag the log")
		}
		if !strings.Contains(readLog(t, logPath), "55.50% available disk space") {
			t.Error("log missing disk space metric entry")
		}
	})

	t.Run("optional app missing", func(t *testing.T) {
		inv := fakeInventory{installed: map[string]bool{}}
		checker, result, logPath := newChecker(t, testConfig(), testProbes(inv, perf))

		if err := checker.RunPerformanceChecks(context.Background()); err != nil {
			t.Fatal(err)
		}

		expected := []state.RecordedAction{
			{Verb: state.ActionInstall, App: "Spotify", Reason: "performance checks passed"},
		}
		if diff := pretty.Compare(result.Actions, expected); diff != "" {
			t.Errorf("recorded actions diff: (-got +want)\n%s", diff)
		}
		if !strings.Contains(readLog(t, logPath), "Would download Spotify from https://spotify.com") {
			t.Error("log missing would-install entry for optional app")
		}
	})
}

func TestPerformanceChecksFailures(t *testing.T) {
	lowDisk := perfFixture{
		diskFree:   5.0,
		uptimeSecs: 60 * 60 * 24 * 45, // 45 days, over the limit too
		encrypted:  false,
		encDetail:  "FileVault is Off.",
	}

	t.Run("optional app installed gets removal recorded", func(t *testing.T) {
		inv := fakeInventory{installed: map[string]bool{"Spotify": true}}
		checker, result, _ := newChecker(t, testConfig(), testProbes(inv, lowDisk))

		if err := checker.RunPerformanceChecks(context.Background()); err != nil {
			t.Fatal(err)
		}

		expected := []state.RecordedAction{
			{Verb: state.ActionRemove, App: "Spotify", Reason: "performance checks failed"},
		}
		if diff := pretty.Compare(result.Actions, expected); diff != "" {
			t.Errorf("recorded actions diff: (-got +want)\n%s", diff)
		}
		if got := result.CheckCount(state.CheckStatusWarning); got != 4 {
			t.Errorf("want 4 warnings (disk, uptime, encryption, optional app), got %d", got)
		}
		if !result.ShipLog {
			t.Error("failed checks must flag the log")
		}
	})

	t.Run("optional app absent means nothing to remove", func(t *testing.T) {
		inv := fakeInventory{installed: map[string]bool{}}
		checker, result, _ := newChecker(t, testConfig(), testProbes(inv, lowDisk))

		if err := checker.RunPerformanceChecks(context.Background()); err != nil {
			t.Fatal(err)
		}

		if len(result.Actions) != 0 {
			t.Errorf("want no actions, got %v", result.Actions)
		}
	})
}

func TestPerformanceChecksProbeErrorsCountAsFailures(t *testing.T) {
	perf := perfFixture{
		diskFree:   55.5,
		uptimeSecs: 60,
		encErr:     errors.New("fdesetup: command not found"),
	}
	inv := fakeInventory{installed: map[string]bool{"Spotify": true}}
	checker, result, _ := newChecker(t, testConfig(), testProbes(inv, perf))

	if err := checker.RunPerformanceChecks(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Encryption probe failure pushes the run onto the removal branch.
	expected := []state.RecordedAction{
		{Verb: state.ActionRemove, App: "Spotify", Reason: "performance checks failed"},
	}
	if diff := pretty.Compare(result.Actions, expected); diff != "" {
		t.Errorf("recorded actions diff: (-got +want)\n%s", diff)
	}
	if got := result.CheckCount(state.CheckStatusError); got != 1 {
		t.Errorf("want 1 errored check, got %d", got)
	}
}

func TestChecksNeverExecuteInstalls(t *testing.T) {
	// Contract check: everything the checker wants to change is surfaced as
	// a RecordedAction with a verb; there is no other mutation channel.
	inv := fakeInventory{installed: map[string]bool{"SpywareApp": true}}
	checker, result, _ := newChecker(t, testConfig(), testProbes(inv, perfFixture{encDetail: "off"}))

	if err := checker.RunApplicationChecks(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := checker.RunPerformanceChecks(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, action := range result.Actions {
		if action.Verb != state.ActionInstall && action.Verb != state.ActionRemove {
			t.Errorf("unexpected action verb %q", action.Verb)
		}
	}
}
