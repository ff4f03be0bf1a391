package selftest

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/yolo-ops/checker/state"
)

var GreenCheck = color.New(color.FgHiGreen).Sprint("✓")
var YellowBang = color.New(color.FgHiYellow).Sprint("!")
var RedX = color.New(color.FgHiRed).Sprint("✗")
var GrayQuestion = color.New(color.FgWhite).Sprint("?")

var HeaderPrinter = color.New(color.FgCyan)
var PathPrinter = color.New(color.Underline)

// DisableColors strips the ANSI escapes, for dumb terminals and log capture.
func DisableColors() {
	color.NoColor = true
	GreenCheck = "✓"
	YellowBang = "!"
	RedX = "✗"
	GrayQuestion = "?"
}

func getStatusIcon(status state.CheckStatus) string {
	switch status {
	case state.CheckStatusOkay:
		return GreenCheck
	case state.CheckStatusWarning:
		return YellowBang
	case state.CheckStatusError:
		return RedX
	default:
		return GrayQuestion
	}
}

// PrintSummary renders the per-check outcome of a run to stderr, followed
// by the recorded actions and whether the log was flagged for shipping.
func PrintSummary(result *state.RunResult) {
	fmt.Fprintln(os.Stderr)
	HeaderPrinter.Fprintf(os.Stderr, "Run %s (%s mode)\n", result.RunID, result.Mode)

	maxNameLen := 0
	for _, check := range result.Checks {
		if len(check.Name) > maxNameLen {
			maxNameLen = len(check.Name)
		}
	}

	for _, check := range result.Checks {
		fmt.Fprintf(os.Stderr, "  %s %-*s  %s\n", getStatusIcon(check.Status), maxNameLen, check.Name, check.Detail)
	}

	if len(result.Actions) > 0 {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Recorded actions (not executed):")
		for _, action := range result.Actions {
			fmt.Fprintf(os.Stderr, "  %s would %s %s (%s)\n", YellowBang, action.Verb, action.App, action.Reason)
		}
	}

	fmt.Fprintln(os.Stderr)
	if result.ShipLog {
		fmt.Fprintf(os.Stderr, "%s Findings require attention, log flagged for shipping: %s\n", YellowBang, PathPrinter.Sprint(result.LogPath))
	} else {
		fmt.Fprintf(os.Stderr, "%s All checks passed, log kept at: %s\n", GreenCheck, PathPrinter.Sprint(result.LogPath))
	}
	fmt.Fprintln(os.Stderr)
}
