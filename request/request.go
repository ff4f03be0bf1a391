// Package request interprets the single JSON argument the checker is
// invoked with, e.g. '{"mode": "full-check"}'.
package request

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/yolo-ops/checker/state"
)

type payload struct {
	Mode *string `json:"mode"`
}

// Parse turns the positional CLI argument into a run mode. Anything that is
// not well-formed JSON naming a recognized mode is rejected before any
// inspection runs.
func Parse(arg string) (state.Mode, error) {
	if arg == "" {
		return "", errors.Wrap(state.ErrInvalidArgument, "a JSON-formatted argument is required, e.g. '{\"mode\": \"full-check\"}'")
	}

	var p payload
	if err := json.Unmarshal([]byte(arg), &p); err != nil {
		return "", errors.Wrapf(state.ErrInvalidArgument, "argument is not valid JSON: %s", err)
	}
	if p.Mode == nil {
		return "", errors.Wrap(state.ErrInvalidArgument, "argument is missing the \"mode\" key")
	}

	switch *p.Mode {
	case "full-check":
		return state.ModeFullCheck, nil
	case "application", "applications": // the plural predates the documented name
		return state.ModeApplication, nil
	case "performance":
		return state.ModePerformance, nil
	}

	return "", errors.Wrapf(state.ErrInvalidArgument, "unrecognized mode %q (expected full-check, application or performance)", *p.Mode)
}
