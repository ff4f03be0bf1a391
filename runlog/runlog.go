// Package runlog writes the run log artifact: the append-only record of
// findings that persists on disk after the run and that the reporter may
// email. Line format matches the historical checker log
// ("2006-01-02 15:04:05 - LEVEL - message") so downstream tooling keeps
// parsing it.
package runlog

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/yolo-ops/checker/state"
	"github.com/yolo-ops/checker/util"
)

// Overridable for tests that need to simulate an unprivileged run.
var runningElevated = util.RunningElevated

type Log struct {
	path string
	file *os.File
}

// Open prepares the run log for writing. The privilege gate comes first:
// nothing may be written (or even truncated) without elevated rights. Each
// run starts a fresh file, like the original's filemode="w" logging setup.
func Open(path string, opts state.RunOpts) (*Log, error) {
	if !opts.TestRun && !runningElevated() {
		return nil, errors.Wrapf(state.ErrPermissionDenied, "elevated privileges are required to write %s", path)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.Wrapf(state.ErrPermissionDenied, "opening %s: %s", path, err)
		}
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	return &Log{path: path, file: file}, nil
}

func (l *Log) Path() string {
	return l.path
}

func (l *Log) append(level string, format string, args ...interface{}) error {
	line := fmt.Sprintf("%s - %s - %s\n", time.Now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, args...))
	_, err := l.file.WriteString(line)
	if err != nil {
		// Log I/O failures are fatal to the run, no recovery.
		return errors.Wrapf(err, "writing to %s", l.path)
	}
	return nil
}

func (l *Log) Info(format string, args ...interface{}) error {
	return l.append("INFO", format, args...)
}

func (l *Log) Warning(format string, args ...interface{}) error {
	return l.append("WARNING", format, args...)
}

func (l *Log) Error(format string, args ...interface{}) error {
	return l.append("ERROR", format, args...)
}

func (l *Log) Close() error {
	return l.file.Close()
}
