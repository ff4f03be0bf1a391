//go:build !windows

package util

import "os"

// RunningElevated reports whether the process has the privileges needed to
// write the run log under /var/log (and, eventually, to manage applications).
func RunningElevated() bool {
	return os.Geteuid() == 0
}
