//go:build windows

package util

import "golang.org/x/sys/windows"

// RunningElevated reports whether the process token carries administrator
// rights. Membership checks are not enough with UAC; the token elevation
// state is what decides whether we can write the log.
func RunningElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
