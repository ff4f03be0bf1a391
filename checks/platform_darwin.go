//go:build darwin

package checks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type darwinInventory struct{}

func newAppInventory() AppInventory {
	return darwinInventory{}
}

// Installed checks for the app bundle under /Applications, e.g.
// "/Applications/Google Chrome.app".
func (darwinInventory) Installed(name string) (bool, error) {
	info, err := os.Stat(fmt.Sprintf("/Applications/%s.app", name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func systemVolume() string {
	return "/"
}

// encryptionStatus asks fdesetup for the FileVault state. Typical outputs
// are "FileVault is On." and "FileVault is Off.".
func encryptionStatus(ctx context.Context) (bool, string, error) {
	out, err := exec.CommandContext(ctx, "fdesetup", "status").Output()
	if err != nil {
		return false, "", err
	}
	status := strings.TrimSpace(string(out))
	return strings.Contains(status, "FileVault is On"), status, nil
}
