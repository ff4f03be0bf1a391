//go:build !darwin && !windows

package checks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

type unixInventory struct{}

func newAppInventory() AppInventory {
	return unixInventory{}
}

// Installed only has a loose notion of "installed" outside macOS and
// Windows; a directory under /opt is the best cheap signal.
func (unixInventory) Installed(name string) (bool, error) {
	info, err := os.Stat(filepath.Join("/opt", name))
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

func encryptionStatus(ctx context.Context) (bool, string, error) {
	return false, "", errors.New("encryption status checks are only implemented for macOS and Windows")
}
