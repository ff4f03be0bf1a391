//go:build windows

package checks

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows/registry"
)

type windowsInventory struct{}

func newAppInventory() AppInventory {
	return windowsInventory{}
}

var uninstallKeys = []string{
	`SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`,
	`SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`,
}

// Installed looks for the app in the uninstall registry hives (the list
// "Apps & features" is built from), then falls back to the Program Files
// directories for apps installed without an uninstaller entry.
func (windowsInventory) Installed(name string) (bool, error) {
	for _, keyPath := range uninstallKeys {
		key, err := registry.OpenKey(registry.LOCAL_MACHINE, keyPath, registry.ENUMERATE_SUB_KEYS|registry.READ)
		if err != nil {
			continue
		}
		subKeyNames, err := key.ReadSubKeyNames(-1)
		key.Close()
		if err != nil {
			continue
		}
		for _, subKeyName := range subKeyNames {
			subKey, err := registry.OpenKey(registry.LOCAL_MACHINE, keyPath+`\`+subKeyName, registry.QUERY_VALUE)
			if err != nil {
				continue
			}
			displayName, _, err := subKey.GetStringValue("DisplayName")
			subKey.Close()
			if err != nil {
				continue
			}
			if strings.HasPrefix(strings.ToLower(displayName), strings.ToLower(name)) {
				return true, nil
			}
		}
	}

	for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
		programFiles := os.Getenv(env)
		if programFiles == "" {
			continue
		}
		if info, err := os.Stat(filepath.Join(programFiles, name)); err == nil && info.IsDir() {
			return true, nil
		}
	}

	return false, nil
}

func systemVolume() string {
	systemDrive := os.Getenv("SystemDrive")
	if systemDrive == "" {
		systemDrive = "C:"
	}
	return systemDrive + `\`
}

// encryptionStatus asks manage-bde for the BitLocker state of the system
// volume. "Protection On" means the volume is encrypted and protected.
func encryptionStatus(ctx context.Context) (bool, string, error) {
	out, err := exec.CommandContext(ctx, "manage-bde", "-status", strings.TrimSuffix(systemVolume(), `\`)).Output()
	if err != nil {
		return false, "", err
	}
	status := strings.TrimSpace(string(out))
	detail := "BitLocker protection status unknown"
	for _, line := range strings.Split(status, "\n") {
		if strings.Contains(line, "Protection Status") {
			detail = strings.TrimSpace(line)
			break
		}
	}
	return strings.Contains(status, "Protection On"), detail, nil
}
