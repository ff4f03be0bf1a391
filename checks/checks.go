// Package checks performs the mode-specific workstation inspections. All
// checks are read-only: installs and removals are recorded as intended
// actions in the run result, never executed.
package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/yolo-ops/checker/config"
	"github.com/yolo-ops/checker/runlog"
	"github.com/yolo-ops/checker/state"
	"github.com/yolo-ops/checker/util"
)

// AppInventory answers whether an application is present on this
// workstation. The platform files provide the real implementation; tests
// substitute fakes.
type AppInventory interface {
	Installed(name string) (bool, error)
}

// Probes holds the platform-touching pieces of the checker so they can be
// swapped out under test.
type Probes struct {
	Inventory        AppInventory
	DiskFreePercent  func(ctx context.Context) (float64, error)
	UptimeSeconds    func(ctx context.Context) (uint64, error)
	EncryptionStatus func(ctx context.Context) (bool, string, error)
}

func defaultProbes() Probes {
	return Probes{
		Inventory: newAppInventory(),
		DiskFreePercent: func(ctx context.Context) (float64, error) {
			usage, err := disk.UsageWithContext(ctx, systemVolume())
			if err != nil {
				return 0, err
			}
			return 100.0 - usage.UsedPercent, nil
		},
		UptimeSeconds:    host.UptimeWithContext,
		EncryptionStatus: encryptionStatus,
	}
}

type Checker struct {
	conf   config.Config
	logger *util.Logger
	log    *runlog.Log
	result *state.RunResult
	probes Probes
}

func New(conf config.Config, logger *util.Logger, log *runlog.Log, result *state.RunResult) *Checker {
	return NewWithProbes(conf, logger, log, result, defaultProbes())
}

func NewWithProbes(conf config.Config, logger *util.Logger, log *runlog.Log, result *state.RunResult, probes Probes) *Checker {
	return &Checker{conf: conf, logger: logger, log: log, result: result, probes: probes}
}

// RunApplicationChecks verifies the required apps are present and the
// blocklisted ones are not. Returned errors are run log I/O failures, which
// are fatal; per-app inventory failures are recorded and skipped.
func (c *Checker) RunApplicationChecks(ctx context.Context) error {
	logger := c.logger.WithPrefix("apps")

	for _, app := range c.conf.RequiredApps {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		checkName := fmt.Sprintf("required app: %s", app.Name)
		installed, err := c.probes.Inventory.Installed(app.Name)
		if err != nil {
			logger.PrintError("Could not determine whether %s is installed: %s", app.Name, err)
			if logErr := c.log.Error("Could not determine whether %s is installed: %s", app.Name, err); logErr != nil {
				return logErr
			}
			c.result.AddCheck(checkName, state.CheckStatusError, err.Error())
			continue
		}

		if installed {
			logger.PrintVerbose("%s exists", app.Name)
			if err := c.log.Info("%s exists", app.Name); err != nil {
				return err
			}
			c.result.AddCheck(checkName, state.CheckStatusOkay, "installed")
		} else {
			logger.PrintWarning("%s not found", app.Name)
			if err := c.log.Warning("%s not found. Would download from %s and install it (installation not implemented).", app.Name, app.URL); err != nil {
				return err
			}
			c.result.AddCheck(checkName, state.CheckStatusWarning, "not installed")
			c.result.RecordAction(state.ActionInstall, app.Name, "required app missing")
		}
	}

	for _, name := range c.conf.Blocklist {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		checkName := fmt.Sprintf("blocklisted app: %s", name)
		installed, err := c.probes.Inventory.Installed(name)
		if err != nil {
			logger.PrintError("Could not determine whether %s is installed: %s", name, err)
			if logErr := c.log.Error("Could not determine whether %s is installed: %s", name, err); logErr != nil {
				return logErr
			}
			c.result.AddCheck(checkName, state.CheckStatusError, err.Error())
			continue
		}

		if installed {
			logger.PrintWarning("%s exists", name)
			if err := c.log.Warning("%s exists. Would uninstall it (removal not implemented).", name); err != nil {
				return err
			}
			c.result.AddCheck(checkName, state.CheckStatusWarning, "present")
			c.result.RecordAction(state.ActionRemove, name, "blocklisted app present")
		} else {
			logger.PrintVerbose("%s not found", name)
			if err := c.log.Info("%s not found.", name); err != nil {
				return err
			}
			c.result.AddCheck(checkName, state.CheckStatusOkay, "not present")
		}
	}

	return nil
}

// RunPerformanceChecks samples disk space, uptime and encryption status.
// When all three pass, the optional app would be installed; otherwise it
// would be removed if present (recorded only, like everything else).
func (c *Checker) RunPerformanceChecks(ctx context.Context) error {
	logger := c.logger.WithPrefix("performance")
	failures := 0

	percentFree, err := c.probes.DiskFreePercent(ctx)
	if err != nil {
		logger.PrintError("Error while checking disk space: %s", err)
		if logErr := c.log.Error("Error while checking disk space: %s", err); logErr != nil {
			return logErr
		}
		c.result.AddCheck("disk space", state.CheckStatusError, err.Error())
		failures++
	} else if percentFree > c.conf.DiskFreeWarnPercent {
		if err := c.log.Info("%.2f%% available disk space", percentFree); err != nil {
			return err
		}
		c.result.AddCheck("disk space", state.CheckStatusOkay, fmt.Sprintf("%.2f%% free", percentFree))
	} else {
		logger.PrintWarning("Low disk space: %.2f%% available", percentFree)
		if err := c.log.Warning("%.2f%% available disk space", percentFree); err != nil {
			return err
		}
		c.result.AddCheck("disk space", state.CheckStatusWarning, fmt.Sprintf("%.2f%% free, below %.2f%%", percentFree, c.conf.DiskFreeWarnPercent))
		failures++
	}

	uptimeLimit := time.Duration(c.conf.UptimeLimitDays) * 24 * time.Hour
	uptimeSeconds, err := c.probes.UptimeSeconds(ctx)
	uptime := time.Duration(uptimeSeconds) * time.Second
	if err != nil {
		logger.PrintError("Error while checking uptime: %s", err)
		if logErr := c.log.Error("Error while checking uptime: %s", err); logErr != nil {
			return logErr
		}
		c.result.AddCheck("uptime", state.CheckStatusError, err.Error())
		failures++
	} else if uptime < uptimeLimit {
		if err := c.log.Info("Uptime is %s", uptime); err != nil {
			return err
		}
		c.result.AddCheck("uptime", state.CheckStatusOkay, uptime.String())
	} else {
		logger.PrintWarning("Uptime limit exceeded: %s", uptime)
		if err := c.log.Warning("Uptime limit exceeded: %s (limit %d days)", uptime, c.conf.UptimeLimitDays); err != nil {
			return err
		}
		c.result.AddCheck("uptime", state.CheckStatusWarning, fmt.Sprintf("%s exceeds %d day limit", uptime, c.conf.UptimeLimitDays))
		failures++
	}

	encrypted, detail, err := c.probes.EncryptionStatus(ctx)
	if err != nil {
		logger.PrintError("Error while checking encryption status: %s", err)
		if logErr := c.log.Error("Error while checking encryption status: %s", err); logErr != nil {
			return logErr
		}
		c.result.AddCheck("encryption", state.CheckStatusError, err.Error())
		failures++
	} else if encrypted {
		if err := c.log.Info("Encryption status: %s", detail); err != nil {
			return err
		}
		c.result.AddCheck("encryption", state.CheckStatusOkay, detail)
	} else {
		logger.PrintWarning("Disk encryption is not enabled: %s", detail)
		if err := c.log.Warning("Encryption status: %s", detail); err != nil {
			return err
		}
		c.result.AddCheck("encryption", state.CheckStatusWarning, detail)
		failures++
	}

	return c.evaluateOptionalApp(logger, failures)
}

func (c *Checker) evaluateOptionalApp(logger *util.Logger, failures int) error {
	if c.conf.OptionalApp == "" {
		return nil
	}

	installed, err := c.probes.Inventory.Installed(c.conf.OptionalApp)
	if err != nil {
		logger.PrintError("Could not determine whether %s is installed: %s", c.conf.OptionalApp, err)
		if logErr := c.log.Error("Could not determine whether %s is installed: %s", c.conf.OptionalApp, err); logErr != nil {
			return logErr
		}
		c.result.AddCheck("optional app", state.CheckStatusError, err.Error())
		return nil
	}

	if failures == 0 {
		if installed {
			if err := c.log.Info("Performance checks passed. %s exists.", c.conf.OptionalApp); err != nil {
				return err
			}
			c.result.AddCheck("optional app", state.CheckStatusOkay, "installed")
		} else {
			if err := c.log.Info("Performance checks passed. Would download %s from %s and install it (installation not implemented).", c.conf.OptionalApp, c.conf.OptionalAppURL); err != nil {
				return err
			}
			c.result.AddCheck("optional app", state.CheckStatusOkay, "would install")
			c.result.RecordAction(state.ActionInstall, c.conf.OptionalApp, "performance checks passed")
		}
		return nil
	}

	if installed {
		if err := c.log.Warning("Performance checks not satisfactory. Would remove %s (removal not implemented).", c.conf.OptionalApp); err != nil {
			return err
		}
		c.result.AddCheck("optional app", state.CheckStatusWarning, "would remove")
		c.result.RecordAction(state.ActionRemove, c.conf.OptionalApp, "performance checks failed")
	} else {
		if err := c.log.Info("Performance checks not satisfactory. %s not found, nothing to remove.", c.conf.OptionalApp); err != nil {
			return err
		}
		c.result.AddCheck("optional app", state.CheckStatusOkay, "not present")
	}
	return nil
}
