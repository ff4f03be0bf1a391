package config

import (
	"os"
	"strconv"

	"github.com/go-ini/ini"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/yolo-ops/checker/state"
	"github.com/yolo-ops/checker/util"
)

const DefaultConfigFilename = "/etc/checker.conf"

const DefaultLogPath = "/var/log/checker.log"

func getDefaultConfig() *Config {
	return &Config{
		LogPath:             DefaultLogPath,
		DiskFreeWarnPercent: 20.0,
		UptimeLimitDays:     30,
		RequiredApps: []App{
			{Name: "Zoom", URL: "https://zoom.us/"},
			{Name: "Google Chrome", URL: "https://www.google.com/"},
			{Name: "Slack", URL: "https://www.slack.com/"},
		},
		Blocklist:      []string{"SpywareApp"},
		OptionalApp:    "Spotify",
		OptionalAppURL: "https://spotify.com",
		Email: EmailConfig{
			SMTPPort: 587,
		},
	}
}

// Environment variables win over the config file, the usual contract for
// agents configured inside containers or by MDM profiles.
func applyEnvOverrides(config *Config) {
	if logPath := os.Getenv("CHECKER_LOG_PATH"); logPath != "" {
		config.LogPath = logPath
	}
	if recipient := os.Getenv("CHECKER_RECIPIENT"); recipient != "" {
		config.Email.Recipient = recipient
	}
	if smtpHost := os.Getenv("CHECKER_SMTP_HOST"); smtpHost != "" {
		config.Email.SMTPHost = smtpHost
	}
	if smtpPort := os.Getenv("CHECKER_SMTP_PORT"); smtpPort != "" {
		config.Email.SMTPPort, _ = strconv.Atoi(smtpPort)
	}
	if sentryDsn := os.Getenv("SENTRY_DSN"); sentryDsn != "" {
		config.SentryDSN = sentryDsn
	}

	// Credentials are environment-only, never file-backed.
	config.Email.SenderAddress = os.Getenv("EMAIL_ADDRESS")
	config.Email.SenderPassword = os.Getenv("EMAIL_PASSWORD")
}

// Read loads the layered configuration: built-in defaults, then the INI
// file (when present), then environment variables. A .env file in the
// working directory is folded into the environment first, which is how the
// email credentials are expected to arrive on workstations.
func Read(logger *util.Logger, filename string) (Config, error) {
	var config Config

	if err := godotenv.Load(); err == nil {
		logger.PrintVerbose("Loaded .env file")
	}

	explicitFile := filename != ""
	if !explicitFile {
		filename = DefaultConfigFilename
	}

	config = *getDefaultConfig()

	if _, err := os.Stat(filename); err != nil {
		if explicitFile {
			return config, errors.Wrapf(state.ErrMissingConfiguration, "config file %s not readable", filename)
		}
		logger.PrintVerbose("No config file at %s, using defaults", filename)
		applyEnvOverrides(&config)
		return config, nil
	}

	configFile, err := ini.Load(filename)
	if err != nil {
		return config, errors.Wrapf(err, "failed to parse config file %s", filename)
	}

	checkerSection := configFile.Section("checker")
	if err = checkerSection.MapTo(&config); err != nil {
		return config, errors.Wrap(err, "failed to map [checker] section")
	}
	if key, keyErr := checkerSection.GetKey("blocklist"); keyErr == nil {
		config.Blocklist = key.Strings(",")
	}

	if appsSection, sectionErr := configFile.GetSection("apps"); sectionErr == nil {
		var apps []App
		for _, key := range appsSection.Keys() {
			apps = append(apps, App{Name: key.Name(), URL: key.Value()})
		}
		if len(apps) > 0 {
			config.RequiredApps = apps
		}
	}

	if emailSection, sectionErr := configFile.GetSection("email"); sectionErr == nil {
		if err = emailSection.MapTo(&config.Email); err != nil {
			return config, errors.Wrap(err, "failed to map [email] section")
		}
	}

	applyEnvOverrides(&config)

	if config.DiskFreeWarnPercent <= 0 || config.DiskFreeWarnPercent >= 100 {
		return config, errors.Wrapf(state.ErrMissingConfiguration, "disk_free_warn_percent must be between 0 and 100, got %.1f", config.DiskFreeWarnPercent)
	}
	if config.UptimeLimitDays <= 0 {
		return config, errors.Wrapf(state.ErrMissingConfiguration, "uptime_limit_days must be positive, got %d", config.UptimeLimitDays)
	}

	return config, nil
}
