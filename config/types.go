package config

// App is a required application together with the URL it would be
// downloaded from, had installation been implemented.
type App struct {
	Name string
	URL  string
}

// EmailConfig - where and how the reporter delivers the run log. The sender
// address and password are environment-backed only (EMAIL_ADDRESS /
// EMAIL_PASSWORD, optionally via a .env file) and never read from the INI
// file, so credentials stay out of on-disk config.
type EmailConfig struct {
	Recipient string `ini:"recipient"`
	SMTPHost  string `ini:"smtp_host"`
	SMTPPort  int    `ini:"smtp_port"`
	Subject   string `ini:"subject"`

	SenderAddress  string `ini:"-"`
	SenderPassword string `ini:"-"`
}

// Config - everything a run needs, read from the [checker], [apps] and
// [email] sections of the config file plus environment overrides.
type Config struct {
	LogPath string `ini:"log_path"`

	DiskFreeWarnPercent float64 `ini:"disk_free_warn_percent"`
	UptimeLimitDays     int     `ini:"uptime_limit_days"`

	// Apps the workstation must have; populated from the [apps] section
	// (key = bundle name, value = download URL).
	RequiredApps []App `ini:"-"`

	// Apps that must not be present.
	Blocklist []string `ini:"blocklist"`

	// App added when all performance checks pass, removed otherwise.
	OptionalApp    string `ini:"optional_app"`
	OptionalAppURL string `ini:"optional_app_url"`

	// Shell commands run after the run finishes or fails.
	SuccessCallback string `ini:"success_callback"`
	ErrorCallback   string `ini:"error_callback"`

	SentryDSN string `ini:"sentry_dsn"`

	Email EmailConfig `ini:"-"`
}
