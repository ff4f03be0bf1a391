package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	raven "github.com/getsentry/raven-go"
	flag "github.com/ogier/pflag"
	"github.com/pkg/errors"

	"github.com/yolo-ops/checker/config"
	"github.com/yolo-ops/checker/output"
	"github.com/yolo-ops/checker/request"
	"github.com/yolo-ops/checker/runner"
	"github.com/yolo-ops/checker/selftest"
	"github.com/yolo-ops/checker/state"
	"github.com/yolo-ops/checker/util"
)

const (
	exitOK = iota
	exitInvalidArgument
	exitPermissionDenied
	exitConfiguration
	exitReporter
)

func main() {
	var showVersion bool
	var opts state.RunOpts
	var dryRun bool
	var noColor bool

	flag.BoolVarP(&showVersion, "version", "V", false, "Shows the version of the checker and exits")
	flag.BoolVarP(&opts.Verbose, "verbose", "v", false, "Outputs additional debugging information")
	flag.BoolVarP(&opts.Quiet, "quiet", "q", false, "Only outputs errors to the console")
	flag.BoolVar(&opts.EmailReport, "email-report", false, "Emails the run log when the findings require attention")
	flag.BoolVar(&dryRun, "dry-run", false, "Skips the privilege gate and writes the run log to the working directory")
	flag.BoolVar(&noColor, "no-color", false, "Disables colored output in the run summary")
	flag.StringVar(&opts.ConfigFilename, "config", "", "Reads the given config file instead of "+config.DefaultConfigFilename)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  checker [flags] '{\"mode\": \"full-check\"}'\n\nModes: full-check, application, performance\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println(util.CheckerNameAndVersion)
		return
	}

	os.Exit(run(opts, dryRun, noColor))
}

func run(opts state.RunOpts, dryRun bool, noColor bool) int {
	logger := util.NewLogger(opts.Verbose, opts.Quiet)

	if noColor {
		selftest.DisableColors()
	}

	if flag.NArg() != 1 {
		logger.PrintError("A JSON-formatted argument is required, e.g. '{\"mode\": \"full-check\"}'")
		flag.Usage()
		return exitInvalidArgument
	}

	mode, err := request.Parse(flag.Arg(0))
	if err != nil {
		logger.PrintError("%s", err)
		return exitInvalidArgument
	}

	conf, err := config.Read(logger, opts.ConfigFilename)
	if err != nil {
		logger.PrintError("Config error: %s", err)
		return exitConfiguration
	}

	if dryRun {
		opts.TestRun = true
		if conf.LogPath == config.DefaultLogPath {
			conf.LogPath = "checker.log"
		}
	}

	if conf.SentryDSN != "" {
		opts.SentryClient, err = raven.New(conf.SentryDSN)
		if err != nil {
			logger.PrintWarning("Could not set up Sentry client: %s", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := runner.Run(ctx, conf, opts, logger, mode)
	if err != nil {
		logger.PrintError("Run failed: %s", err)
		reportFatal(opts, err, mode)
		if conf.ErrorCallback != "" {
			output.RunCompletionCallback("error", conf.ErrorCallback, result, err, logger)
		}
		if errors.Is(err, state.ErrPermissionDenied) {
			return exitPermissionDenied
		}
		return exitInvalidArgument
	}

	if !opts.Quiet {
		selftest.PrintSummary(result)
	}

	if opts.EmailReport {
		if result.ShipLog {
			if err := emailRunLog(conf, result, logger); err != nil {
				logger.PrintError("Report error: %s", err)
				reportFatal(opts, err, mode)
				if conf.ErrorCallback != "" {
					output.RunCompletionCallback("error", conf.ErrorCallback, result, err, logger)
				}
				if errors.Is(err, state.ErrMissingConfiguration) {
					return exitConfiguration
				}
				return exitReporter
			}
		} else {
			logger.PrintInfo("All checks passed, not emailing the run log")
		}
	}

	if conf.SuccessCallback != "" {
		output.RunCompletionCallback("success", conf.SuccessCallback, result, nil, logger)
	}

	return exitOK
}

func emailRunLog(conf config.Config, result *state.RunResult, logger *util.Logger) error {
	subject := conf.Email.Subject
	if subject == "" {
		hostname, _ := os.Hostname()
		subject = fmt.Sprintf("Checker findings from %s - %s", hostname, result.StartedAt.Format(time.RFC1123))
	}

	body := fmt.Sprintf("Run %s (%s mode) flagged %d warnings and %d errors; the run log is attached.",
		result.RunID, result.Mode,
		result.CheckCount(state.CheckStatusWarning), result.CheckCount(state.CheckStatusError))

	return output.EmailLog(logger, output.EmailOpts{
		Subject:        subject,
		Body:           body,
		Recipient:      conf.Email.Recipient,
		AttachmentPath: result.LogPath,
		SMTPHost:       conf.Email.SMTPHost,
		SMTPPort:       conf.Email.SMTPPort,
		SenderAddress:  conf.Email.SenderAddress,
		SenderPassword: conf.Email.SenderPassword,
	})
}

func reportFatal(opts state.RunOpts, err error, mode state.Mode) {
	if opts.SentryClient == nil {
		return
	}
	opts.SentryClient.CaptureErrorAndWait(err, map[string]string{"mode": string(mode)})
}
