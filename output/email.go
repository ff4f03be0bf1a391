// Package output delivers the run log to the outside world: by email, and
// through operator-provided completion callbacks. Nothing here runs unless
// explicitly invoked with complete parameters.
package output

import (
	"net/textproto"
	"os"

	"github.com/pkg/errors"
	gomail "gopkg.in/gomail.v2"

	"github.com/yolo-ops/checker/state"
	"github.com/yolo-ops/checker/util"
)

// EmailOpts are the parameters for one send. All of them are required; an
// incomplete set fails before any network activity.
type EmailOpts struct {
	Subject        string
	Body           string
	Recipient      string
	AttachmentPath string
	SMTPHost       string
	SMTPPort       int
	SenderAddress  string
	SenderPassword string
}

func (opts EmailOpts) validate() error {
	switch {
	case opts.Recipient == "":
		return errors.Wrap(state.ErrMissingConfiguration, "email recipient not set")
	case opts.SMTPHost == "":
		return errors.Wrap(state.ErrMissingConfiguration, "smtp_host not set")
	case opts.SMTPPort == 0:
		return errors.Wrap(state.ErrMissingConfiguration, "smtp_port not set")
	case opts.SenderAddress == "":
		return errors.Wrap(state.ErrMissingConfiguration, "EMAIL_ADDRESS not set")
	case opts.SenderPassword == "":
		return errors.Wrap(state.ErrMissingConfiguration, "EMAIL_PASSWORD not set")
	case opts.Subject == "":
		return errors.Wrap(state.ErrMissingConfiguration, "email subject not set")
	case opts.AttachmentPath == "":
		return errors.Wrap(state.ErrMissingConfiguration, "log attachment path not set")
	}

	if _, err := os.Stat(opts.AttachmentPath); err != nil {
		return errors.Wrapf(state.ErrMissingConfiguration, "log file %s not readable", opts.AttachmentPath)
	}

	return nil
}

// EmailLog sends the run log as an attachment over STARTTLS SMTP. There is
// no retry: a failed exchange surfaces as an authentication or transport
// error and the run log stays on disk.
func EmailLog(logger *util.Logger, opts EmailOpts) error {
	if err := opts.validate(); err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", opts.SenderAddress)
	message.SetHeader("To", opts.Recipient)
	message.SetHeader("Subject", opts.Subject)
	message.SetBody("text/plain", opts.Body)
	message.Attach(opts.AttachmentPath)

	dialer := gomail.NewDialer(opts.SMTPHost, opts.SMTPPort, opts.SenderAddress, opts.SenderPassword)

	logger.PrintVerbose("Sending %s to %s via %s:%d", opts.AttachmentPath, opts.Recipient, opts.SMTPHost, opts.SMTPPort)

	if err := dialer.DialAndSend(message); err != nil {
		if isAuthError(err) {
			return errors.Wrapf(state.ErrAuthentication, "SMTP login as %s rejected: %s", opts.SenderAddress, err)
		}
		return errors.Wrapf(state.ErrTransport, "sending mail via %s:%d: %s", opts.SMTPHost, opts.SMTPPort, err)
	}

	logger.PrintInfo("Emailed run log to %s", opts.Recipient)
	return nil
}

// SMTP reply codes that mean the credentials (not the transport) are the
// problem: 530 auth required, 534/535 auth failed.
func isAuthError(err error) bool {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 530, 534, 535:
			return true
		}
	}
	return false
}
