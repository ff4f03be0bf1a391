package output

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/yolo-ops/checker/state"
	"github.com/yolo-ops/checker/util"
)

func testLogger() *util.Logger {
	return &util.Logger{Destination: log.New(io.Discard, "", 0)}
}

func completeOpts(t *testing.T) EmailOpts {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "checker.log")
	if err := os.WriteFile(logPath, []byte("2024-06-18 10:00:00 - INFO - Executing checker\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return EmailOpts{
		Subject:        "Checker findings",
		Body:           "see attached",
		Recipient:      "ops@example.com",
		AttachmentPath: logPath,
		SMTPHost:       "smtp.example.com",
		SMTPPort:       587,
		SenderAddress:  "checker@example.com",
		SenderPassword: "hunter2",
	}
}

func TestEmailLogRequiresAllParameters(t *testing.T) {
	clear := []struct {
		name  string
		strip func(*EmailOpts)
	}{
		{"recipient", func(o *EmailOpts) { o.Recipient = "" }},
		{"smtp host", func(o *EmailOpts) { o.SMTPHost = "" }},
		{"smtp port", func(o *EmailOpts) { o.SMTPPort = 0 }},
		{"sender address", func(o *EmailOpts) { o.SenderAddress = "" }},
		{"sender password", func(o *EmailOpts) { o.SenderPassword = "" }},
		{"subject", func(o *EmailOpts) { o.Subject = "" }},
		{"attachment path", func(o *EmailOpts) { o.AttachmentPath = "" }},
	}

	for _, tc := range clear {
		opts := completeOpts(t)
		tc.strip(&opts)
		err := EmailLog(testLogger(), opts)
		if !errors.Is(err, state.ErrMissingConfiguration) {
			t.Errorf("missing %s: want ErrMissingConfiguration, got %v", tc.name, err)
		}
	}
}

func TestEmailLogRequiresReadableAttachment(t *testing.T) {
	opts := completeOpts(t)
	opts.AttachmentPath = filepath.Join(t.TempDir(), "missing.log")
	err := EmailLog(testLogger(), opts)
	if !errors.Is(err, state.ErrMissingConfiguration) {
		t.Errorf("want ErrMissingConfiguration for unreadable log, got %v", err)
	}
}

func TestIsAuthError(t *testing.T) {
	authCases := []error{
		&textproto.Error{Code: 535, Msg: "5.7.8 Authentication credentials invalid"},
		&textproto.Error{Code: 534, Msg: "5.7.9 Application-specific password required"},
		&textproto.Error{Code: 530, Msg: "5.7.0 Authentication required"},
		fmt.Errorf("login failed: %w", &textproto.Error{Code: 535, Msg: "bad credentials"}),
	}
	for _, err := range authCases {
		if !isAuthError(err) {
			t.Errorf("want auth error for %v", err)
		}
	}

	transportCases := []error{
		&textproto.Error{Code: 421, Msg: "service not available"},
		errors.New("dial tcp: connection refused"),
		nil,
	}
	for _, err := range transportCases {
		if isAuthError(err) {
			t.Errorf("want non-auth classification for %v", err)
		}
	}
}
