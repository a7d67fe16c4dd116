// =============================================================================
// Bump Chart Delta Reconciler - Report Email Delivery
// =============================================================================
//
// Sends the delta reports over the site's plain SMTP relay. One success
// email carries every report from the run as attachments; write failures
// trigger a separate notification to the error recipient.
//
// The relay is an internal unauthenticated host, so net/smtp with a
// hand-built MIME multipart message is all the transport this needs.
//
// =============================================================================

package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// Mailer delivers run notifications over SMTP.
type Mailer struct {
	Host    string
	Port    int
	From    string
	Subject string
}

// NewMailer creates a Mailer. An empty host disables delivery; Send becomes
// a logged no-op so runs work without a relay configured.
func NewMailer(host string, port int, from, subject string) *Mailer {
	return &Mailer{Host: host, Port: port, From: from, Subject: subject}
}

// SendSuccess emails the run's reports to every recipient.
func (m *Mailer) SendSuccess(recipients []string, attachments []string) error {
	if m.Host == "" {
		slog.Info("smtp host not configured, skipping success email")
		return nil
	}
	for _, to := range recipients {
		if err := m.send(to, m.Subject, "Price comparison report attached.", attachments); err != nil {
			return fmt.Errorf("failed to email %s: %w", to, err)
		}
		names := make([]string, len(attachments))
		for i, a := range attachments {
			names[i] = filepath.Base(a)
		}
		slog.Info("report email sent", "to", to, "attachments", strings.Join(names, ", "))
	}
	return nil
}

// SendError notifies the error recipient of a failed report write.
func (m *Mailer) SendError(recipient, message string) {
	if m.Host == "" || recipient == "" {
		return
	}
	if err := m.send(recipient, m.Subject+" - ERROR", message, nil); err != nil {
		slog.Error("failed to send error email", "to", recipient, "error", err)
	}
}

// send builds and submits one MIME message with optional attachments.
func (m *Mailer) send(to, subject, body string, attachments []string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", m.From)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	textPart, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return err
	}
	if _, err := textPart.Write([]byte(body)); err != nil {
		return err
	}

	for _, path := range attachments {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read attachment %s: %w", path, err)
		}
		name := filepath.Base(path)
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"application/octet-stream"},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", name)},
		})
		if err != nil {
			return err
		}
		encoded := base64.StdEncoding.EncodeToString(data)
		// RFC 2045 line length limit.
		for len(encoded) > 76 {
			if _, err := part.Write([]byte(encoded[:76] + "\r\n")); err != nil {
				return err
			}
			encoded = encoded[76:]
		}
		if _, err := part.Write([]byte(encoded + "\r\n")); err != nil {
			return err
		}
	}

	if err := w.Close(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	return smtp.SendMail(addr, nil, m.From, []string{to}, buf.Bytes())
}
