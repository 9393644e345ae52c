// Package notify delivers reminder notifications. Delivery is
// best-effort: failures are reported to the caller for logging but a
// reminder is never retried.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

// Notifier sends a reminder message scheduled for a given time.
type Notifier interface {
	Send(ctx context.Context, message string, fireAt time.Time) error
}

// EmailNotifier delivers reminders over SMTP.
type EmailNotifier struct {
	Host string
	Port int
	From string
	To   string
}

// NewEmailNotifier creates an SMTP-backed notifier.
func NewEmailNotifier(host string, port int, from, to string) *EmailNotifier {
	return &EmailNotifier{Host: host, Port: port, From: from, To: to}
}

// Send delivers the reminder as a plain-text email.
func (n *EmailNotifier) Send(ctx context.Context, message string, fireAt time.Time) error {
	when := fireAt.Format("Monday 02/01/2006 15:04")
	body := fmt.Sprintf("¡Hora de actuar!\n\n⏰ %s\n\nProgramado para: %s\n\n— Digital Brain 🧠", message, when)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: ⏰ Recordatorio: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		n.From, n.To, message, body)

	addr := net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
	if err := smtp.SendMail(addr, nil, n.From, []string{n.To}, []byte(msg)); err != nil {
		return fmt.Errorf("send reminder email: %w", err)
	}
	return nil
}

// LogNotifier writes reminders to the log. Used when no SMTP server is
// configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: slog.Default()}
}

// Send logs the reminder.
func (n *LogNotifier) Send(ctx context.Context, message string, fireAt time.Time) error {
	n.logger.InfoContext(ctx, "reminder", "message", message, "scheduled_for", fireAt)
	return nil
}
