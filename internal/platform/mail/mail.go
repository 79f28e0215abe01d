// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers the transactional emails of the API.

Two senders are provided:

  - [SMTPSender] talks to a relay and stops dialing it while it keeps failing.
  - [ConsoleSender] writes the message to the log, for local development.
*/
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/taibuivan/yamdb/internal/platform/metrics"
)

// ErrUnavailable is returned while the relay circuit is open.
var ErrUnavailable = errors.New("mail relay unavailable")

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a [Message].
type Sender interface {
	Send(context context.Context, message Message) error
}

// # SMTP

// SMTPConfig holds relay coordinates.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	UseTLS   bool

	// Timeout bounds the dial. Zero means 10 seconds.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the circuit. Zero means 5.
	FailureThreshold uint32

	// OpenTimeout is how long the circuit stays open. Zero means 30 seconds.
	OpenTimeout time.Duration
}

// SMTPSender sends mail through an SMTP relay guarded by a circuit breaker.
type SMTPSender struct {
	config  SMTPConfig
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
}

// NewSMTPSender creates a relay sender.
func NewSMTPSender(config SMTPConfig, logger *slog.Logger) *SMTPSender {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5
	}
	if config.OpenTimeout == 0 {
		config.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("mail_circuit_state_changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &SMTPSender{
		config:  config,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:  logger,
	}
}

// Send delivers message, or returns [ErrUnavailable] while the circuit is open.
func (sender *SMTPSender) Send(context context.Context, message Message) error {
	_, err := sender.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, sender.deliver(context, message)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordMailDelivery("rejected")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case err != nil:
		metrics.RecordMailDelivery("failed")
		sender.logger.ErrorContext(context, "mail_delivery_failed",
			slog.String("to", message.To),
			slog.Any("error", err),
		)
		return err
	}

	metrics.RecordMailDelivery("sent")
	return nil
}

func (sender *SMTPSender) deliver(context context.Context, message Message) error {
	address := net.JoinHostPort(sender.config.Host, strconv.Itoa(sender.config.Port))

	// 1. Dial with timeout
	dialer := &net.Dialer{Timeout: sender.config.Timeout}
	connection, err := dialer.DialContext(context, "tcp", address)
	if err != nil {
		return fmt.Errorf("connect to smtp server: %w", err)
	}
	defer func() { _ = connection.Close() }()

	if deadline, ok := context.Deadline(); ok {
		_ = connection.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(connection, sender.config.Host)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer func() { _ = client.Close() }()

	// 2. Secure and authenticate
	if sender.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: sender.config.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("start tls: %w", err)
		}
	}

	if sender.config.User != "" && sender.config.Password != "" {
		auth := smtp.PlainAuth("", sender.config.User, sender.config.Password, sender.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp authentication: %w", err)
		}
	}

	// 3. Envelope and body
	if err := client.Mail(sender.config.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := client.Rcpt(message.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("start message: %w", err)
	}
	if _, err := writer.Write([]byte(Compose(sender.config.From, message))); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}

	// The message is accepted once DATA closes.
	_ = client.Quit()
	return nil
}

// Compose renders message as an RFC 5322 plain-text email.
func Compose(from string, message Message) string {
	var builder strings.Builder

	builder.WriteString("From: " + from + "\r\n")
	builder.WriteString("To: " + message.To + "\r\n")
	builder.WriteString("Subject: " + message.Subject + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(strings.ReplaceAll(message.Body, "\n", "\r\n"))
	builder.WriteString("\r\n")

	return builder.String()
}

// # Console

// ConsoleSender logs messages instead of sending them.
type ConsoleSender struct {
	logger *slog.Logger
}

// NewConsoleSender creates a sender that writes to logger.
func NewConsoleSender(logger *slog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (sender *ConsoleSender) Send(context context.Context, message Message) error {
	sender.logger.InfoContext(context, "mail_console_delivery",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	metrics.RecordMailDelivery("sent")
	return nil
}
