package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/timelessthreads/storefront/utils"
	"go.uber.org/zap"
)

// SMTPSender delivers codes over a direct SMTP submission with STARTTLS.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

func NewSMTPSender(host string, port int, username, password, fromEmail string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) SendCode(ctx context.Context, destination, code string) error {
	if s.username == "" || s.password == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}

	subject := "Your verification code"
	body := fmt.Sprintf("Your OTP code is: %s\nThe code expires in a few minutes.\nIf you didn't request this code, please ignore this email.", code)
	message := fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		destination, s.fromEmail, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	// Dial in plain text, then upgrade.
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: s.host}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("failed to auth: %w", err)
	}

	if err = client.Mail(s.fromEmail); err != nil {
		return fmt.Errorf("failed to set MAIL FROM: %w", err)
	}
	if err = client.Rcpt(destination); err != nil {
		return fmt.Errorf("failed to set RCPT TO: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open DATA: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	if err = client.Quit(); err != nil {
		return fmt.Errorf("failed to quit SMTP: %w", err)
	}

	utils.Info("OTP email sent", zap.String("to", destination))
	return nil
}
