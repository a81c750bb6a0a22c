package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/timelessthreads/storefront/utils"
	"go.uber.org/zap"
)

// SendGridSender delivers codes as transactional email through the SendGrid
// HTTP API.
type SendGridSender struct {
	apiKey    string
	fromName  string
	fromEmail string
}

func NewSendGridSender(apiKey, fromName, fromEmail string) *SendGridSender {
	return &SendGridSender{apiKey: apiKey, fromName: fromName, fromEmail: fromEmail}
}

func (s *SendGridSender) SendCode(ctx context.Context, destination, code string) error {
	if s.apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", destination)
	subject := "Your verification code"
	textContent := fmt.Sprintf("Your OTP is: %s\nThe code expires in a few minutes. If you didn't request it, ignore this email.", code)
	htmlContent := fmt.Sprintf("<p>Your OTP is: <strong>%s</strong></p><p>The code expires in a few minutes. If you didn't request it, ignore this email.</p>", code)
	message := mail.NewSingleEmail(from, subject, to, textContent, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		utils.Error("Error sending email", zap.String("to", destination), zap.Error(err))
		return err
	}

	if response.StatusCode >= 400 {
		utils.Error("SendGrid API error",
			zap.Int("status_code", response.StatusCode),
			zap.String("body", response.Body))
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	utils.Info("OTP email sent", zap.String("to", destination), zap.Int("status_code", response.StatusCode))
	return nil
}
