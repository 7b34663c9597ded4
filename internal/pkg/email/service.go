// internal/pkg/email/service.go
package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-dashboard/internal/config"
	"github.com/your-org/pharmacy-dashboard/internal/domain/transfer"
)

// Service sends operational alert emails over SMTP. Alerts are best effort:
// the workflows that trigger them never wait on or fail with the mailer.
type Service struct {
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new email service
func NewService(cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		config: cfg,
		logger: logger,
	}
}

// NotifyShortage emails the configured recipients when a transfer preview
// shows quantities that cannot be allocated from the source branch.
func (s *Service) NotifyShortage(req *transfer.Request, preview *transfer.Preview) {
	if !s.config.Email.Enabled || len(s.config.Email.AlertTo) == 0 {
		return
	}

	subject := fmt.Sprintf("Stock shortage on transfer %s", req.Code)
	body := s.shortageBody(req, preview)

	if err := s.send(s.config.Email.AlertTo, subject, body); err != nil {
		s.logger.WithError(err).WithField("transfer_code", req.Code).
			Warn("Failed to send shortage alert")
	}
}

func (s *Service) shortageBody(req *transfer.Request, preview *transfer.Preview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h3>Transfer %s cannot be fully allocated</h3>", req.Code)
	b.WriteString("<ul>")
	for _, item := range preview.ShortItems() {
		fmt.Fprintf(&b, "<li>%s: requested %d, allocatable %d, missing %d</li>",
			item.ProductName, item.RequestedQty, item.AllocatedQty, item.MissingQty)
	}
	b.WriteString("</ul>")
	return b.String()
}

func (s *Service) send(to []string, subject, htmlBody string) error {
	if s.config.Email.SMTPHost == "" {
		return fmt.Errorf("SMTP configuration incomplete: missing host")
	}

	auth := smtp.PlainAuth("",
		s.config.Email.SMTPUser,
		s.config.Email.SMTPPass,
		s.config.Email.SMTPHost)

	fromEmail := s.config.Email.FromEmail
	from := fromEmail
	if s.config.Email.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.Email.FromName, fromEmail)
	}

	headers := map[string]string{
		"From":         from,
		"To":           strings.Join(to, ", "),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"utf-8\"",
	}

	var msg bytes.Buffer
	for key, value := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	serverAddr := fmt.Sprintf("%s:%d", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(serverAddr, auth, fromEmail, to, msg.Bytes())
}
