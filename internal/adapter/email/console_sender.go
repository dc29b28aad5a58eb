package email

import (
	"context"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
)

// consoleSender writes outgoing mail to the log instead of delivering it.
// Used in local environments where no SMTP server is configured.
type consoleSender struct {
	log logger.Logger
}

func NewConsoleSender(log logger.Logger) EmailSender {
	return &consoleSender{log: log}
}

func (s *consoleSender) Send(_ context.Context, to []string, subject, bodyHTML, bodyText string) error {
	body := bodyText
	if body == "" {
		body = bodyHTML
	}
	s.log.Infof("Console email to %v, subject: %s, body: %s", to, subject, body)
	return nil
}
