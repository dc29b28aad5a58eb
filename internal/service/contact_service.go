package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/adapter/email"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
)

type ContactService interface {
	// Submit stores the message, forwards it to the configured admin address
	// and drops a notification into the admin inbox.
	Submit(ctx context.Context, name, emailAddr, message string) (*entity.ContactMessage, error)
	List(ctx context.Context, page, pageSize int) ([]entity.ContactMessage, int64, error)
}

type contactService struct {
	contactRepo repository.ContactRepository
	sender      email.EmailSender
	notifier    NotificationService
	adminEmail  string
	log         logger.Logger
}

func NewContactService(
	contactRepo repository.ContactRepository,
	sender email.EmailSender,
	notifier NotificationService,
	adminEmail string,
	log logger.Logger,
) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		sender:      sender,
		notifier:    notifier,
		adminEmail:  adminEmail,
		log:         log,
	}
}

func (s *contactService) Submit(ctx context.Context, name, emailAddr, message string) (*entity.ContactMessage, error) {
	name = strings.TrimSpace(name)
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	message = strings.TrimSpace(message)

	var details []string
	if name == "" {
		details = append(details, "name is required")
	}
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		details = append(details, "a valid email is required")
	}
	if message == "" {
		details = append(details, "message is required")
	}
	if len(details) > 0 {
		return nil, domain.NewValidationDetails("invalid contact submission", details...)
	}

	contact := &entity.ContactMessage{
		Name:      name,
		Email:     emailAddr,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.contactRepo.Create(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("could not store contact message: %w", err)
	}
	contact.ID = id

	if s.adminEmail != "" {
		body := fmt.Sprintf("From: %s <%s>\n\n%s", name, emailAddr, message)
		if err := s.sender.Send(ctx, []string{s.adminEmail}, "New contact form submission", "", body); err != nil {
			s.log.Warnf("Failed to forward contact message %s by email: %v", id, err)
		}
	}

	if err := s.notifier.NotifyAdmins(ctx, entity.NotificationContactSubmit,
		"New contact message",
		fmt.Sprintf("%s <%s> sent a message", name, emailAddr),
	); err != nil {
		s.log.Warnf("Failed to notify admins about contact message %s: %v", id, err)
	}

	s.log.Infof("Contact message %s stored from %s", id, emailAddr)
	return contact, nil
}

func (s *contactService) List(ctx context.Context, page, pageSize int) ([]entity.ContactMessage, int64, error) {
	return s.contactRepo.List(ctx, page, pageSize)
}
