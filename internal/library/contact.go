package library

import (
	"context"
	"fmt"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// ContactInput is a validated contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// SaveContactMessage stores a contact form submission.
func (s *Service) SaveContactMessage(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	msg := models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
	}

	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}

	return &msg, nil
}
