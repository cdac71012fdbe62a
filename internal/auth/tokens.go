package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// tokenBytes gives 40 hex characters.
const tokenBytes = 20

// GenerateKey returns a new random API token key.
func GenerateKey() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(b), nil
}

// TokenService issues and resolves API tokens.
type TokenService struct {
	db *gorm.DB
}

// NewTokenService creates a TokenService.
func NewTokenService(db *gorm.DB) *TokenService {
	return &TokenService{db: db}
}

// Obtain returns the token of the user, creating it on first use.
func (s *TokenService) Obtain(ctx context.Context, userID uint64) (*models.APIToken, error) {
	var token models.APIToken

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&token).Error
		if err == nil {
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to query token: %w", err)
		}

		key, err := GenerateKey()
		if err != nil {
			return err
		}

		token = models.APIToken{UserID: userID, Key: key}

		return tx.Omit("User").Create(&token).Error
	})
	if err != nil {
		return nil, err
	}

	return &token, nil
}

// Lookup returns the active user owning key.
func (s *TokenService) Lookup(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, ErrInvalidToken
	}

	var token models.APIToken

	err := s.db.WithContext(ctx).Preload("User").Where(&models.APIToken{Key: key}).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}

	if !token.User.Active {
		return nil, ErrInvalidToken
	}

	return &token.User, nil
}

// Revoke deletes the token of the user.
func (s *TokenService) Revoke(ctx context.Context, userID uint64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.APIToken{}).Error
}
