package session

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// GormStorage keeps sessions in the web_sessions table of the main database.
type GormStorage struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStorage creates a session storage on db.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db, now: time.Now}
}

// Get implements Storage.
func (s *GormStorage) Get(key string) ([]byte, error) {
	var row models.Session

	err := s.db.Where(&models.Session{Key: key}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if !row.ExpiresAt.IsZero() && !row.ExpiresAt.After(s.now()) {
		return nil, s.Delete(key)
	}

	return row.Data, nil
}

// Set implements Storage. A zero exp keeps the session until it is deleted.
func (s *GormStorage) Set(key string, val []byte, exp time.Duration) error {
	row := models.Session{Key: key, Data: val}
	if exp > 0 {
		row.ExpiresAt = s.now().Add(exp)
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Delete implements Storage.
func (s *GormStorage) Delete(key string) error {
	if err := s.db.Delete(&models.Session{Key: key}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteExpired removes every expired session.
func (s *GormStorage) DeleteExpired() error {
	err := s.db.Where("expires_at > ? AND expires_at <= ?", time.Time{}, s.now()).Delete(&models.Session{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return nil
}
