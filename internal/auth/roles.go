package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// RoleResolver reads the role of a principal from its Profile.
type RoleResolver struct {
	db *gorm.DB
}

// NewRoleResolver creates a RoleResolver.
func NewRoleResolver(db *gorm.DB) *RoleResolver {
	return &RoleResolver{db: db}
}

// Resolve returns the role stored on the profile of p.
// Users without profile yield ErrNoProfile.
func (r *RoleResolver) Resolve(ctx context.Context, p *Principal) (models.Role, error) {
	if !p.IsAuthenticated() {
		return "", ErrAuthenticationRequired
	}

	var profile models.Profile

	err := r.db.WithContext(ctx).Where("user_id = ?", p.UserID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoProfile
	}

	if err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}

	return profile.Role, nil
}

// roleAllows is the fixed role baseline.
func roleAllows(role models.Role, action Action) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleLibrarian:
		return action == ActionView || action == ActionCreate || action == ActionEdit
	case models.RoleMember:
		return action == ActionView
	}

	return false
}
