package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// PrincipalCreatedHook runs inside the transaction that creates a user.
// Returning an error rolls the registration back.
type PrincipalCreatedHook func(tx *gorm.DB, user *models.User) error

// CreateProfileHook gives every new user a Profile with role.
func CreateProfileHook(role models.Role) PrincipalCreatedHook {
	return func(tx *gorm.DB, user *models.User) error {
		profile := models.Profile{UserID: user.ID, Role: role}
		if err := tx.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		user.Profile = &profile

		return nil
	}
}

// RegisterInput is an already validated account request.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Staff     bool
}

// Registration creates accounts.
type Registration struct {
	db    *gorm.DB
	hooks []PrincipalCreatedHook
}

// NewRegistration creates a Registration running hooks for every new user.
func NewRegistration(db *gorm.DB, hooks ...PrincipalCreatedHook) *Registration {
	return &Registration{db: db, hooks: hooks}
}

// Register creates an active user with a hashed password.
// Username and non empty email must be unused.
func (r *Registration) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hashedPassword, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Active:    true,
		Staff:     in.Staff,
		Username:  in.Username,
		Email:     in.Email,
		Password:  hashedPassword,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.User{}).Where("username = ?", in.Username)
		if in.Email != "" {
			query = query.Or("email = ?", in.Email)
		}

		var count int64
		if errCount := query.Count(&count).Error; errCount != nil {
			return fmt.Errorf("failed to check existing user: %w", errCount)
		}

		if count > 0 {
			return ErrUserNameOrEmailExists
		}

		if errCreate := tx.Create(&user).Error; errCreate != nil {
			if errors.Is(errCreate, gorm.ErrDuplicatedKey) {
				return ErrUserNameOrEmailExists
			}

			return fmt.Errorf("failed to create user: %w", errCreate)
		}

		for _, hook := range r.hooks {
			if errHook := hook(tx, &user); errHook != nil {
				return errHook
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}
