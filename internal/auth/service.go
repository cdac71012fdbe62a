package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// GroupSpec describes a default group and the actions it grants on every resource type.
type GroupSpec struct {
	Name        string
	Description string
	Actions     []Action
}

// DefaultGroups are created by SetupGroups.
func DefaultGroups() []GroupSpec {
	return []GroupSpec{
		{
			Name:        "Viewers",
			Description: "Can view books, authors and libraries.",
			Actions:     []Action{ActionView},
		},
		{
			Name:        "Editors",
			Description: "Can view, create and edit books, authors and libraries.",
			Actions:     []Action{ActionView, ActionCreate, ActionEdit},
		},
		{
			Name:        "Admins",
			Description: "Full access to books, authors and libraries.",
			Actions:     Actions(),
		},
	}
}

// Service manages roles, groups and grants.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// EnsureGrants creates the grant of every (resource type, action) pair.
func (s *Service) EnsureGrants(ctx context.Context) error {
	for _, rt := range ResourceTypes() {
		for _, action := range Actions() {
			grant := models.Grant{
				Codename:     action.Codename(),
				ResourceType: string(rt),
				Action:       string(action),
				Name:         fmt.Sprintf("Can %s %s", action, rt),
			}

			err := s.db.WithContext(ctx).
				Where("codename = ? AND resource_type = ?", grant.Codename, grant.ResourceType).
				FirstOrCreate(&grant).Error
			if err != nil {
				return fmt.Errorf("failed to ensure grant %s.%s: %w", rt, grant.Codename, err)
			}
		}
	}

	return nil
}

// SetupGroups creates the DefaultGroups and resets their grants. It is idempotent.
func (s *Service) SetupGroups(ctx context.Context) error {
	if err := s.EnsureGrants(ctx); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, spec := range DefaultGroups() {
			group := models.Group{Name: spec.Name}

			if err := tx.Where("name = ?", spec.Name).
				Attrs(models.Group{Description: spec.Description}).
				FirstOrCreate(&group).Error; err != nil {
				return fmt.Errorf("failed to create group %s: %w", spec.Name, err)
			}

			codenames := make([]string, 0, len(spec.Actions))
			for _, action := range spec.Actions {
				codenames = append(codenames, action.Codename())
			}

			var grants []models.Grant
			if err := tx.Where("codename IN ?", codenames).Find(&grants).Error; err != nil {
				return fmt.Errorf("failed to load grants: %w", err)
			}

			if err := tx.Model(&group).Association("Grants").Replace(grants); err != nil {
				return fmt.Errorf("failed to set grants of group %s: %w", spec.Name, err)
			}
		}

		return nil
	})
}

// AssignRole sets the role of a user, creating the profile if it is missing.
func (s *Service) AssignRole(ctx context.Context, userID uint64, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownRole, role)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}

		profile := models.Profile{UserID: userID, Role: role}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
		}).Create(&profile).Error
	})
}

// AddUserToGroup makes the user a member of the named group.
func (s *Service) AddUserToGroup(ctx context.Context, userID uint64, groupName string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}

		group, err := groupByName(tx, groupName)
		if err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.UserGroup{UserID: userID, GroupID: group.ID}).Error
	})
}

// RemoveUserFromGroup ends the membership of the user in the named group.
func (s *Service) RemoveUserFromGroup(ctx context.Context, userID uint64, groupName string) error {
	group, err := groupByName(s.db.WithContext(ctx), groupName)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, group.ID).
		Delete(&models.UserGroup{}).Error
}

// GetUserGroups retrieves all groups a user belongs to.
func (s *Service) GetUserGroups(ctx context.Context, userID uint64) ([]models.Group, error) {
	var groups []models.Group

	err := s.db.WithContext(ctx).
		Where("id IN (?)", s.groupIDsOf(ctx, userID)).
		Order("name").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user groups: %w", err)
	}

	return groups, nil
}

// GetUserGrants returns the sorted "resource.codename" grants the user holds through groups.
func (s *Service) GetUserGrants(ctx context.Context, userID uint64) ([]string, error) {
	var grants []models.Grant

	grantIDs := s.db.WithContext(ctx).Table("group_grants").
		Select("grant_id").
		Where("group_id IN (?)", s.groupIDsOf(ctx, userID))

	err := s.db.WithContext(ctx).Where("id IN (?)", grantIDs).Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user grants: %w", err)
	}

	out := make([]string, 0, len(grants))
	for _, grant := range grants {
		out = append(out, grant.ResourceType+"."+grant.Codename)
	}

	sort.Strings(out)

	return out, nil
}

// DeleteUser removes a user together with profile, memberships, token and comments.
func (s *Service) DeleteUser(ctx context.Context, userID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}

		for _, dependent := range []any{
			&models.Profile{},
			&models.UserGroup{},
			&models.APIToken{},
			&models.Comment{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(dependent).Error; err != nil {
				return fmt.Errorf("failed to delete user data: %w", err)
			}
		}

		return tx.Delete(&models.User{}, userID).Error
	})
}

// groupIDsOf is a subquery selecting the group ids of a user.
func (s *Service) groupIDsOf(ctx context.Context, userID uint64) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.UserGroup{}).Select("group_id").Where("user_id = ?", userID)
}

func userExists(tx *gorm.DB, userID uint64) error {
	var count int64
	if err := tx.Model(&models.User{}).Where(whereID, userID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to query user: %w", err)
	}

	if count == 0 {
		return ErrUserNotFound
	}

	return nil
}

func groupByName(tx *gorm.DB, name string) (*models.Group, error) {
	var group models.Group

	err := tx.Where("name = ?", strings.TrimSpace(name)).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query group: %w", err)
	}

	return &group, nil
}
