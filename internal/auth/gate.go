package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// denial reasons, used as metric label
const (
	reasonAnonymous = "anonymous"
	reasonInactive  = "inactive"
	reasonUnknown   = "unknown_action_or_resource"
	reasonNoProfile = "no_profile"
	reasonNoGrant   = "no_grant"
	reasonWrongRole = "wrong_role"
)

// labels of role checks in the audit log and the denial counter
const (
	actionHoldRole Action       = "hold_role"
	resourceRole   ResourceType = "role"
)

var (
	deniedCounter     *prometheus.CounterVec //nolint:gochecknoglobals
	deniedCounterOnce sync.Once              //nolint:gochecknoglobals
)

func denials() *prometheus.CounterVec {
	deniedCounterOnce.Do(func() {
		deniedCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authorization_denied_total",
				Help: "Number of denied authorization decisions.",
			},
			[]string{"action", "resource_type", "reason"},
		)
	})

	return deniedCounter
}

// Gate makes authorization decisions.
type Gate struct {
	db    *gorm.DB
	roles *RoleResolver
}

// NewGate creates a Gate on db.
func NewGate(db *gorm.DB) *Gate {
	return &Gate{db: db, roles: NewRoleResolver(db)}
}

// Roles returns the resolver used by the gate.
func (g *Gate) Roles() *RoleResolver {
	return g.roles
}

// Authorize reports whether p may perform action on resources of type rt.
// Anonymous principals yield false and ErrAuthenticationRequired.
// A non nil error other than that one means the decision could not be made.
// Denials are logged and counted.
func (g *Gate) Authorize(ctx context.Context, p *Principal, action Action, rt ResourceType) (bool, error) {
	allowed, reason, err := g.decide(ctx, p, action, rt)
	if reason != "" {
		g.deny(p, action, rt, reason)
	}

	return allowed, err
}

// Permits is Authorize without audit trail, for conditional rendering.
func (g *Gate) Permits(ctx context.Context, p *Principal, action Action, rt ResourceType) bool {
	allowed, _, err := g.decide(ctx, p, action, rt)

	return err == nil && allowed
}

// decide returns the decision and, for denials, the reason.
func (g *Gate) decide(ctx context.Context, p *Principal, action Action, rt ResourceType) (bool, string, error) {
	if !p.IsAuthenticated() {
		return false, reasonAnonymous, ErrAuthenticationRequired
	}

	if !action.Valid() || !rt.Valid() {
		return false, reasonUnknown, nil
	}

	if !p.Active {
		return false, reasonInactive, nil
	}

	role, err := g.roles.Resolve(ctx, p)

	switch {
	case errors.Is(err, ErrNoProfile):
		return false, reasonNoProfile, nil
	case err != nil:
		return false, "", err
	case roleAllows(role, action):
		return true, "", nil
	}

	granted, err := g.hasGrant(ctx, p.UserID, action, rt)
	if err != nil {
		return false, "", err
	}

	if !granted {
		return false, reasonNoGrant, nil
	}

	return true, "", nil
}

// Check is Authorize as a single error: nil, ErrAuthenticationRequired,
// ErrPermissionDenied or a lookup failure.
func (g *Gate) Check(ctx context.Context, p *Principal, action Action, rt ResourceType) error {
	allowed, err := g.Authorize(ctx, p, action, rt)
	if err != nil {
		return err
	}

	if !allowed {
		return ErrPermissionDenied
	}

	return nil
}

// RequireRole checks that p is active and has one of roles and returns the role of p.
// Denials are logged and counted like those of Authorize.
func (g *Gate) RequireRole(ctx context.Context, p *Principal, roles ...models.Role) (models.Role, error) {
	if !p.IsAuthenticated() {
		g.deny(p, actionHoldRole, resourceRole, reasonAnonymous)
		return "", ErrAuthenticationRequired
	}

	if !p.Active {
		g.deny(p, actionHoldRole, resourceRole, reasonInactive)
		return "", ErrPermissionDenied
	}

	role, err := g.roles.Resolve(ctx, p)

	switch {
	case errors.Is(err, ErrNoProfile):
		g.deny(p, actionHoldRole, resourceRole, reasonNoProfile)
		return "", ErrPermissionDenied
	case err != nil:
		return "", err
	case !slices.Contains(roles, role):
		g.deny(p, actionHoldRole, resourceRole, reasonWrongRole)
		return role, ErrPermissionDenied
	}

	return role, nil
}

// hasGrant looks for a grant on (action, rt) in any group of the user.
func (g *Gate) hasGrant(ctx context.Context, userID uint64, action Action, rt ResourceType) (bool, error) {
	var count int64

	err := g.db.WithContext(ctx).Table("grants").
		Joins("JOIN group_grants ON group_grants.grant_id = grants.id").
		Joins("JOIN user_groups ON user_groups.group_id = group_grants.group_id").
		Where("user_groups.user_id = ? AND grants.codename = ? AND grants.resource_type = ?",
			userID, action.Codename(), string(rt)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check group grants: %w", err)
	}

	return count > 0, nil
}

func (g *Gate) deny(p *Principal, action Action, rt ResourceType, reason string) {
	var userID uint64
	if p != nil {
		userID = p.UserID
	}

	log.Warn().
		Str("component", "authorization").
		Uint64("user_id", userID).
		Str("action", string(action)).
		Str("resource_type", string(rt)).
		Str("reason", reason).
		Msg("permission denied")

	denials().WithLabelValues(string(action), string(rt), reason).Inc()
}
