package auth

import (
	"github.com/gofiber/fiber/v3"
)

// LocalsPrincipal is the fiber locals key holding the *Principal of a request.
const LocalsPrincipal = "principal"

// SetPrincipal stores p in the request locals.
func SetPrincipal(c fiber.Ctx, p *Principal) {
	c.Locals(LocalsPrincipal, p)
}

// PrincipalFrom returns the principal of the request, nil for anonymous requests.
func PrincipalFrom(c fiber.Ctx) *Principal {
	p, _ := c.Locals(LocalsPrincipal).(*Principal)
	return p
}

// RequirePermission creates Fiber middleware that requires action on resource type rt.
// The decision does not depend on route parameters.
func RequirePermission(gate *Gate, action Action, rt ResourceType) fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := gate.Check(c.Context(), PrincipalFrom(c), action, rt); err != nil {
			return err
		}

		return c.Next()
	}
}

// RequireAuthenticated rejects anonymous requests.
func RequireAuthenticated() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !PrincipalFrom(c).IsAuthenticated() {
			return ErrAuthenticationRequired
		}

		return c.Next()
	}
}

// RequireStaff rejects principals without the staff flag.
func RequireStaff() fiber.Handler {
	return func(c fiber.Ctx) error {
		p := PrincipalFrom(c)
		if !p.IsAuthenticated() {
			return ErrAuthenticationRequired
		}

		if !p.Staff || !p.Active {
			return ErrPermissionDenied
		}

		return c.Next()
	}
}

// Can reports whether the principal of the request may perform action on rt.
// Lookup failures count as no. Used for conditional rendering.
func Can(c fiber.Ctx, gate *Gate, action Action, rt ResourceType) bool {
	return gate.Permits(c.Context(), PrincipalFrom(c), action, rt)
}
