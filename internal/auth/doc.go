// Package auth provides authentication and authorization for the bookshelf service.
//
// # Authentication
//
// LocalProvider checks username and password against the users table
// (Argon2id hashes). TokenService issues one API token per user for the REST
// interface. Registration creates accounts and runs the PrincipalCreatedHook
// chain in the same transaction, which is how every new user receives a Member
// Profile.
//
// # Authorization
//
// Every request carries a *Principal (nil or zero id for anonymous clients).
// Gate.Authorize decides whether the principal may perform an Action on a
// ResourceType:
//   - anonymous principals and inactive users are denied
//   - the Profile role is resolved by RoleResolver; Admin may do everything,
//     Librarian may view, create and edit, Member may only view
//   - otherwise a Grant reachable through one of the user's groups allows the action
//   - a user without Profile is denied
//
// Decisions never look at a concrete resource, so a denied request can not
// learn whether a resource exists. Every denial is logged and counted in
// authorization_denied_total.
//
// # Middleware
//
// RequirePermission protects fiber routes; it expects the principal in the
// request locals (see SetPrincipal) and returns ErrAuthenticationRequired or
// ErrPermissionDenied for the application error handler to render.
//
// Example usage:
//
//	gate := auth.NewGate(db)
//	app.Post("/api/books/",
//	    auth.RequirePermission(gate, auth.ActionCreate, auth.ResourceBook),
//	    handler,
//	)
package auth
