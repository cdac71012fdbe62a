// Package auth provides the authentication middleware of the web application.
//
// The middleware resolves the principal of a request and stores it in the
// fiber locals (see coreauth.PrincipalFrom). It does not reject anonymous
// requests; the permission middleware of each route decides that.
//
// The middleware performs the following tasks:
//   - Resolves "Authorization: Token <key>" headers; an invalid token fails the request
//   - Falls back to the session cookie of browser clients
//   - Drops sessions of deleted or disabled users
//
// Usage:
//
//	app.Use(authmiddleware.New(authmiddleware.Config{Sessions: m, Tokens: t, Users: u}))
package auth
