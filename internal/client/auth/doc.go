// Package auth owns the client's authentication session.
//
// A Manager holds the in-memory Session (user, token, loading flag) and moves
// it between three phases:
//
//	Bootstrapping --Init--> Anonymous | Authenticated
//	Anonymous     --Login--> Authenticated
//	Authenticated --Logout / token expiration--> Anonymous
//
// Init trusts whatever durable storage holds; a stale token is discovered by
// the first authenticated call, whose 401 triggers HandleTokenExpiration.
// That handler clears the session and sends the user to the login screen,
// through the registered navigation callback when there is one and through
// Navigator.Redirect otherwise.
//
// Operations are not sequenced against each other. Logout is synchronous and
// idempotent, storage writes are last-write-wins, and a login that completes
// after a logout may still write its token.
package auth
