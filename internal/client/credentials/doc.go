// Package credentials remembers a login (email and password) across
// restarts on whichever storage the platform offers.
//
// A Store is built once for one Platform and never re-detects it:
//
//	native: OS keyring (email, password)   -> preferences (email only)
//	web:    credential vault (email, password) -> session memory (email only)
//
// The first tier is tried first. When it refuses a write the Store silently
// remembers the email alone in the second tier, which never holds a
// password. Reads probe the tiers in the same order and treat any backend
// error as "nothing here". No method returns an error: failures are logged
// and absorbed, since losing "remember me" must never break a login.
package credentials
