// Package cli provides the interactive authkeeper command-line client.
//
// It wires configuration, local storage, the auth API client and the session
// manager behind a REPL. The App tracks which screen the user is on
// (/login or /dashboard) and moves them back to the login screen when the
// server reports that the session token has expired.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
