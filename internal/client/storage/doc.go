// Package storage provides the interchangeable persistence surfaces the
// client keeps its session and remembered credentials in.
//
// Four backends are available:
//
//   - KeyringBackend: the operating system keyring (secure, native profile).
//   - SQLiteBackend: a namespaced key/value table in the local SQLite file.
//     Used both as the native "preferences" fallback and as durable storage
//     for the session token and user profile.
//   - MemoryBackend: process-scoped storage that disappears on exit.
//   - CredentialVault: an encrypted password-credential store with a
//     store/get API and feature detection (web profile).
//
// The first three implement Backend. None of them knows about the others;
// fallback policy lives in the credentials package.
//
// Write failures are reported as errors wrapping ErrUnavailable. Reads of
// missing keys are not errors, and Remove of a missing key succeeds.
package storage
