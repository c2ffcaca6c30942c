// Package sessionclient manages the client side of an authenticated session:
// login/logout lifecycle, credential persistence and renewal, and a single
// observable status that gates every protected view in the application.
//
// State machine:
//   - SessionMachine holds the three-state session (unauthenticated,
//     checking, authenticated) plus the identity record and the latest
//     failure message. All mutation goes through named transitions with an
//     explicit allowed-transition graph; everything else observes through
//     Current and Watch.
//
// Credentials:
//   - CredentialStore persists the bearer token and its acquisition
//     timestamp. BunCredentialStore is the durable SQLite-backed default,
//     scoped per gateway realm; MemoryCredentialStore covers tests and
//     ephemeral clients; EncryptedCredentialStore adds at-rest encryption on
//     top of either.
//
// Tokens:
//   - DecodeToken reads a token's claims without verifying its signature.
//     Claims feed UX decisions only (identity display, expiry-based early
//     logout); authorization stays server-enforced. IsTokenExpired fails
//     open as expired, so an undecodable token is never treated as valid.
//
// Orchestration:
//   - Controller is the sole writer of session and credentials. CheckSession
//     reconciles a persisted token at startup, Login/Register exchange
//     credentials through the Gateway, Logout wipes both. Overlapping calls
//     are serialized by a sequence guard so the most recently initiated call
//     wins, and failure messages auto-dismiss on an owned, cancelable timer.
package sessionclient
