// Package client contains the client-side building blocks for talking to the
// Botfolio backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): auth,
//     profile, payments, projects/tasks and the admin endpoints.
//  2. A concrete REST implementation (see HTTPClient) that injects the bearer
//     token of the current session on every request and maps HTTP statuses to
//     sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every non-2xx answer is an *APIError. It unwraps to one of the sentinels
// (ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict, ErrValidation,
// ErrServer) so callers can match with errors.Is; transport failures wrap
// ErrUnavailable. Message returns the text to show to the user.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package client
