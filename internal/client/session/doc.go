// Package session owns the authenticated-identity lifecycle of the client.
//
// A single Store is built at process start and handed to every consumer.
// It is the only writer of the persisted session keys (token, user, expiry):
// Login writes them, Logout and the expiry paths clear them. The Store starts
// in StateInitializing; Restore moves it to StateAuthenticated or
// StateUnauthenticated and drops the loading flag.
//
// Expiry is never cached. Every read compares the wall clock with the stored
// deadline, and a read that finds the deadline passed logs the user out and
// sends them to the login route without an error.
package session
