// Package cli is the interactive Botfolio client.
//
// It wires configuration, the persisted session, the API services and a
// line-oriented REPL. App plays the router: services and the session store
// call App.Navigate, and the prompt shows the current route, the logged-in
// user and whether the API is reachable.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends.
package cli
