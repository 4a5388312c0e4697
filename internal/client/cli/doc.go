// Package cli is the interactive billed terminal client.
//
// It wires configuration, the session database, the backend transport and
// the employee pages, then runs a REPL that binds typed commands to the
// controllers' handlers. A background watcher pings the backend and flips
// between online and offline mode; offline, the bills page lists nothing
// and submissions fail fast.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
