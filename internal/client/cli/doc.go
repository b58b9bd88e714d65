// Package cli provides the interactive user-directory client.
//
// It wires configuration, the local SQLite snapshots, the remote user
// service and optional S3 avatar storage, then runs a REPL. At startup the
// persisted session is restored while the remote directory is merged with
// the local overlay; both run concurrently.
//
// Key features:
//   - Login against local accounts or the remote service, logout, register
//   - List / search / filter / paginate the directory
//   - Create, edit and delete users, with avatar upload
//   - Show a single user fetched from the remote service
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, NewApp and runREPL for details.
package cli
