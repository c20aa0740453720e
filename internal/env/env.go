// Package env holds build-time identity for jhove-go, set via -ldflags at
// build time (e.g. -X github.com/ostafen/digler/internal/env.Version=1.2.3).
// Grounded on the teacher's own internal/env, referenced from cmd/main.go
// and internal/scan.go but never itself part of the retrieved sources —
// its shape (four ldflags-settable string vars, "dev"/"unknown" defaults)
// follows the conventional Go build-info pattern the teacher's own
// call sites assume.
package env

var (
	AppName    = "jhovego"
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
