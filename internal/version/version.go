// Package version holds build metadata set at link time.
package version

// Version is overridden with -ldflags "-X github.com/peasy-money/peasy-money-backend/internal/version.Version=...".
var Version = "dev"
