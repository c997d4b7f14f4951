// Package version holds the application version string. It is set at build
// time via -ldflags "-X github.com/finledger/holdings-backend/internal/version.Version=v1.2.3".
package version

// Version is the application version, "dev" unless overridden at build time.
var Version = "dev"
