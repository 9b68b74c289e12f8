// Package version exposes build metadata, stamped at link time via
// -ldflags "-X github.com/nsommier/hoard/internal/version.Version=...".
package version

import (
	"runtime"
	"time"
)

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the short git hash the binary was built from.
	Commit = "none"
	// BuildDate defaults to process start when not stamped.
	BuildDate = time.Now().Format(time.RFC3339)
	// GoVersion is the toolchain that built the binary.
	GoVersion = runtime.Version()
)
