// Package version carries the build version reported by /health, the hello
// app and -version.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Set with ldflags:
//
//	go build -ldflags "-X github.com/devops-workshop/demo-apps/internal/version.BuildVersion=v1.2.3 -X github.com/devops-workshop/demo-apps/internal/version.BuildCommit=$(git rev-parse --short HEAD)" ./cmd/server
var (
	BuildVersion = "v1.0.0"
	BuildCommit  = "unknown"
)

func GetVersion() string {
	return BuildVersion
}

// GetBuildInfo describes the binary for -version.
func GetBuildInfo() string {
	return fmt.Sprintf("%s (commit: %s, %s)", BuildVersion, BuildCommit, runtime.Version())
}

// GetShortVersion drops the leading "v", matching the npm-style versions the
// apps reported before.
func GetShortVersion() string {
	return strings.TrimPrefix(BuildVersion, "v")
}
