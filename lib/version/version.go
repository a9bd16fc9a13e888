// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the stockroom binaries.
//
// Release builds set the variables below with -ldflags:
//
//	go build -ldflags "-X github.com/bureau-foundation/stockroom/lib/version.Version=1.2.0"
//
// Development builds fall back to the VCS stamp the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version.
	Version = "0.1.0-dev"

	// GitCommit is the short commit hash. Empty means read it from
	// the embedded build info.
	GitCommit = ""
)

// Commit returns the commit the binary was built from, with a
// "-dirty" suffix for builds from a modified tree.
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var revision, modified string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}
	if revision == "" {
		return "unknown"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if modified == "true" {
		revision += "-dirty"
	}
	return revision
}

// Info returns the one-line --version string.
func Info() string {
	return fmt.Sprintf("%s (%s, %s %s/%s)", Version, Commit(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
