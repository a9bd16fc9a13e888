// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the stockroom
// daemon and CLI.
//
// Configuration is loaded from a single file specified by either the
// STOCKROOM_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search.
//
// The file may contain environment-specific sections (development,
// staging, production) that override base values when
// [Config].Environment matches. Production defaults to JSON logs.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${STOCKROOM_ROOT}, and ${VAR:-default} patterns are
// expanded. Relative storage paths resolve against storage.directory.
//
// Key exports:
//
//   - [Config] -- master struct with Telegram, Storage, Control, Logging
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- rejects unusable values before startup
package config
