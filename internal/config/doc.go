// SPDX-License-Identifier: MIT

// Package config implements the training-run configuration schema used by the
// training harness: strict YAML parsing, ENV > file > defaults precedence,
// business validation, atomic persistence and hot reloading.
//
// The configuration file carries a single top-level "train" mapping. All
// operational knobs (log level, listen address, dataset class count) are
// environment-only and never appear in the file.
package config
