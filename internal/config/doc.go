// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// The first existing file wins, in this order:
//
//  1. the path given with --config (must exist)
//  2. $XDG_CONFIG_HOME/kernel-janitor/config.cue (~/.config when unset)
//  3. /etc/kernel-janitor/config.cue
//  4. ./kernel-janitor.cue
//
// Without a file the defaults apply. Every key can be overridden from the
// environment with the KERNEL_JANITOR_ prefix, e.g. KERNEL_JANITOR_VERSIONS_TO_KEEP
// or KERNEL_JANITOR_UI_VERBOSE.
//
// Files are validated against the embedded schema in config_schema.cue.
package config
