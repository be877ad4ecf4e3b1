// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for kernel-janitor.
//
// The command tree is built by NewRootCommand around an App, which carries
// every side-effecting dependency (config provider, filesystem, shell runner,
// confirmation prompt). Execute wires the production App and runs the tree
// through fang.
package cmd
