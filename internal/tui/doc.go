// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompts of kernel-janitor, built on
// charmbracelet/bubbletea and styled with lipgloss.
package tui
