// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for fixing it. The issue catalog holds longer Markdown guidance
// for the failures users hit most often (no kernels found, a missing scan
// directory, a broken legacy install, ...), rendered with glamour.
package issue
