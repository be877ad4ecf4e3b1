// SPDX-License-Identifier: MPL-2.0

// Package cueutil compiles user CUE files against an embedded schema and
// formats CUE errors with JSON-path prefixes so that configuration mistakes
// point at the offending field.
package cueutil
