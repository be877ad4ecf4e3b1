// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated primitive types shared across
// kernel-janitor packages.
package types
