// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, plus a builder for on-disk kernel installations used as
// discovery fixtures.
package testutil
