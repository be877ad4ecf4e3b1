// SPDX-License-Identifier: MPL-2.0

// Package shell runs the build and bootloader commands of the update workflow
// through an embedded POSIX shell interpreter (mvdan.cc/sh), so scripts behave
// the same regardless of the host's /bin/sh.
package shell
