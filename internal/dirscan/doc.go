// SPDX-License-Identifier: MPL-2.0

// Package dirscan lists the immediate entries of a directory, optionally
// filtered by a filename prefix. It is the only place kernel discovery
// touches the filesystem for reading, and it reports listing failures as
// typed errors instead of empty results: a missing search directory is a
// configuration problem, not "no kernels installed".
package dirscan
