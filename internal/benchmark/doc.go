// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for the hot paths of kernel-janitor:
//   - kernel version parsing
//   - kernel discovery over large install trees
//   - CUE configuration loading
//   - virtual shell execution
//
// Run them with:
//
//	go test -run '^$' -bench . ./internal/benchmark/
package benchmark
