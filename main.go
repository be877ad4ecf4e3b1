// SPDX-License-Identifier: MPL-2.0

// Command kernel-janitor finds, rebuilds and cleans up installed Linux kernels.
package main

import cmd "kernel-janitor/cmd/kernel-janitor"

func main() {
	cmd.Execute()
}
