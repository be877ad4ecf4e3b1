// SPDX-License-Identifier: MPL-2.0

// Package workflow implements the kernel update pipeline on top of the
// discovery engine in package kernel: copy the newest installed config into
// the newest source tree, build and install it, rebuild out-of-tree modules,
// regenerate the bootloader configuration and finally remove old kernels.
//
// Every step honors Options.DryRun. In dry-run mode no file is written or
// deleted and no command is started; the commands that would have run are
// collected and available through Workflow.PlannedCommands.
package workflow
