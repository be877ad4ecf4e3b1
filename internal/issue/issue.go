// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	NoKernelsFoundId Id = iota + 1
	ScanPathMissingId
	LegacyLinkageFailedId
	IncompleteKernelId
	ConfigLoadFailedId
	CommandFailedId
	PermissionDeniedId
	InvalidKernelIndexId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // reference documentation for the failing tool
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue with the glamour style at stylePath ("auto",
// "dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	noKernelsFoundIssue = &Issue{
		id: NoKernelsFoundId,
		mdMsg: `
# No installed kernels found!

None of the search directories contained a kernel image, config, system map,
source tree or module tree with a recognizable version.

## Search locations:
1. Install path (default ` + "`/boot`" + `): vmlinuz-*, config-*, System.map-*
2. Source path (default ` + "`/usr/src`" + `): linux-*
3. Module path (default ` + "`/lib/modules`" + `): one directory per version

## Things you can try:
- Check which paths are in effect:
~~~
$ kernel-janitor config show
~~~
- Point kernel-janitor at your boot partition:
~~~
$ kernel-janitor list --install-path /boot/EFI/Gentoo
~~~`,
	}

	scanPathMissingIssue = &Issue{
		id: ScanPathMissingId,
		mdMsg: `
# A search directory could not be read!

kernel-janitor lists the install, source and module directories on every run.
One of them does not exist or is not readable.

## Things you can try:
- Mount the boot partition before running kernel-janitor
- Fix the path in your configuration file:
~~~cue
install_path: "/boot"
source_path:  "/usr/src"
module_path:  "/lib/modules"
~~~
- Run as root if the directory is not world-readable`,
	}

	legacyLinkageFailedIssue = &Issue{
		id: LegacyLinkageFailedId,
		mdMsg: `
# A legacy kernel has no current build!

A ` + "`.old`" + ` image, config or system map was found, but the current build of
the same version (or its module or source tree) is missing. Legacy builds
share their trees with the current build, so kernel-janitor cannot tell
which files belong to them.

## Things you can try:
- Reinstall the current build of that version:
~~~
$ make install modules_install
~~~
- Or remove the stray ` + "`.old`" + ` files from the install path by hand`,
	}

	incompleteKernelIssue = &Issue{
		id: IncompleteKernelId,
		mdMsg: `
# Kernel install is incomplete!

Only complete kernels (image, config, system map, source tree and module tree)
are removed automatically. Partially installed kernels are reported and left
alone so that nothing you still need is deleted.

## Things you can try:
- Inspect what was found:
~~~
$ kernel-janitor list
~~~
- Remove the remaining files by hand once you are sure they are unused`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be parsed or does not match the schema.

## Things you can try:
- Print the file kernel-janitor is reading:
~~~
$ kernel-janitor config path
~~~
- Regenerate a file with every default:
~~~
$ kernel-janitor config init --force
~~~

## Example configuration:
~~~cue
install_path:           "/boot"
versions_to_keep:       3
regenerate_grub_config: true
~~~`,
	}

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# A build step failed!

One of make, emerge or grub-mkconfig exited with an error. The output above
shows what went wrong. No kernels were cleaned up.

## Things you can try:
- Re-run the update with a manual configuration step:
~~~
$ kernel-janitor update --manual-edit
~~~
- Preview the commands without running them:
~~~
$ kernel-janitor update --dry-run
~~~`,
		docLinks: []HttpLink{"https://wiki.gentoo.org/wiki/Kernel/Upgrade"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

Kernel images, module trees and source trees are owned by root.

## Things you can try:
- Run kernel-janitor as root:
~~~
$ sudo kernel-janitor clean
~~~
- Check that the boot partition is not mounted read-only`,
	}

	invalidKernelIndexIssue = &Issue{
		id: InvalidKernelIndexId,
		mdMsg: `
# No kernel with that index!

Indices refer to the numbered list printed by ` + "`kernel-janitor list`" + `, oldest first,
starting at 0.

## Things you can try:
~~~
$ kernel-janitor list
$ kernel-janitor remove 0
~~~`,
	}

	issues = map[Id]*Issue{
		noKernelsFoundIssue.Id():      noKernelsFoundIssue,
		scanPathMissingIssue.Id():     scanPathMissingIssue,
		legacyLinkageFailedIssue.Id(): legacyLinkageFailedIssue,
		incompleteKernelIssue.Id():    incompleteKernelIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		commandFailedIssue.Id():       commandFailedIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
		invalidKernelIndexIssue.Id():  invalidKernelIndexIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
