// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	EggNotFoundId Id = iota + 1
	VersionNotFoundId
	RegistryUnreachableId
	ManifestInvalidId
	ChecksumMismatchId
	ExtractFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links shown in the "See also" section
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	eggNotFoundIssue = &Issue{
		id: EggNotFoundId,
		mdMsg: `
# Egg not found!

The registry has no egg with the name you asked for.

## Things you can try:
- Search the registry for the right name:
~~~
$ eggfetch search <query>
~~~

- Check for typos — egg names are the slug, not the display title
- Point at a different registry if you use a self-hosted hatchery:
~~~
$ eggfetch --registry https://hatchery.example.org install <egg>
~~~`,
	}

	versionNotFoundIssue = &Issue{
		id: VersionNotFoundId,
		mdMsg: `
# Version not found!

The egg exists, but the version you pinned has no entry in its release manifest.

## Things you can try:
- List the published versions:
~~~
$ eggfetch info <egg>
~~~

- Drop the ` + "`--version`" + ` flag to install the latest release`,
	}

	registryUnreachableIssue = &Issue{
		id: RegistryUnreachableId,
		mdMsg: `
# Could not reach the registry!

The hatchery did not answer, or answered with an unexpected status.

## Things you can try:
- Check your network connection
- Check the registry status page
- Verify the configured registry URL:
~~~
$ eggfetch config show
~~~`,
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Malformed release manifest!

The registry answered, but the manifest JSON could not be decoded or
contains no installable release.

## Things you can try:
- Retry later — the registry may be mid-publish
- Inspect the raw manifest in a browser: ` + "`<registry>/eggs/get/<egg>/json`" + `
- Report the egg to the registry maintainers if it persists`,
	}

	checksumMismatchIssue = &Issue{
		id: ChecksumMismatchId,
		mdMsg: `
# Checksum verification failed!

The downloaded archive does not match the SHA256 digest published in the
release manifest. The download may be corrupted or tampered with.

## Things you can try:
- Run the install again — transient corruption is the common cause
- If it persists, report the egg to the registry maintainers`,
	}

	extractFailedIssue = &Issue{
		id: ExtractFailedId,
		mdMsg: `
# Archive extraction failed!

The downloaded archive could not be unpacked into the target directory.

## Common causes:
- The target directory is not writable
- The archive is not a tar or tar.gz file
- The archive contains unsafe paths and was rejected

## Things you can try:
- Pick a writable target directory:
~~~
$ eggfetch install <egg> --dir ~/eggs
~~~

- Keep the archive and inspect it by hand:
~~~
$ eggfetch install <egg> --keep-archive
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your config file exists but could not be read or validated.

## Things you can try:
- Show where the config file lives:
~~~
$ eggfetch config path
~~~

- Recreate the default file:
~~~
$ eggfetch config init
~~~

- Check the TOML syntax of any hand-edited values`,
	}

	issues = map[Id]*Issue{
		eggNotFoundIssue.Id():         eggNotFoundIssue,
		versionNotFoundIssue.Id():     versionNotFoundIssue,
		registryUnreachableIssue.Id(): registryUnreachableIssue,
		manifestInvalidIssue.Id():     manifestInvalidIssue,
		checksumMismatchIssue.Id():    checksumMismatchIssue,
		extractFailedIssue.Id():       extractFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
