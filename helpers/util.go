package helpers

import (
	"net/url"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultFilenameWidth is the display width kept from a title in filenames
const DefaultFilenameWidth = 50

var filenameReplacer = strings.NewReplacer(
	"<", "", ">", "", ":", "", `"`, "", "/", "", `\`, "", "|", "", "?", "", "*", "",
	"\n", "_", "\r", "", "\t", "_", " ", "_",
)

// ResolveURL makes href absolute against base. Already absolute links and
// unparsable input are returned unchanged.
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// SanitizeFilename removes characters that are invalid in file names, turns
// spaces into underscores and truncates the result to width display columns.
func SanitizeFilename(title string, width int) string {
	if width <= 0 {
		width = DefaultFilenameWidth
	}
	name := filenameReplacer.Replace(strings.TrimSpace(title))
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	name = strings.Trim(name, "_.")
	name = runewidth.Truncate(name, width, "")
	if name == "" {
		return "untitled"
	}
	return name
}
