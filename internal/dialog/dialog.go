// Package dialog provides native file pickers for the bridge.
package dialog

import (
	"strings"
)

// Filter restricts a picker to files matching Pattern, a ;-separated glob list.
type Filter struct {
	DisplayName string
	Pattern     string
}

// Options configure an open or save picker.
type Options struct {
	Title           string
	DefaultFilename string
	Filters         []Filter
}

// Picker shows native file pickers. A cancelled picker returns "" and a nil
// error.
type Picker interface {
	OpenFile(opts Options) (string, error)
	SaveFile(opts Options) (string, error)
}

// TextFilters are the filters used by the editor's open and save pickers.
var TextFilters = []Filter{
	{DisplayName: "Text Files (*.txt;*.md)", Pattern: "*.txt;*.md"},
	{DisplayName: "All Files (*.*)", Pattern: "*.*"},
}

// extensions turns "*.txt;*.md" into ["txt", "md"]; "*.*" and "*" become ["*"].
func extensions(pattern string) []string {
	var exts []string
	for _, p := range strings.Split(pattern, ";") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if p == "*" || p == "*.*" {
			return []string{"*"}
		}
		exts = append(exts, strings.TrimPrefix(p, "*."))
	}
	return exts
}
