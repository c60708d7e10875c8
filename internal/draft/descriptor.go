// Package draft loads launchable-application descriptors and binds them
// to their running processes.
package draft

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the descriptor file extension.
const Ext = ".draft"

// iconsSubdir holds icon sources next to the descriptor files.
const iconsSubdir = "icons"

// Descriptor is one parsed draft file.
type Descriptor struct {
	Name        string
	Description string
	// Call is the launch target; it must exist on disk at load time.
	Call string
	// Which and Term are optional invocation hints.
	Which string
	Term  string
	// IconSource is the resolved icon path, empty when the draft has none.
	IconSource string
}

// FileName returns the launch target's file name, the key used for
// process matching and screenshot caching.
func (d Descriptor) FileName() string {
	return filepath.Base(d.Call)
}

// IconFileName returns the icon source's file name, the key cached icons
// are stored under. Empty when the draft has no icon.
func (d Descriptor) IconFileName() string {
	if d.IconSource == "" {
		return ""
	}
	return filepath.Base(d.IconSource)
}

// Parse reads one descriptor. Blank lines and #-comments are skipped;
// unknown keys are ignored. A missing required key or a launch target
// absent from disk rejects the whole file.
func Parse(content, draftDir string) (Descriptor, error) {
	var d Descriptor
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return Descriptor{}, fmt.Errorf("draft line %q is not key=value", line)
		}
		switch key {
		case "name":
			d.Name = value
		case "desc":
			d.Description = value
		case "call":
			d.Call = value
		case "which":
			d.Which = value
		case "term":
			d.Term = value
		case "imgFile":
			d.IconSource = filepath.Join(draftDir, iconsSubdir, value+".png")
		}
	}

	if d.Name == "" {
		return Descriptor{}, fmt.Errorf("draft has no name")
	}
	if d.Description == "" {
		return Descriptor{}, fmt.Errorf("draft %q has no description", d.Name)
	}
	if d.Call == "" {
		return Descriptor{}, fmt.Errorf("draft %q has no launch target", d.Name)
	}
	if _, err := os.Stat(d.Call); err != nil {
		return Descriptor{}, fmt.Errorf("draft %q launch target: %w", d.Name, err)
	}
	return d, nil
}

// LoadDir parses every descriptor in dir, sorted by name. A file that
// fails to parse rejects the whole load.
func LoadDir(dir string) ([]Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read draft dir: %w", err)
	}

	var drafts []Descriptor
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Ext {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read draft %s: %w", entry.Name(), err)
		}
		d, err := Parse(string(content), dir)
		if err != nil {
			return nil, fmt.Errorf("parse draft %s: %w", entry.Name(), err)
		}
		drafts = append(drafts, d)
	}

	sort.Slice(drafts, func(i, j int) bool { return drafts[i].Name < drafts[j].Name })
	return drafts, nil
}
