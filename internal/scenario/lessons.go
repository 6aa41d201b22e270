package scenario

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

// lessons contains the built-in scenario files.
//
//go:embed lessons/*.yaml
var lessons embed.FS

// Lessons returns the names of the built-in scenarios, sorted.
func Lessons() []string {
	entries, err := lessons.ReadDir("lessons")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Lesson loads a built-in scenario by name.
func Lesson(name string) (*Scenario, error) {
	data, err := lessons.ReadFile(path.Join("lessons", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown lesson %q (available: %s)", name, strings.Join(Lessons(), ", "))
	}
	return Parse(data)
}
