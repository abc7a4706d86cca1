package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Suffix marks scene config files. Tile maps share the .json extension.
const Suffix = ".scene.json"

// Entry is a discoverable scene in the data directory
type Entry struct {
	Name string // File name without Suffix
	Dir  string // Directory relative to the data directory, "." for the top level
	Path string // Path to the config file
}

// Scan finds scene configs in dataPath and its immediate subdirectories.
// Hidden directories are skipped.
func Scan(dataPath string) ([]Entry, error) {
	entries, err := os.ReadDir(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	scenes := scanDir(dataPath, ".")
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		scenes = append(scenes, scanDir(filepath.Join(dataPath, entry.Name()), entry.Name())...)
	}

	sort.Slice(scenes, func(i, j int) bool {
		if scenes[i].Dir != scenes[j].Dir {
			return scenes[i].Dir < scenes[j].Dir
		}
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// scanDir lists the scene configs directly inside dir. Unreadable directories
// yield nothing.
func scanDir(dir, rel string) []Entry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var scenes []Entry
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(name), Suffix) {
			continue
		}
		scenes = append(scenes, Entry{
			Name: name[:len(name)-len(Suffix)],
			Dir:  rel,
			Path: filepath.Join(dir, name),
		})
	}
	return scenes
}

// Find returns the scene called name. A name of the form "dir/name" selects a
// scene in a subdirectory; a bare name matches the first scene with that
// name, top level first.
func Find(scenes []Entry, name string) (Entry, bool) {
	for _, s := range scenes {
		if s.String() == name {
			return s, true
		}
	}
	if strings.Contains(name, "/") {
		return Entry{}, false
	}
	for _, s := range scenes {
		if s.Name == name {
			return s, true
		}
	}
	return Entry{}, false
}

// String returns the name Find accepts for the entry.
func (e Entry) String() string {
	if e.Dir == "." {
		return e.Name
	}
	return e.Dir + "/" + e.Name
}
