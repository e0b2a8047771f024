package buildcoord

import (
	"os"
	"path/filepath"
	"strings"
)

// ProjectMarkers lists the filenames that, when present in a directory,
// identify it as a project root for a given language ecosystem.
var ProjectMarkers = []string{"Cargo.toml", "go.mod", "package.json", "pyproject.toml"}

// WorkspaceMarkers lists substrings that, when found inside a root marker
// file, indicate the project root is actually a monorepo workspace root
// (e.g. a Cargo `[workspace]` table, or a Go work file).
var WorkspaceMarkers = []string{"[workspace]", "use (", "workspaces"}

// FindProjectRoot walks upward from startDir looking for the nearest
// directory containing one of ProjectMarkers. It returns the marker
// directory and the marker filename found, or an error if none is found
// before reaching the filesystem root.
func FindProjectRoot(startDir string) (root string, marker string, err error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", "", err
	}

	for {
		for _, m := range ProjectMarkers {
			candidate := filepath.Join(dir, m)
			if _, statErr := os.Stat(candidate); statErr == nil {
				return dir, m, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", os.ErrNotExist
		}
		dir = parent
	}
}

// IsWorkspaceRoot reports whether the marker file at root/marker declares a
// monorepo workspace, by checking its contents against WorkspaceMarkers.
func IsWorkspaceRoot(root, marker string) bool {
	raw, err := os.ReadFile(filepath.Join(root, marker))
	if err != nil {
		return false
	}
	content := string(raw)
	for _, wm := range WorkspaceMarkers {
		if strings.Contains(content, wm) {
			return true
		}
	}
	return false
}
