package testutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Node describes one entry of a snapshotted tree.
type Node struct {
	Type    string // "dir", "file" or "symlink"
	Content string // file content
	Target  string // symlink target
	Mode    fs.FileMode
}

// Snapshot maps slash paths relative to the snapshot root to their nodes.
type Snapshot map[string]Node

// TakeSnapshot records the structure and content of root without following
// symlinks. A missing root yields an empty snapshot.
func TakeSnapshot(t *testing.T, root string) Snapshot {
	t.Helper()

	snap := Snapshot{}
	if _, err := os.Lstat(root); os.IsNotExist(err) {
		return snap
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		info, err := os.Lstat(path)
		if err != nil {
			return err
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			snap[rel] = Node{Type: "symlink", Target: target}
		case info.IsDir():
			snap[rel] = Node{Type: "dir", Mode: info.Mode().Perm()}
		default:
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			snap[rel] = Node{Type: "file", Content: string(content), Mode: info.Mode().Perm()}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to snapshot %s: %v", root, err)
	}
	return snap
}

// String renders the snapshot sorted by path, one entry per line.
func (s Snapshot) String() string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		n := s[p]
		switch n.Type {
		case "symlink":
			fmt.Fprintf(&b, "%s -> %s\n", p, n.Target)
		case "dir":
			fmt.Fprintf(&b, "%s/\n", p)
		default:
			fmt.Fprintf(&b, "%s (%q)\n", p, n.Content)
		}
	}
	return b.String()
}
