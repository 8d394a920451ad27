// Package testutil provides helpers for ocp tests.
//
// Key components:
//   - file helpers: create files, directories and symlinks under t.TempDir()
//   - Snapshot: a structural capture of a directory tree (type, content,
//     link target) used to assert that a failed activation left the target
//     directory untouched
//   - FaultyFS: a filesystem.FS wrapper that fails a chosen call
//   - RepoBuilder: declarative profile repository layouts
//
// Usage guidelines:
//   - Pure logic (merge, lineage, JSONC) is tested without any filesystem
//   - The effective builder is tested on afero's in-memory filesystem
//   - Activation, registry and repository tests use real temp directories
//   - All test data is defined inline, not in external files
package testutil
