// Package filesystem provides the filesystem abstraction used by ocp when it
// mutates the target configuration directory.
//
// The activation engine only talks to the FS interface, which lets tests
// substitute an implementation that fails on a chosen operation and verify
// that rollback restores the directory.
package filesystem
