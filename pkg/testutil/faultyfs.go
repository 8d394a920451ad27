package testutil

import (
	"io/fs"
	"sync"

	"github.com/arthur-debert/ocp/pkg/filesystem"
)

// Operation names understood by FaultyFS.
const (
	OpStat      = "Stat"
	OpLstat     = "Lstat"
	OpReadFile  = "ReadFile"
	OpWriteFile = "WriteFile"
	OpRename    = "Rename"
	OpMkdir     = "Mkdir"
	OpMkdirAll  = "MkdirAll"
	OpReadDir   = "ReadDir"
	OpSymlink   = "Symlink"
	OpReadlink  = "Readlink"
	OpRemove    = "Remove"
	OpRemoveAll = "RemoveAll"
)

type fault struct {
	op   string
	call int
	path string
	err  error
}

// FaultyFS wraps a filesystem.FS and fails selected calls. Calls that are
// not selected go through to the wrapped filesystem.
type FaultyFS struct {
	filesystem.FS

	mu     sync.Mutex
	calls  map[string]int
	faults []fault
}

// NewFaultyFS wraps inner.
func NewFaultyFS(inner filesystem.FS) *FaultyFS {
	return &FaultyFS{FS: inner, calls: make(map[string]int)}
}

// FailNth makes the nth call (1-based) of op return err.
func (f *FaultyFS) FailNth(op string, n int, err error) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = append(f.faults, fault{op: op, call: n, err: err})
	return f
}

// FailPath makes every call of op on path return err.
func (f *FaultyFS) FailPath(op, path string, err error) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = append(f.faults, fault{op: op, path: path, err: err})
	return f
}

// Calls returns how many times op has been called.
func (f *FaultyFS) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FaultyFS) check(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	for _, ft := range f.faults {
		if ft.op != op {
			continue
		}
		if ft.path != "" && ft.path == path {
			return &fs.PathError{Op: op, Path: path, Err: ft.err}
		}
		if ft.call > 0 && ft.call == f.calls[op] {
			return &fs.PathError{Op: op, Path: path, Err: ft.err}
		}
	}
	return nil
}

func (f *FaultyFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultyFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check(OpLstat, name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FaultyFS) ReadFile(name string) ([]byte, error) {
	if err := f.check(OpReadFile, name); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(name)
}

func (f *FaultyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check(OpWriteFile, name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, oldpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Mkdir(name string, perm fs.FileMode) error {
	if err := f.check(OpMkdir, name); err != nil {
		return err
	}
	return f.FS.Mkdir(name, perm)
}

func (f *FaultyFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultyFS) Symlink(oldname, newname string) error {
	if err := f.check(OpSymlink, newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FaultyFS) Readlink(name string) (string, error) {
	if err := f.check(OpReadlink, name); err != nil {
		return "", err
	}
	return f.FS.Readlink(name)
}

func (f *FaultyFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FaultyFS) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}
