// Package activation links an effective profile into the target directory.
//
// An activation runs in two phases. Orphan cleanup removes the links the
// previous profile created for files the new profile no longer has, but
// only while they still point at the previous profile's own sources; a file
// the user replaced is left alone. Linking then clears every path the new
// profile occupies (its own path and the other JSON spelling of it) and
// creates absolute symlinks. Existing symlinks are removed and regular files
// are moved into a timestamped backup directory.
//
// Every change is journaled as a SwitchState. If any step fails the journal
// is replayed in reverse path order and the target directory is put back the
// way it was. The backup directory is kept after a successful activation.
package activation
