package activation

import "sort"

// SwitchState records what a target path held before an activation touched
// it. At most one of PreviousLink and Backup is set; when neither is, the
// path did not exist and rollback only deletes it.
type SwitchState struct {
	Target       string `json:"target"`
	PreviousLink string `json:"previous_link,omitempty"`
	Backup       string `json:"backup,omitempty"`

	// CreatedDir marks a directory the activation created.
	CreatedDir bool `json:"created_dir,omitempty"`
}

// Restores describes the restoration the state calls for.
func (s SwitchState) Restores() string {
	switch {
	case s.CreatedDir:
		return "remove directory"
	case s.PreviousLink != "":
		return "restore symlink"
	case s.Backup != "":
		return "restore backup"
	default:
		return "delete"
	}
}

// Journal is the ordered list of states recorded by one activation.
type Journal []SwitchState

// Record appends a state.
func (j *Journal) Record(s SwitchState) {
	*j = append(*j, s)
}

// RollbackOrder returns the states sorted by target path, descending, so
// nested paths are restored before their parents. States sharing a target
// are replayed newest first.
func (j Journal) RollbackOrder() []SwitchState {
	idx := make([]int, len(j))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ta, tb := j[idx[a]].Target, j[idx[b]].Target
		if ta != tb {
			return ta > tb
		}
		return idx[a] > idx[b]
	})

	out := make([]SwitchState, len(j))
	for i, n := range idx {
		out[i] = j[n]
	}
	return out
}
