// Package lineage resolves profile inheritance.
//
// Profiles form single-parent chains looked up by name in a flat Graph. A
// lineage is the chain from the root ancestor down to the requested profile.
package lineage

import (
	"strings"

	"github.com/arthur-debert/ocp/pkg/errors"
)

// Definition is a profile as declared in repository metadata.
type Definition struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Parent      string `json:"extends_from,omitempty" yaml:"extends_from,omitempty"`
}

// HasParent reports whether the definition extends another profile.
func (d Definition) HasParent() bool {
	return d.Parent != ""
}

// Entry is a definition together with the repository that owns it.
type Entry struct {
	Definition
	Repository string
}

// Graph maps profile names to their entries. Names are unique; discovery
// rejects duplicates before a Graph is built.
type Graph map[string]Entry

// Lineage is an inheritance chain, root first and requested profile last.
type Lineage []Definition

// Names returns the profile names of the lineage in order.
func (l Lineage) Names() []string {
	names := make([]string, len(l))
	for i, d := range l {
		names[i] = d.Name
	}
	return names
}

// Leaf returns the requested profile.
func (l Lineage) Leaf() Definition {
	return l[len(l)-1]
}

// Contains reports whether name is part of the lineage.
func (l Lineage) Contains(name string) bool {
	for _, d := range l {
		if d.Name == name {
			return true
		}
	}
	return false
}

// String renders the lineage as "root -> ... -> leaf".
func (l Lineage) String() string {
	return strings.Join(l.Names(), " -> ")
}

// Resolve computes the lineage of name in graph.
func Resolve(name string, graph Graph) (Lineage, error) {
	r := resolver{
		graph:    graph,
		visiting: make(map[string]bool),
	}
	if err := r.collect(name); err != nil {
		return nil, err
	}
	return r.lineage, nil
}

type resolver struct {
	graph    Graph
	path     []string
	visiting map[string]bool
	lineage  Lineage
}

// collect walks parents depth first and appends on the way back, which
// leaves the root at index 0.
func (r *resolver) collect(name string) error {
	entry, ok := r.graph[name]
	if !ok {
		return errors.Newf(errors.ErrUnknownProfile, "profile `%s` was not found", name).
			WithDetail("profile", name)
	}

	if r.visiting[name] {
		cycle := append(append([]string{}, r.path...), name)
		return errors.Newf(errors.ErrInheritanceCycle, "profile inheritance cycle detected: %s",
			strings.Join(cycle, " -> ")).
			WithDetail("profile", name).
			WithDetail("cycle", cycle)
	}

	r.visiting[name] = true
	r.path = append(r.path, name)

	if entry.HasParent() {
		parent := entry.Parent
		if parent == name {
			return errors.Newf(errors.ErrSelfExtendingProfile, "profile `%s` cannot extend itself", name).
				WithDetail("profile", name)
		}
		if _, ok := r.graph[parent]; !ok {
			return errors.Newf(errors.ErrUnknownParentProfile, "profile `%s` extends unknown profile `%s`", name, parent).
				WithDetail("profile", name).
				WithDetail("parent", parent)
		}
		if err := r.collect(parent); err != nil {
			return err
		}
	}

	r.lineage = append(r.lineage, entry.Definition)
	r.path = r.path[:len(r.path)-1]
	delete(r.visiting, name)
	return nil
}

// InLineage reports whether target appears in the lineage of name.
func InLineage(name, target string, graph Graph) (bool, error) {
	l, err := Resolve(name, graph)
	if err != nil {
		return false, err
	}
	return l.Contains(target), nil
}
