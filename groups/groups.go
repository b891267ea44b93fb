// Package groups keeps the user-defined classification of samples into named
// experimental groups. A sample may sit in any number of groups.
package groups

import "fmt"

// Group is a named, ordered set of samples. Inactive groups are kept but do
// not take part in statistics.
type Group struct {
	Name    string
	Active  bool
	members []string
}

// Members returns the group's samples in the order they were added.
func (g *Group) Members() []string {
	return append([]string(nil), g.members...)
}

func (g *Group) Has(sample string) bool {
	for _, m := range g.members {
		if m == sample {
			return true
		}
	}
	return false
}

// NotFoundError is returned for operations on a group name that does not
// exist.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown group %q", e.Name)
}

// Assignment is the ordered collection of groups.
type Assignment struct {
	groups []*Group
}

func New() *Assignment {
	return &Assignment{}
}

// AddGroup creates an active, empty group unless one with that name already
// exists, in which case it does nothing.
func (a *Assignment) AddGroup(name string) {
	if a.Group(name) != nil {
		return
	}
	a.groups = append(a.groups, &Group{Name: name, Active: true})
}

// RemoveGroups deletes the named groups. Unknown names are ignored.
func (a *Assignment) RemoveGroups(names ...string) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	kept := a.groups[:0]
	for _, g := range a.groups {
		if _, ok := drop[g.Name]; ok {
			continue
		}
		kept = append(kept, g)
	}
	a.groups = kept
}

// Reset removes every group.
func (a *Assignment) Reset() {
	a.groups = nil
}

// SetActive toggles whether a group takes part in statistics.
func (a *Assignment) SetActive(name string, active bool) error {
	g := a.Group(name)
	if g == nil {
		return &NotFoundError{Name: name}
	}
	g.Active = active

	return nil
}

// AddSampleToGroup adds a sample to a group. Adding a member twice is a
// no-op.
func (a *Assignment) AddSampleToGroup(name, sample string) error {
	g := a.Group(name)
	if g == nil {
		return &NotFoundError{Name: name}
	}
	if !g.Has(sample) {
		g.members = append(g.members, sample)
	}

	return nil
}

// RemoveSampleFromGroup removes a sample from a group. Removing a sample that
// is not a member is a no-op.
func (a *Assignment) RemoveSampleFromGroup(name, sample string) error {
	g := a.Group(name)
	if g == nil {
		return &NotFoundError{Name: name}
	}
	for i, m := range g.members {
		if m == sample {
			g.members = append(g.members[:i], g.members[i+1:]...)
			break
		}
	}

	return nil
}

// Group returns the named group, or nil.
func (a *Assignment) Group(name string) *Group {
	for _, g := range a.groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Groups returns every group in insertion order.
func (a *Assignment) Groups() []*Group {
	return append([]*Group(nil), a.groups...)
}

// Active returns the active groups in insertion order.
func (a *Assignment) Active() []*Group {
	out := make([]*Group, 0, len(a.groups))
	for _, g := range a.groups {
		if g.Active {
			out = append(out, g)
		}
	}
	return out
}

// Names returns the names of the given groups.
func Names(gs []*Group) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.Name
	}
	return out
}

// Ungrouped returns the samples, in the given order, that belong to no group.
func (a *Assignment) Ungrouped(samples []string) []string {
	out := make([]string, 0)
Outer:
	for _, s := range samples {
		for _, g := range a.groups {
			if g.Has(s) {
				continue Outer
			}
		}
		out = append(out, s)
	}
	return out
}
