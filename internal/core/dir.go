package core

import (
	"slices"
	"strconv"
	"time"

	"github.com/jmgilman/go/errors"
)

// Dir owns an ordered list of children whose names are unique within it.
type Dir struct {
	node
	children []Element
}

func NewDir(name string) *Dir {
	return &Dir{node: node{name: name, createdAt: time.Now()}}
}

func (d *Dir) Kind() Kind {
	return KindDir
}

func (d *Dir) Label() string {
	return "* " + d.name + "/"
}

// Children returns a copy of the child list in its current order.
func (d *Dir) Children() []Element {
	return slices.Clone(d.children)
}

func (d *Dir) Len() int {
	return len(d.children)
}

// Add appends e and makes d its parent. It fails without changing anything when
// d already has a child with the same name or when e is attached somewhere else.
func (d *Dir) Add(e Element) error {
	if e == nil {
		return invalid("", "element must not be nil")
	}
	if e.Parent() != nil {
		return errors.WithContext(invalid(e.Name(), "element is already attached"), "parent", e.Parent().Path())
	}
	if within(e, d) {
		return invalid(e.Name(), "cannot add a directory to itself")
	}
	if _, taken := d.Child(e.Name()); taken {
		return errors.WithContext(duplicate(e.Name()), "destination", d.Path())
	}

	d.children = append(d.children, e)
	e.setParent(d)
	return nil
}

// RemoveAt detaches the child at index i.
func (d *Dir) RemoveAt(i int) (Element, error) {
	if i < 0 || i >= len(d.children) {
		return nil, invalid(strconv.Itoa(i), "index out of range")
	}

	child := d.children[i]
	d.children = slices.Delete(d.children, i, i+1)
	child.setParent(nil)
	return child, nil
}

// Remove detaches e and reports whether it was a child of d.
func (d *Dir) Remove(e Element) bool {
	i := slices.Index(d.children, e)
	if i < 0 {
		return false
	}
	_, err := d.RemoveAt(i)
	return err == nil
}

// Child looks name up among the direct children only.
func (d *Dir) Child(name string) (Element, bool) {
	for _, child := range d.children {
		if child.Name() == name {
			return child, true
		}
	}
	return nil, false
}

// FindByPath resolves parts starting at d. A parentless directory answers to an
// empty first segment (the leading separator); any other directory answers to
// its own name.
func (d *Dir) FindByPath(parts []string) Element {
	if len(parts) == 0 {
		return d
	}
	if d.parent == nil && parts[0] != "" {
		return nil
	}
	if d.parent != nil && parts[0] != d.name {
		return nil
	}
	if len(parts) == 1 {
		return d
	}

	for _, child := range d.children {
		if found := child.FindByPath(parts[1:]); found != nil {
			return found
		}
	}
	return nil
}

func (d *Dir) FindByName(name string) Element {
	if d.name == name {
		return d
	}
	for _, child := range d.children {
		if found := child.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// DeleteChild deletes the direct child called name together with its subtree.
func (d *Dir) DeleteChild(name string) error {
	child, ok := d.Child(name)
	if !ok {
		return errors.WithContext(notFound("element"), "name", name)
	}
	child.Delete()
	return nil
}

func (d *Dir) Delete() {
	for _, child := range slices.Clone(d.children) {
		child.Delete()
	}
	detach(d)
}

func (d *Dir) Move(newParent *Dir) error {
	return move(d, newParent)
}

// Listing is a directory listing: every directory child first, then every file
// child, each group in the directory's current order.
type Listing struct {
	Entries []Element
}

// Empty reports the "empty directory" condition.
func (l Listing) Empty() bool {
	return len(l.Entries) == 0
}

func (l Listing) Labels() []string {
	labels := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		labels = append(labels, e.Label())
	}
	return labels
}

func (d *Dir) List() Listing {
	entries := make([]Element, 0, len(d.children))
	for _, child := range d.children {
		if child.Kind() == KindDir {
			entries = append(entries, child)
		}
	}
	for _, child := range d.children {
		if child.Kind() == KindFile {
			entries = append(entries, child)
		}
	}
	return Listing{Entries: entries}
}

// Sort orders the children by name.
func (d *Dir) Sort() {
	d.SortFunc(CompareByName)
}

// SortFunc orders the children with cmp, keeping equal elements in their current order.
func (d *Dir) SortFunc(cmp func(a, b Element) int) {
	slices.SortStableFunc(d.children, cmp)
}

// Tree renders d at the given indentation level and its children one level
// deeper, in current child order.
func (d *Dir) Tree(level int) []string {
	return d.render(nil, level)
}

func (d *Dir) asDir() *Dir {
	return d
}

func (d *Dir) render(lines []string, level int) []string {
	lines = append(lines, indent(level)+d.Label())
	for _, child := range d.children {
		lines = child.render(lines, level+1)
	}
	return lines
}
