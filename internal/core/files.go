package core

import (
	"strings"
	"time"

	"github.com/jmgilman/go/errors"
)

type Kind int

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	if k == KindDir {
		return "dir"
	}
	return "file"
}

// ParseKind accepts "file"/"f" and "dir"/"directory"/"d".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "file", "f":
		return KindFile, nil
	case "dir", "directory", "d":
		return KindDir, nil
	default:
		return KindFile, invalid(s, "kind must be file or dir")
	}
}

// Element is a node of the tree. The set of implementations is closed: *File and *Dir.
type Element interface {
	Name() string
	CreatedAt() time.Time
	SetCreatedAt(t time.Time)
	Parent() *Dir
	Kind() Kind

	// Path renders the absolute path from the root; the root itself is "/".
	Path() string
	Label() string

	// Delete detaches the element from its parent. Directories delete their
	// whole subtree first. Parentless elements are left alone.
	Delete()

	// Move re-parents the element under newParent. Parentless elements are left alone.
	Move(newParent *Dir) error

	// FindByPath resolves path segments against the element and its descendants.
	// It returns nil when nothing matches.
	FindByPath(parts []string) Element

	// FindByName searches the element and its descendants depth-first, in child
	// order, and returns the first element called name or nil.
	FindByName(name string) Element

	setParent(d *Dir)
	asDir() *Dir
	render(lines []string, level int) []string
}

// node holds the state shared by every element.
type node struct {
	name      string
	createdAt time.Time
	parent    *Dir
}

func (n *node) Name() string {
	return n.name
}

func (n *node) CreatedAt() time.Time {
	return n.createdAt
}

func (n *node) SetCreatedAt(t time.Time) {
	n.createdAt = t
}

func (n *node) Parent() *Dir {
	return n.parent
}

func (n *node) setParent(d *Dir) {
	n.parent = d
}

func (n *node) Path() string {
	if n.parent == nil {
		return Separator
	}
	parent := n.parent.Path()
	if parent == Separator {
		return Separator + n.name
	}
	return parent + Separator + n.name
}

func indent(level int) string {
	return strings.Repeat("  ", level)
}

// CompareByName orders elements by name, case-sensitive.
func CompareByName(a, b Element) int {
	return strings.Compare(a.Name(), b.Name())
}

// CompareByCreated orders elements oldest first.
func CompareByCreated(a, b Element) int {
	return a.CreatedAt().Compare(b.CreatedAt())
}

type File struct {
	node
}

func NewFile(name string) *File {
	return &File{node: node{name: name, createdAt: time.Now()}}
}

func (f *File) Kind() Kind {
	return KindFile
}

func (f *File) Label() string {
	return f.name
}

func (f *File) Delete() {
	detach(f)
}

func (f *File) Move(newParent *Dir) error {
	return move(f, newParent)
}

// FindByPath matches only the last remaining segment against the file name.
func (f *File) FindByPath(parts []string) Element {
	if len(parts) != 1 || parts[0] != f.name {
		return nil
	}
	return f
}

func (f *File) FindByName(name string) Element {
	if f.name != name {
		return nil
	}
	return f
}

func (f *File) asDir() *Dir {
	return nil
}

func (f *File) render(lines []string, level int) []string {
	return append(lines, indent(level)+f.Label())
}

func detach(e Element) {
	if parent := e.Parent(); parent != nil {
		parent.Remove(e)
	}
}

// within reports whether e is d or one of d's ancestors.
func within(e Element, d *Dir) bool {
	for p := d; p != nil; p = p.Parent() {
		if Element(p) == e {
			return true
		}
	}
	return false
}

// move checks the destination before detaching anything, so a rejected move
// leaves the element where it was.
func move(e Element, newParent *Dir) error {
	oldParent := e.Parent()
	if oldParent == nil {
		return nil
	}
	if newParent == nil {
		return invalid(e.Name(), "destination must be a directory")
	}
	if newParent == oldParent {
		return nil
	}
	if within(e, newParent) {
		return errors.WithContext(
			invalid(e.Name(), "cannot move a directory into itself"),
			"destination", newParent.Path(),
		)
	}
	if _, taken := newParent.Child(e.Name()); taken {
		return errors.WithContext(duplicate(e.Name()), "destination", newParent.Path())
	}

	oldParent.Remove(e)
	return newParent.Add(e)
}
