package core

import (
	"strings"

	"github.com/jmgilman/go/errors"
)

const RootName = "root"

type SortOrder int

const (
	SortByName SortOrder = iota
	SortByCreated
)

func (o SortOrder) String() string {
	switch o {
	case SortByName:
		return "name"
	case SortByCreated:
		return "created"
	default:
		return "unknown"
	}
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case "", "name":
		return SortByName, nil
	case "created", "date":
		return SortByCreated, nil
	default:
		return SortByName, invalid(s, "sort order must be name or created")
	}
}

// Filetree owns the root directory and a cursor, the current directory. All
// path arguments are resolved from the root; names are resolved in the cursor.
type Filetree struct {
	root *Dir
	cwd  *Dir
}

func New() *Filetree {
	root := NewDir(RootName)
	return &Filetree{root: root, cwd: root}
}

func (ft *Filetree) Root() *Dir {
	return ft.root
}

func (ft *Filetree) Current() *Dir {
	return ft.cwd
}

// CurrentPath renders the cursor's absolute path.
func (ft *Filetree) CurrentPath() string {
	if ft.cwd == ft.root {
		return Separator
	}
	return ft.cwd.Path()
}

// Lookup resolves an absolute path to an element.
func (ft *Filetree) Lookup(path string) (Element, error) {
	parts, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	found := ft.root.FindByPath(parts)
	if found == nil {
		return nil, errors.WithContext(notFound("path"), "path", path)
	}
	return found, nil
}

func (ft *Filetree) lookupDir(path string) (*Dir, error) {
	found, err := ft.Lookup(path)
	if err != nil {
		if IsNotFound(err) {
			return nil, errors.WithContext(notFound("directory"), "path", path)
		}
		return nil, err
	}

	dir := found.asDir()
	if dir == nil {
		return nil, errors.WithContext(notFound("directory"), "path", path)
	}
	return dir, nil
}

// ChangeDirectory moves the cursor. On any error the cursor stays put.
func (ft *Filetree) ChangeDirectory(path string) error {
	dir, err := ft.lookupDir(path)
	if err != nil {
		return err
	}
	ft.cwd = dir
	return nil
}

// SetCurrent points the cursor at dir, which must be reachable from the root.
func (ft *Filetree) SetCurrent(dir *Dir) error {
	if dir == nil || !within(ft.root, dir) {
		return notFound("directory")
	}
	ft.cwd = dir
	return nil
}

// Create adds a file or directory called name to the cursor.
func (ft *Filetree) Create(name string, kind Kind) (Element, error) {
	if kind == KindDir {
		dir, err := ft.CreateDirectory(name)
		if err != nil {
			return nil, err
		}
		return dir, nil
	}
	file, err := ft.CreateFile(name)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (ft *Filetree) CreateFile(name string) (*File, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	file := NewFile(name)
	if err := ft.cwd.Add(file); err != nil {
		return nil, err
	}
	return file, nil
}

func (ft *Filetree) CreateDirectory(name string) (*Dir, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	dir := NewDir(name)
	if err := ft.cwd.Add(dir); err != nil {
		return nil, err
	}
	return dir, nil
}

// Delete removes the cursor's child called name and its whole subtree.
func (ft *Filetree) Delete(name string) error {
	defer ft.keepCursor()
	return ft.cwd.DeleteChild(name)
}

// Move re-parents the cursor's direct child called name under the directory at
// destination.
func (ft *Filetree) Move(name, destination string) error {
	defer ft.keepCursor()

	element, ok := ft.cwd.Child(name)
	if !ok {
		return errors.WithContext(notFound("element"), "name", name)
	}

	dir, err := ft.lookupDir(destination)
	if err != nil {
		return err
	}

	return element.Move(dir)
}

// Find searches the whole tree by name, depth-first in child order.
func (ft *Filetree) Find(name string) (Element, error) {
	found := ft.root.FindByName(name)
	if found == nil {
		return nil, errors.WithContext(notFound("element"), "name", name)
	}
	return found, nil
}

func (ft *Filetree) List() Listing {
	return ft.cwd.List()
}

func (ft *Filetree) PrintTree() []string {
	return ft.root.Tree(0)
}

// Sort reorders the cursor's children.
func (ft *Filetree) Sort(order SortOrder) error {
	switch order {
	case SortByName:
		ft.cwd.Sort()
	case SortByCreated:
		ft.cwd.SortFunc(CompareByCreated)
	default:
		return invalid(order.String(), "unknown sort order")
	}
	return nil
}

// FlattenTree lists every element depth-first, parents before children,
// starting with the root.
func (ft *Filetree) FlattenTree() []Element {
	var out []Element
	var walk func(e Element)
	walk = func(e Element) {
		out = append(out, e)
		if dir := e.asDir(); dir != nil {
			for _, child := range dir.children {
				walk(child)
			}
		}
	}
	walk(ft.root)
	return out
}

// Size counts the elements in the tree, root included.
func (ft *Filetree) Size() int {
	return len(ft.FlattenTree())
}

// keepCursor falls back to the root when the cursor is no longer reachable.
func (ft *Filetree) keepCursor() {
	if within(ft.root, ft.cwd) {
		return
	}
	ft.cwd = ft.root
}
