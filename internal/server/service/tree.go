package service

import (
	"log/slog"
	"sync"

	"treefs/internal/core"
	"treefs/internal/server/metrics"
)

// Listing is the response for a directory listing.
type Listing struct {
	Path    string       `json:"path"`
	Entries []core.Entry `json:"entries"`
}

// TreeService serializes access to one shared tree. Requests may name the
// directory they act in; when they do the cursor is moved there for the
// duration of the call and restored afterwards.
type TreeService struct {
	mu sync.Mutex
	ft *core.Filetree
}

// NewTreeService creates a new tree service.
func NewTreeService(ft *core.Filetree) *TreeService {
	metrics.SetTreeSize(ft.Size())
	return &TreeService{ft: ft}
}

// CurrentPath returns the shared cursor's path.
func (s *TreeService) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ft.CurrentPath()
}

// ChangeDirectory moves the shared cursor.
func (s *TreeService) ChangeDirectory(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ft.ChangeDirectory(path)
	metrics.RecordOperation("cd", err)
	if err != nil {
		return "", err
	}
	return s.ft.CurrentPath(), nil
}

// List returns the children of dir, directories first.
func (s *TreeService) List(dir string) (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var listing *Listing
	err := s.in(dir, func() error {
		entries := make([]core.Entry, 0)
		for _, e := range s.ft.List().Entries {
			entries = append(entries, core.EntryOf(e))
		}
		listing = &Listing{Path: s.ft.CurrentPath(), Entries: entries}
		return nil
	})
	metrics.RecordOperation("ls", err)
	return listing, err
}

// Create adds a file or directory called name to dir.
func (s *TreeService) Create(dir, name string, kind core.Kind) (*core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entry core.Entry
	err := s.in(dir, func() error {
		created, err := s.ft.Create(name, kind)
		if err != nil {
			return err
		}
		entry = core.EntryOf(created)
		return nil
	})
	s.record("create", err)
	if err != nil {
		return nil, err
	}

	slog.Info("element created",
		"path", entry.Path,
		"kind", entry.Kind,
	)
	return &entry, nil
}

// Delete removes dir's child called name and everything below it.
func (s *TreeService) Delete(dir, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed string
	err := s.in(dir, func() error {
		removed = s.ft.Current().Path()
		return s.ft.Delete(name)
	})
	s.record("delete", err)
	if err != nil {
		return err
	}

	slog.Info("element deleted", "dir", removed, "name", name)
	return nil
}

// Move re-parents dir's child called name under destination.
func (s *TreeService) Move(dir, name, destination string) (*core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		entry core.Entry
		from  string
	)
	err := s.in(dir, func() error {
		child, ok := s.ft.Current().Child(name)
		if ok {
			from = child.Path()
		}
		if err := s.ft.Move(name, destination); err != nil {
			return err
		}
		entry = core.EntryOf(child)
		return nil
	})
	s.record("move", err)
	if err != nil {
		return nil, err
	}

	slog.Info("element moved",
		"from", from,
		"to", entry.Path,
	)
	return &entry, nil
}

// Find searches the whole tree by name.
func (s *TreeService) Find(name string) (*core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.ft.Find(name)
	metrics.RecordOperation("find", err)
	if err != nil {
		return nil, err
	}
	entry := core.EntryOf(found)
	return &entry, nil
}

// Stat resolves an absolute path.
func (s *TreeService) Stat(path string) (*core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.ft.Lookup(path)
	metrics.RecordOperation("stat", err)
	if err != nil {
		return nil, err
	}
	entry := core.EntryOf(found)
	return &entry, nil
}

// Glob returns every element matching pattern.
func (s *TreeService) Glob(pattern string) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.ft.Glob(pattern)
	metrics.RecordOperation("glob", err)
	if err != nil {
		return nil, err
	}

	entries := make([]core.Entry, 0, len(matches))
	for _, e := range matches {
		entries = append(entries, core.EntryOf(e))
	}
	return entries, nil
}

// Sort reorders dir's children.
func (s *TreeService) Sort(dir string, order core.SortOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sorted string
	err := s.in(dir, func() error {
		sorted = s.ft.CurrentPath()
		return s.ft.Sort(order)
	})
	s.record("sort", err)
	if err != nil {
		return err
	}

	slog.Info("directory sorted", "dir", sorted, "order", order.String())
	return nil
}

// Tree renders the whole tree as indented labels.
func (s *TreeService) Tree() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ft.PrintTree()
}

// Snapshot flattens the whole tree.
func (s *TreeService) Snapshot() *core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ft.Snapshot()
}

// Stats returns aggregate tree statistics.
func (s *TreeService) Stats() *Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &Stats{Current: s.ft.CurrentPath()}
	for _, e := range s.ft.FlattenTree() {
		switch e.Kind() {
		case core.KindDir:
			stats.Directories++
		default:
			stats.Files++
		}
	}
	return stats
}

// Stats counts the elements in the tree. The root is counted as a directory.
type Stats struct {
	Directories int    `json:"directories"`
	Files       int    `json:"files"`
	Current     string `json:"current"`
}

// in runs fn with the cursor at dir, then puts the cursor back. An empty dir
// runs fn at the shared cursor. Callers hold s.mu.
func (s *TreeService) in(dir string, fn func() error) error {
	if dir == "" {
		return fn()
	}

	previous := s.ft.Current()
	if err := s.ft.ChangeDirectory(dir); err != nil {
		return err
	}
	defer func() {
		if err := s.ft.SetCurrent(previous); err != nil {
			_ = s.ft.ChangeDirectory(core.Separator)
		}
	}()
	return fn()
}

func (s *TreeService) record(operation string, err error) {
	metrics.RecordOperation(operation, err)
	if err == nil {
		metrics.SetTreeSize(s.ft.Size())
	}
}
