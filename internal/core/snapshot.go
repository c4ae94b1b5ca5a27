package core

import "time"

// Entry is a flat, serializable view of one element.
type Entry struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

func EntryOf(e Element) Entry {
	return Entry{
		Name:      e.Name(),
		Path:      e.Path(),
		Kind:      e.Kind().String(),
		CreatedAt: e.CreatedAt(),
	}
}

// Snapshot is the whole tree flattened at one point in time.
type Snapshot struct {
	Current   string    `json:"current"`
	CreatedAt time.Time `json:"created_at"`
	Entries   []Entry   `json:"entries"`
}

func NewSnapshot(elements []Element, current string) *Snapshot {
	entries := make([]Entry, 0, len(elements))
	for _, e := range elements {
		entries = append(entries, EntryOf(e))
	}
	return &Snapshot{
		Current:   current,
		CreatedAt: time.Now(),
		Entries:   entries,
	}
}

func (ft *Filetree) Snapshot() *Snapshot {
	return NewSnapshot(ft.FlattenTree(), ft.CurrentPath())
}
