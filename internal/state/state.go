// Package state is the durable record of minimized windows. The set is the
// single source of truth: every command invocation loads it, mutates it
// under the store lock, and persists it before exiting.
package state

import (
	"sort"
	"time"
)

// Version is the current state file schema version. Readers reject higher
// versions instead of silently misreading them; unknown JSON fields are
// ignored so adding fields stays backward compatible.
const Version = 1

// MinimizedWindow is one tracked hidden window.
type MinimizedWindow struct {
	ID              uint64    `json:"id"`
	Address         string    `json:"address"`
	Title           string    `json:"title"`
	Class           string    `json:"class"`
	Icon            string    `json:"icon,omitempty"`
	ThumbnailPath   string    `json:"thumbnail_path,omitempty"`
	IconPath        string    `json:"icon_path,omitempty"`
	MinimizedAt     time.Time `json:"minimized_at"`
	SourceWorkspace int       `json:"source_workspace"`
}

// Set is the ordered collection of minimized windows. Insertion order is
// preserved; ids are allocated from a counter that never moves backwards
// while the state file lives.
type Set struct {
	Version int               `json:"version"`
	NextID  uint64            `json:"next_id"`
	Windows []MinimizedWindow `json:"windows"`
}

// NewSet returns an empty set at the current schema version.
func NewSet() *Set {
	return &Set{Version: Version, NextID: 1}
}

// Allocate returns the next unused id and advances the counter.
func (s *Set) Allocate() uint64 {
	if s.NextID == 0 {
		s.NextID = 1
	}
	id := s.NextID
	s.NextID++
	return id
}

// Append adds an entry to the end of the set.
func (s *Set) Append(w MinimizedWindow) {
	s.Windows = append(s.Windows, w)
}

// ByID returns the entry with the given id, or nil.
func (s *Set) ByID(id uint64) *MinimizedWindow {
	for i := range s.Windows {
		if s.Windows[i].ID == id {
			return &s.Windows[i]
		}
	}
	return nil
}

// ByAddress returns the entry tracking the given window address, or nil.
func (s *Set) ByAddress(address string) *MinimizedWindow {
	for i := range s.Windows {
		if s.Windows[i].Address == address {
			return &s.Windows[i]
		}
	}
	return nil
}

// Remove deletes the entry with the given id, preserving order, and reports
// whether it was present.
func (s *Set) Remove(id uint64) bool {
	for i := range s.Windows {
		if s.Windows[i].ID == id {
			s.Windows = append(s.Windows[:i], s.Windows[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.Windows)
}

// Newest returns the most recently minimized entry, or nil when empty.
func (s *Set) Newest() *MinimizedWindow {
	var newest *MinimizedWindow
	for i := range s.Windows {
		if newest == nil || s.Windows[i].MinimizedAt.After(newest.MinimizedAt) {
			newest = &s.Windows[i]
		}
	}
	return newest
}

// OldestFirst returns a copy of the entries ordered by minimize time
// ascending, the order restore-all walks them in.
func (s *Set) OldestFirst() []MinimizedWindow {
	out := make([]MinimizedWindow, len(s.Windows))
	copy(out, s.Windows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinimizedAt.Before(out[j].MinimizedAt)
	})
	return out
}
