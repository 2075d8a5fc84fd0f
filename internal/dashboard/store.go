// Package dashboard maintains one user's in-memory widget layout and keeps a
// debounced whole-blob copy in the profile record. In-memory state is the
// source of truth between writes; a failed persist is logged and swallowed.
package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sarthology/dailysage-backend/internal/models"
)

// DefaultDebounce is the quiet window for coalescing persistence writes.
// Drag-reorder fires a burst of mutations; one write should result.
const DefaultDebounce = 300 * time.Millisecond

// Persister writes the full layout blob for one user. The backing contract is
// overwrite-whole-blob, never a partial patch.
type Persister interface {
	SaveLayout(ctx context.Context, uid string, layout models.DashboardLayout) error
}

// WidgetSpec is the caller-supplied part of a new widget. ID, position, and
// createdAt are assigned by the store.
type WidgetSpec struct {
	WidgetType  string
	Title       string
	Description string
	Args        map[string]any
	Size        string
	Pinned      bool
	Source      string
	Tags        []string
}

// WidgetUpdate carries the mergeable fields of an update mutation. Nil fields
// are left untouched.
type WidgetUpdate struct {
	Title       *string
	Description *string
	Args        map[string]any
}

// Store holds one user's layout. All mutations apply synchronously in call
// order; persistence trails behind through the debouncer.
type Store struct {
	uid      string
	mu       sync.Mutex
	layout   models.DashboardLayout
	persist  Persister
	debounce *debouncer
	log      *slog.Logger
	clockNow func() time.Time
	closed   bool

	// writeMu is held for the span of each persistence write. Close takes it
	// after cancelling the timer, so an in-flight write completes before
	// Close returns and none can start after.
	writeMu sync.Mutex
}

// Option tweaks store construction.
type Option func(*Store)

// WithDebounceWindow overrides the persistence quiet window.
func WithDebounceWindow(d time.Duration) Option {
	return func(s *Store) { s.debounce = newDebouncer(d) }
}

// WithClock overrides the timestamp source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.clockNow = now }
}

func NewStore(uid string, initial models.DashboardLayout, persist Persister, log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		uid:      uid,
		layout:   initial.Clone(),
		persist:  persist,
		debounce: newDebouncer(DefaultDebounce),
		log:      log,
		clockNow: time.Now,
	}
	normalizePositions(s.layout.Widgets)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Layout returns a snapshot of the current layout.
func (s *Store) Layout() models.DashboardLayout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Clone()
}

// AddWidget appends a widget at the end of the layout and returns it.
// lastModifiedBy reflects provenance: user-origin widgets count as user
// edits, everything else as LLM edits.
func (s *Store) AddWidget(spec WidgetSpec) models.WidgetInstance {
	s.mu.Lock()
	size := spec.Size
	if size == "" {
		size = models.SizeMedium
	}
	w := models.WidgetInstance{
		ID:          uuid.New().String(),
		WidgetType:  spec.WidgetType,
		Title:       spec.Title,
		Description: spec.Description,
		Args:        spec.Args,
		Position:    len(s.layout.Widgets),
		Size:        size,
		Pinned:      spec.Pinned,
		Source:      spec.Source,
		Tags:        spec.Tags,
		CreatedAt:   s.clockNow(),
	}
	s.layout.Widgets = append(s.layout.Widgets, w)
	by := models.ModifiedByLLM
	if spec.Source == models.SourceUser {
		by = models.ModifiedByUser
	}
	s.touch(by)
	s.mu.Unlock()

	s.schedulePersist()
	return w
}

// RemoveWidget deletes the matching widget and renormalizes positions.
// A missing id is a no-op: the desired end state already holds.
func (s *Store) RemoveWidget(id string) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.layout.Widgets = append(s.layout.Widgets[:idx], s.layout.Widgets[idx+1:]...)
	normalizePositions(s.layout.Widgets)
	s.touch(models.ModifiedByUser)
	s.mu.Unlock()

	s.schedulePersist()
	return true
}

// UpdateWidget merges the provided fields into the matching widget. Only the
// conversational bridge drives this path, so the edit is attributed to the
// LLM. Missing id is a no-op.
func (s *Store) UpdateWidget(id string, upd WidgetUpdate) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	w := &s.layout.Widgets[idx]
	if upd.Title != nil {
		w.Title = *upd.Title
	}
	if upd.Description != nil {
		w.Description = *upd.Description
	}
	if upd.Args != nil {
		w.Args = upd.Args
	}
	s.touch(models.ModifiedByLLM)
	s.mu.Unlock()

	s.schedulePersist()
	return true
}

// ReorderWidgets removes movedID from its slot and reinserts it immediately
// before targetID's current slot (a list move, not a swap). No-op if either
// id is absent.
func (s *Store) ReorderWidgets(movedID, targetID string) bool {
	s.mu.Lock()
	from := s.indexOf(movedID)
	to := s.indexOf(targetID)
	if from < 0 || to < 0 || movedID == targetID {
		s.mu.Unlock()
		return false
	}
	moved := s.layout.Widgets[from]
	rest := append(s.layout.Widgets[:from], s.layout.Widgets[from+1:]...)
	// target index shifts left when the moved widget sat before it
	if from < to {
		to--
	}
	s.layout.Widgets = append(rest[:to], append([]models.WidgetInstance{moved}, rest[to:]...)...)
	normalizePositions(s.layout.Widgets)
	s.touch(models.ModifiedByUser)
	s.mu.Unlock()

	s.schedulePersist()
	return true
}

// ResizeWidget sets the size field only; positions are untouched.
func (s *Store) ResizeWidget(id, size string) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.layout.Widgets[idx].Size = size
	s.touch(models.ModifiedByUser)
	s.mu.Unlock()

	s.schedulePersist()
	return true
}

// Flush forces any pending persistence write to run now.
func (s *Store) Flush() {
	s.debounce.Flush()
}

// Close cancels the pending debounce timer and waits out any write already
// past the cancel point. No write starts after Close returns, so a torn-down
// store never writes into a disposed scope.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.debounce.Cancel()

	// Barrier: a timer callback that slipped past Cancel either finishes
	// here or observes closed and skips.
	s.writeMu.Lock()
	s.writeMu.Unlock()
}

func (s *Store) touch(by string) {
	s.layout.LastModifiedBy = by
	s.layout.LastModifiedAt = s.clockNow()
}

func (s *Store) indexOf(id string) int {
	for i := range s.layout.Widgets {
		if s.layout.Widgets[i].ID == id {
			return i
		}
	}
	return -1
}

// schedulePersist arms the debouncer. The snapshot is taken when the timer
// fires, so a burst of mutations persists its cumulative result once. The
// mutex stays held across Trigger so Close cannot interleave between the
// closed check and the timer being armed.
func (s *Store) schedulePersist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.debounce.Trigger(s.persistNow)
}

func (s *Store) persistNow() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	snapshot := s.layout.Clone()
	s.mu.Unlock()

	// Background context: the originating request may be gone by now.
	if err := s.persist.SaveLayout(context.Background(), s.uid, snapshot); err != nil {
		// Non-critical: in-memory state stays authoritative until the
		// next successful write or reload.
		s.log.Warn("layout persist failed", "uid", s.uid, "error", err)
	}
}

// normalizePositions rewrites positions to a dense 0..N-1 sequence preserving
// slice order.
func normalizePositions(widgets []models.WidgetInstance) {
	for i := range widgets {
		widgets[i].Position = i
	}
}
