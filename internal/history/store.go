package history

import (
	"sync"

	"github.com/labi-le/mammon/internal/types/domain"
	"github.com/labi-le/mammon/pkg/ctxlog"
	"github.com/rs/zerolog"
)

// State is the window part of the shared state.
type State struct {
	Visible       bool
	ShownByHotkey bool
	OnTop         bool
}

func (s State) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("visible", s.Visible).
		Bool("shown_by_hotkey", s.ShownByHotkey).
		Bool("on_top", s.OnTop)
}

// Store owns the clipboard history and the window state.
// Every read-then-write sequence runs under one mutex.
type Store struct {
	mu      sync.Mutex
	entries []domain.Entry
	state   State
	window  Window
	logger  zerolog.Logger
}

// New returns an empty store. The window starts visible.
func New(logger zerolog.Logger) *Store {
	return &Store{
		state:  State{Visible: true},
		window: nopWindow{},
		logger: ctxlog.Component(logger, "history"),
	}
}

// Attach sets the window that receives visibility, level and repaint commands.
func (s *Store) Attach(w Window) {
	if w == nil {
		w = nopWindow{}
	}
	s.guard("history.Attach", func() {
		s.window = w
	})
}

// guard runs fn under the lock. A panic inside fn is logged and the
// operation is abandoned; the lock is always released.
func (s *Store) guard(op string, fn func()) (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			ctxLog := ctxlog.Op(s.logger, op)
			ctxLog.Error().Interface("panic", r).Msg("operation abandoned")
			ok = false
		}
	}()

	fn()
	return true
}

// AppendIfNew appends entry unless the history already holds a duplicate of it.
func (s *Store) AppendIfNew(entry domain.Entry) bool {
	var appended bool
	s.guard("history.AppendIfNew", func() {
		for _, existing := range s.entries {
			if domain.Duplicate(existing, entry) {
				return
			}
		}

		s.entries = append(s.entries, entry)
		appended = true
		s.window.Invalidate()
	})

	if appended {
		s.logger.Trace().EmbedObject(entry).Msg("appended")
	}
	return appended
}

// RemoveAt removes the entry at index (oldest first). Out of range indices are ignored.
func (s *Store) RemoveAt(index int) bool {
	var removed bool
	s.guard("history.RemoveAt", func() {
		if removed = s.removeAt(index); removed {
			s.window.Invalidate()
		}
	})
	return removed
}

// removeAt leaves the repaint to the caller so the result is recorded
// before any window command runs.
func (s *Store) removeAt(index int) bool {
	if index < 0 || index >= len(s.entries) {
		return false
	}

	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	return true
}

// SwitchVisible toggles visibility. byHotkey is recorded when the window is shown.
func (s *Store) SwitchVisible(byHotkey bool) {
	s.guard("history.SwitchVisible", func() {
		s.switchVisible(byHotkey)
	})
}

func (s *Store) switchVisible(byHotkey bool) {
	s.state.Visible = !s.state.Visible
	if s.state.Visible {
		s.state.ShownByHotkey = byHotkey
		s.window.Show()
		s.window.Focus()
	} else {
		s.state.ShownByHotkey = false
		s.window.Hide()
	}
	s.window.Invalidate()

	s.logger.Debug().EmbedObject(s.state).Msg("visibility switched")
}

func (s *Store) SwitchTop() {
	s.guard("history.SwitchTop", s.switchTop)
}

func (s *Store) switchTop() {
	s.state.OnTop = !s.state.OnTop
	s.window.SetTopmost(s.state.OnTop)
	s.window.Invalidate()
}

// TogglePin toggles the window level, clears the visible flag and toggles
// visibility again, leaving the window shown.
func (s *Store) TogglePin() {
	s.guard("history.TogglePin", func() {
		s.switchTop()
		s.state.Visible = false
		s.switchVisible(false)
	})
}

// Summon moves the window to x, y and toggles visibility as hotkey triggered.
func (s *Store) Summon(x, y int) {
	s.guard("history.Summon", func() {
		s.window.Move(x, y)
		s.switchVisible(true)
	})
}

// Frame runs fn inside one critical section when the window is visible.
// Deletes and copy auto-hide are applied after fn returns; a requested
// level switch runs after the lock is released.
func (s *Store) Frame(fn func(f *Frame)) (rendered bool) {
	var switchTop bool

	s.guard("history.Frame", func() {
		if !s.state.Visible {
			return
		}

		f := &Frame{entries: s.entries, state: s.state, deleteAt: -1}
		fn(f)
		rendered = true

		if f.deleteAt >= 0 && s.removeAt(f.deleteAt) {
			s.window.Invalidate()
		}
		if f.copied && s.state.ShownByHotkey {
			s.switchVisible(false)
		}
		switchTop = f.toggleTop
	})

	if switchTop {
		s.SwitchTop()
	}
	return rendered
}

func (s *Store) Len() int {
	var n int
	s.guard("history.Len", func() {
		n = len(s.entries)
	})
	return n
}

// Snapshot returns a copy of the entries, oldest first.
func (s *Store) Snapshot() []domain.Entry {
	var out []domain.Entry
	s.guard("history.Snapshot", func() {
		out = make([]domain.Entry, len(s.entries))
		copy(out, s.entries)
	})
	return out
}

func (s *Store) State() State {
	var st State
	s.guard("history.State", func() {
		st = s.state
	})
	return st
}
