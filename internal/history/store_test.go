package history_test

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/labi-le/mammon/internal/history"
	"github.com/labi-le/mammon/internal/types/domain"
	"github.com/rs/zerolog"
)

type recordingWindow struct {
	mu       sync.Mutex
	commands []string
	panicOn  string
}

func (w *recordingWindow) record(cmd string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if cmd == w.panicOn {
		panic("window command failed: " + cmd)
	}
	w.commands = append(w.commands, cmd)
}

func (w *recordingWindow) Show()         { w.record("show") }
func (w *recordingWindow) Hide()         { w.record("hide") }
func (w *recordingWindow) Focus()        { w.record("focus") }
func (w *recordingWindow) Move(_, _ int) { w.record("move") }
func (w *recordingWindow) SetTopmost(on bool) {
	if on {
		w.record("top")
		return
	}
	w.record("untop")
}
func (w *recordingWindow) Invalidate() {
	if w.panicOn == "invalidate" {
		panic("repaint failed")
	}
}

func (w *recordingWindow) Commands() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.commands...)
}

func newStore(t *testing.T) (*history.Store, *recordingWindow) {
	t.Helper()

	w := new(recordingWindow)
	s := history.New(zerolog.Nop())
	s.Attach(w)
	return s, w
}

func texts(entries []domain.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.MimeType.IsImage() {
			out = append(out, "img:"+string(e.Image))
			continue
		}
		out = append(out, e.Text)
	}
	return out
}

func TestStore_AppendIfNew_TextDedup(t *testing.T) {
	s, _ := newStore(t)

	inputs := []string{"a", "b", "a", "a", "c", "b", "a"}
	for _, in := range inputs {
		s.AppendIfNew(domain.NewText(in))
	}

	if diff := cmp.Diff([]string{"a", "b", "c"}, texts(s.Snapshot())); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_AppendIfNew_ImagesNeverDedup(t *testing.T) {
	s, _ := newStore(t)

	payload := []byte("same-bytes")
	for i := 0; i < 5; i++ {
		if !s.AppendIfNew(domain.NewImage(payload)) {
			t.Fatalf("image %d was rejected", i)
		}
	}

	if got := s.Len(); got != 5 {
		t.Fatalf("expected 5 images, got %d", got)
	}
}

func TestStore_RemoveAt(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		want    []string
		removed bool
	}{
		{name: "first", index: 0, want: []string{"b", "c", "d"}, removed: true},
		{name: "middle", index: 2, want: []string{"a", "b", "d"}, removed: true},
		{name: "last", index: 3, want: []string{"a", "b", "c"}, removed: true},
		{name: "negative", index: -1, want: []string{"a", "b", "c", "d"}},
		{name: "out of range", index: 4, want: []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newStore(t)
			for _, in := range []string{"a", "b", "c", "d"} {
				s.AppendIfNew(domain.NewText(in))
			}

			if got := s.RemoveAt(tt.index); got != tt.removed {
				t.Fatalf("RemoveAt(%d) = %v, want %v", tt.index, got, tt.removed)
			}
			if diff := cmp.Diff(tt.want, texts(s.Snapshot())); diff != "" {
				t.Fatalf("history mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_Scenario(t *testing.T) {
	s, _ := newStore(t)

	s.AppendIfNew(domain.NewText("a"))
	s.AppendIfNew(domain.NewText("a"))
	if diff := cmp.Diff([]string{"a"}, texts(s.Snapshot())); diff != "" {
		t.Fatalf("after duplicate a (-want +got):\n%s", diff)
	}

	s.AppendIfNew(domain.NewText("b"))
	if diff := cmp.Diff([]string{"a", "b"}, texts(s.Snapshot())); diff != "" {
		t.Fatalf("after b (-want +got):\n%s", diff)
	}

	s.RemoveAt(0)
	if diff := cmp.Diff([]string{"b"}, texts(s.Snapshot())); diff != "" {
		t.Fatalf("after delete (-want +got):\n%s", diff)
	}

	s.AppendIfNew(domain.NewImage([]byte("1")))
	s.AppendIfNew(domain.NewImage([]byte("1")))
	if diff := cmp.Diff([]string{"b", "img:1", "img:1"}, texts(s.Snapshot())); diff != "" {
		t.Fatalf("after images (-want +got):\n%s", diff)
	}
}

func TestStore_ConcurrentAppendAndDelete(t *testing.T) {
	const n = 200

	s, _ := newStore(t)
	for i := 0; i < n; i++ {
		s.AppendIfNew(domain.NewImage([]byte{byte(i)}))
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			s.AppendIfNew(domain.NewText(string(rune('a'+i%26)) + string(rune(i))))
		}
	}()

	removed := 0
	go func() {
		defer wg.Done()
		for i := 0; i < n/2; i++ {
			if s.RemoveAt(0) {
				removed++
			}
		}
	}()

	wg.Wait()

	if removed != n/2 {
		t.Fatalf("expected %d removals, got %d", n/2, removed)
	}
	if got, want := s.Len(), n+n-n/2; got != want {
		t.Fatalf("history length = %d, want %d", got, want)
	}

	textCount := 0
	for _, e := range s.Snapshot() {
		if !e.MimeType.IsImage() {
			textCount++
		}
	}
	if textCount != n {
		t.Fatalf("lost appends: %d text entries, want %d", textCount, n)
	}
}

func TestStore_SwitchVisible(t *testing.T) {
	s, w := newStore(t)

	if diff := cmp.Diff(history.State{Visible: true}, s.State()); diff != "" {
		t.Fatalf("initial state (-want +got):\n%s", diff)
	}

	s.SwitchVisible(true)
	if diff := cmp.Diff(history.State{}, s.State()); diff != "" {
		t.Fatalf("after hide (-want +got):\n%s", diff)
	}

	s.SwitchVisible(true)
	if diff := cmp.Diff(history.State{Visible: true, ShownByHotkey: true}, s.State()); diff != "" {
		t.Fatalf("after hotkey show (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"hide", "show", "focus"}, w.Commands()); diff != "" {
		t.Fatalf("window commands (-want +got):\n%s", diff)
	}
}

func TestStore_SwitchTop(t *testing.T) {
	s, w := newStore(t)

	s.SwitchTop()
	if !s.State().OnTop {
		t.Fatal("expected on top")
	}
	s.SwitchTop()
	if s.State().OnTop {
		t.Fatal("expected normal level")
	}

	if diff := cmp.Diff([]string{"top", "untop"}, w.Commands()); diff != "" {
		t.Fatalf("window commands (-want +got):\n%s", diff)
	}
}

func TestStore_TogglePin(t *testing.T) {
	s, w := newStore(t)

	s.TogglePin()

	want := history.State{Visible: true, OnTop: true}
	if diff := cmp.Diff(want, s.State()); diff != "" {
		t.Fatalf("state (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"top", "show", "focus"}, w.Commands()); diff != "" {
		t.Fatalf("window commands (-want +got):\n%s", diff)
	}
}

func TestStore_Summon(t *testing.T) {
	s, w := newStore(t)
	s.SwitchVisible(false)

	s.Summon(10, 20)

	if diff := cmp.Diff(history.State{Visible: true, ShownByHotkey: true}, s.State()); diff != "" {
		t.Fatalf("state (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"hide", "move", "show", "focus"}, w.Commands()); diff != "" {
		t.Fatalf("window commands (-want +got):\n%s", diff)
	}
}

func TestStore_Frame_HiddenSkipsRender(t *testing.T) {
	s, _ := newStore(t)
	s.AppendIfNew(domain.NewText("a"))
	s.SwitchVisible(false)

	called := false
	if s.Frame(func(*history.Frame) { called = true }) {
		t.Fatal("hidden window must not render")
	}
	if called {
		t.Fatal("render callback invoked while hidden")
	}
}

func TestStore_Frame_NewestFirstAndDeferredDelete(t *testing.T) {
	s, _ := newStore(t)
	for _, in := range []string{"a", "b", "c"} {
		s.AppendIfNew(domain.NewText(in))
	}

	var order []string
	s.Frame(func(f *history.Frame) {
		f.Each(func(i int, e domain.Entry) {
			order = append(order, e.Text)
			if e.Text == "b" {
				f.Delete(i)
			}
		})
		if f.Len() != 3 {
			t.Errorf("entries changed during iteration: %d", f.Len())
		}
	})

	if diff := cmp.Diff([]string{"c", "b", "a"}, order); diff != "" {
		t.Fatalf("render order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "c"}, texts(s.Snapshot())); diff != "" {
		t.Fatalf("history after delete (-want +got):\n%s", diff)
	}
}

func TestStore_Frame_CopyAutoHide(t *testing.T) {
	tests := []struct {
		name        string
		show        func(s *history.Store)
		wantVisible bool
	}{
		{
			name: "shown by hotkey hides after copy",
			show: func(s *history.Store) {
				s.SwitchVisible(false)
				s.Summon(0, 0)
			},
			wantVisible: false,
		},
		{
			name: "shown by tray stays after copy",
			show: func(s *history.Store) {
				s.SwitchVisible(false)
				s.SwitchVisible(false)
			},
			wantVisible: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newStore(t)
			s.AppendIfNew(domain.NewText("a"))
			tt.show(s)

			s.Frame(func(f *history.Frame) {
				f.Copied()
			})

			if got := s.State().Visible; got != tt.wantVisible {
				t.Fatalf("visible = %v, want %v", got, tt.wantVisible)
			}
		})
	}
}

func TestStore_Frame_ToggleTopAfterUnlock(t *testing.T) {
	s, w := newStore(t)

	s.Frame(func(f *history.Frame) {
		f.ToggleTop()
		for _, cmd := range w.Commands() {
			if cmd == "top" {
				t.Error("level switched inside the frame")
			}
		}
	})

	if !s.State().OnTop {
		t.Fatal("level switch was not applied after the frame")
	}
	if diff := cmp.Diff([]string{"top"}, w.Commands()); diff != "" {
		t.Fatalf("window commands (-want +got):\n%s", diff)
	}
}

func TestStore_PanicInWindowCommandReleasesLock(t *testing.T) {
	w := &recordingWindow{panicOn: "hide"}
	s := history.New(zerolog.Nop())
	s.Attach(w)

	s.SwitchVisible(false)

	// lock must be free again
	if !s.AppendIfNew(domain.NewText("after panic")) {
		t.Fatal("append after abandoned operation failed")
	}
	if got := s.Len(); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
}

func TestStore_PanicInRepaintKeepsResult(t *testing.T) {
	w := &recordingWindow{panicOn: "invalidate"}
	s := history.New(zerolog.Nop())
	s.Attach(w)

	if !s.AppendIfNew(domain.NewText("a")) {
		t.Fatal("append reported failure although the entry was stored")
	}
	if !s.AppendIfNew(domain.NewText("b")) {
		t.Fatal("second append reported failure")
	}
	if s.AppendIfNew(domain.NewText("a")) {
		t.Fatal("duplicate accepted")
	}

	if !s.RemoveAt(0) {
		t.Fatal("remove reported failure although the entry was removed")
	}
	if diff := cmp.Diff([]string{"b"}, texts(s.Snapshot())); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}
