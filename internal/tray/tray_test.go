package tray_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labi-le/mammon/internal/history"
	"github.com/labi-le/mammon/internal/tray"
	"github.com/rs/zerolog"
)

type recordingToggler struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingToggler) SwitchVisible(byHotkey bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if byHotkey {
		r.calls = append(r.calls, "visible(hotkey)")
		return
	}
	r.calls = append(r.calls, "visible")
}

func (r *recordingToggler) TogglePin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "pin")
}

func TestListen(t *testing.T) {
	events := make(chan tray.Event, 8)
	target := new(recordingToggler)

	events <- tray.Event{Button: tray.ButtonLeft, State: tray.StatePressed}
	events <- tray.Event{Button: tray.ButtonLeft, State: tray.StateReleased}
	events <- tray.Event{Button: tray.ButtonRight, State: tray.StatePressed}
	events <- tray.Event{Button: tray.ButtonRight, State: tray.StateReleased}
	close(events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		tray.Listen(context.Background(), events, target, zerolog.Nop())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after the channel was closed")
	}

	if diff := cmp.Diff([]string{"visible", "pin"}, target.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestListen_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		tray.Listen(ctx, make(chan tray.Event), new(recordingToggler), zerolog.Nop())
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Listen ignored cancellation")
	}
}

func TestListen_Store(t *testing.T) {
	store := history.New(zerolog.Nop())
	events := make(chan tray.Event, 4)

	events <- tray.Event{Button: tray.ButtonLeft, State: tray.StateReleased}
	events <- tray.Event{Button: tray.ButtonRight, State: tray.StateReleased}
	close(events)

	tray.Listen(context.Background(), events, store, zerolog.Nop())

	want := history.State{Visible: true, OnTop: true}
	if diff := cmp.Diff(want, store.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}
