package channel_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labi-le/mammon/internal/channel"
	"github.com/labi-le/mammon/internal/history"
	"github.com/labi-le/mammon/internal/types/domain"
	"github.com/rs/zerolog"
)

type countingSink struct {
	mu      sync.Mutex
	entries []domain.Entry
}

func (c *countingSink) AppendIfNew(entry domain.Entry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
	return true
}

func (c *countingSink) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func TestQueue_FIFO(t *testing.T) {
	q := channel.New()

	for _, s := range []string{"1", "2", "3"} {
		if err := q.Send(domain.TextEvent(s)); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	var got []string
	for i := 0; i < 3; i++ {
		ev, err := q.Receive(context.Background())
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		got = append(got, ev.Text())
	}

	if diff := cmp.Diff([]string{"1", "2", "3"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestQueue_SendNeverBlocks(t *testing.T) {
	q := channel.New()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10_000; i++ {
			_ = q.Send(domain.TextEvent("x"))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send blocked without a receiver")
	}

	if got := q.Len(); got != 10_000 {
		t.Fatalf("queue length = %d, want 10000", got)
	}
}

func TestQueue_Close(t *testing.T) {
	q := channel.New()
	_ = q.Send(domain.TextEvent("pending"))
	q.Close()
	q.Close()

	if err := q.Send(domain.TextEvent("late")); !errors.Is(err, channel.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	ev, err := q.Receive(context.Background())
	if err != nil || ev.Text() != "pending" {
		t.Fatalf("pending event lost: %v %q", err, ev.Text())
	}

	if _, err := q.Receive(context.Background()); !errors.Is(err, channel.ErrClosed) {
		t.Fatalf("expected ErrClosed after drain, got %v", err)
	}
}

func TestQueue_ReceiveWakesOnSend(t *testing.T) {
	q := channel.New()

	got := make(chan string, 1)
	go func() {
		ev, err := q.Receive(context.Background())
		if err == nil {
			got <- ev.Text()
		}
	}()

	time.Sleep(10 * time.Millisecond)
	_ = q.Send(domain.TextEvent("late"))

	select {
	case s := <-got:
		if s != "late" {
			t.Fatalf("unexpected event %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("receiver was not woken")
	}
}

func TestQueue_ReceiveCancelled(t *testing.T) {
	q := channel.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := q.Receive(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestListen_QuitStopsLoop(t *testing.T) {
	q := channel.New()
	sink := new(countingSink)

	_ = q.Send(domain.TextEvent("a"))
	_ = q.Send(domain.QuitEvent())
	_ = q.Send(domain.TextEvent("after quit"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- channel.Listen(context.Background(), q, sink, zerolog.Nop())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Listen: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("listener did not stop on quit")
	}

	if got := sink.Len(); got != 1 {
		t.Fatalf("sink received %d entries, want 1", got)
	}
	if got := q.Len(); got != 1 {
		t.Fatalf("events after quit must stay queued, got %d", got)
	}
}

func TestListen_StopsOnClose(t *testing.T) {
	q := channel.New()

	errCh := make(chan error, 1)
	go func() {
		errCh <- channel.Listen(context.Background(), q, new(countingSink), zerolog.Nop())
	}()

	q.Close()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Listen: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("listener did not stop on close")
	}
}

func TestListen_StopsOnCancel(t *testing.T) {
	q := channel.New()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- channel.Listen(ctx, q, new(countingSink), zerolog.Nop())
	}()

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("listener did not stop on cancel")
	}
}

func TestListen_IntoHistory(t *testing.T) {
	q := channel.New()
	store := history.New(zerolog.Nop())

	events := []domain.ClipEvent{
		domain.TextEvent("a"),
		domain.TextEvent("a"),
		domain.TextEvent("b"),
		domain.ImageEvent([]byte("1")),
		domain.ImageEvent([]byte("1")),
		domain.QuitEvent(),
	}
	for _, ev := range events {
		_ = q.Send(ev)
	}

	if err := channel.Listen(context.Background(), q, store, zerolog.Nop()); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	var got []string
	for _, e := range store.Snapshot() {
		if e.MimeType.IsImage() {
			got = append(got, "img")
			continue
		}
		got = append(got, e.Text)
	}

	if diff := cmp.Diff([]string{"a", "b", "img", "img"}, got); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}
