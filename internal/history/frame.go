package history

import "github.com/labi-le/mammon/internal/types/domain"

// Frame is the view of the store handed to a render pass.
// It is valid only inside the Store.Frame callback.
type Frame struct {
	entries   []domain.Entry
	state     State
	deleteAt  int
	copied    bool
	toggleTop bool
}

func (f *Frame) State() State { return f.state }

func (f *Frame) Len() int { return len(f.entries) }

// Each visits entries newest first. index is the storage position expected by Delete.
func (f *Frame) Each(fn func(index int, e domain.Entry)) {
	for i := len(f.entries) - 1; i >= 0; i-- {
		fn(i, f.entries[i])
	}
}

// Delete marks index for removal once the frame ends. The last call wins.
func (f *Frame) Delete(index int) { f.deleteAt = index }

// Copied records that an entry was written back to the clipboard.
func (f *Frame) Copied() { f.copied = true }

// ToggleTop requests a level switch after the frame.
func (f *Frame) ToggleTop() { f.toggleTop = true }
