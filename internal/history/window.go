package history

// Window receives the commands issued while the store lock is held.
// Implementations must not call back into the Store.
type Window interface {
	Show()
	Hide()
	Focus()
	Move(x, y int)
	SetTopmost(on bool)
	Invalidate()
}

type nopWindow struct{}

func (nopWindow) Show()           {}
func (nopWindow) Hide()           {}
func (nopWindow) Focus()          {}
func (nopWindow) Move(int, int)   {}
func (nopWindow) SetTopmost(bool) {}
func (nopWindow) Invalidate()     {}
