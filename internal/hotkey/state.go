package hotkey

import "sync"

// Source reports global keyboard and pointer state at poll time.
type Source interface {
	Pressed(code uint16) bool
	Cursor() (x, y int)
	Close()
}

// KeyState is a Source fed by key and pointer events.
type KeyState struct {
	mu      sync.Mutex
	pressed map[uint16]struct{}
	x, y    int
}

func NewKeyState() *KeyState {
	return &KeyState{pressed: make(map[uint16]struct{})}
}

func (k *KeyState) Press(code uint16) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pressed[code] = struct{}{}
}

func (k *KeyState) Release(code uint16) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.pressed, code)
}

func (k *KeyState) Move(x, y int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.x, k.y = x, y
}

// Reset forgets every held key, used when the event stream restarts.
func (k *KeyState) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	clear(k.pressed)
}

func (k *KeyState) Pressed(code uint16) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.pressed[code]
	return ok
}

func (k *KeyState) Cursor() (int, int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.x, k.y
}

func (k *KeyState) Close() {}
