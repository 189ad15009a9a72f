package runner

// Handle addresses a slot in a Pool. Handles stay valid for the lifetime of
// the pool; a released slot is reused by a later Acquire.
type Handle int

// Pool is an arena of reusable slots. Each slot carries an active tag bit;
// inactive slots sit on a free list and are handed out again before the
// arena grows, so steady-state play allocates nothing.
type Pool[T any] struct {
	slots  []T
	active []bool
	free   []Handle
	clear  func(*T)
}

// NewPool creates a pool with room for capacity slots before it must grow.
// clear, if non-nil, is applied to a slot when it is released.
func NewPool[T any](capacity int, clear func(*T)) *Pool[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool[T]{
		slots:  make([]T, 0, capacity),
		active: make([]bool, 0, capacity),
		free:   make([]Handle, 0, capacity),
		clear:  clear,
	}
}

// Acquire returns an inactive slot, marking it active. The slot keeps
// whatever the previous occupant left after clear, so callers can reuse
// identity-like fields. The bool reports whether the slot is new.
func (p *Pool[T]) Acquire() (Handle, *T, bool) {
	if n := len(p.free); n > 0 {
		h := p.free[n-1]
		p.free = p.free[:n-1]
		p.active[h] = true
		return h, &p.slots[h], false
	}

	var zero T
	p.slots = append(p.slots, zero)
	p.active = append(p.active, true)
	h := Handle(len(p.slots) - 1)
	return h, &p.slots[h], true
}

// Release deactivates a slot and returns it to the free list.
// Releasing an inactive or unknown handle is a no-op.
func (p *Pool[T]) Release(h Handle) {
	if !p.Active(h) {
		return
	}
	p.active[h] = false
	if p.clear != nil {
		p.clear(&p.slots[h])
	}
	p.free = append(p.free, h)
}

// ReleaseAll returns every active slot to the pool.
func (p *Pool[T]) ReleaseAll() {
	for i := range p.slots {
		p.Release(Handle(i))
	}
}

// Active reports whether h addresses an active slot.
func (p *Pool[T]) Active(h Handle) bool {
	return h >= 0 && int(h) < len(p.active) && p.active[h]
}

// Get returns the slot for h, active or not, or nil for an unknown handle.
// The pointer is invalidated when the pool grows.
func (p *Pool[T]) Get(h Handle) *T {
	if h < 0 || int(h) >= len(p.slots) {
		return nil
	}
	return &p.slots[h]
}

// Each calls fn for every active slot in handle order. fn may release the
// slot it is given.
func (p *Pool[T]) Each(fn func(Handle, *T)) {
	for i := range p.slots {
		if p.active[i] {
			fn(Handle(i), &p.slots[i])
		}
	}
}

// Len returns the number of active slots.
func (p *Pool[T]) Len() int {
	return len(p.slots) - len(p.free)
}

// Size returns the total number of slots ever created.
func (p *Pool[T]) Size() int {
	return len(p.slots)
}
