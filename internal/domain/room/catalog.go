package room

import (
	"sync"

	"github.com/go-faster/errors"
)

// Catalog is the ordered set of rooms known to the hotel.
//
// All methods are safe for concurrent use. Rooms are returned by value, so
// callers cannot flip availability behind the catalog's back.
type Catalog struct {
	mu    sync.RWMutex
	order []int
	rooms map[int]*Room
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{rooms: make(map[int]*Room)}
}

// Add inserts a room. It fails with ErrDuplicateNumber when the number is taken.
func (c *Catalog) Add(r Room) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rooms[r.Number]; ok {
		return errors.Wrapf(ErrDuplicateNumber, "room %d", r.Number)
	}
	c.rooms[r.Number] = &r
	c.order = append(c.order, r.Number)
	return nil
}

// Get returns the room with the given number.
func (c *Catalog) Get(number int) (Room, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.rooms[number]
	if !ok {
		return Room{}, errors.Wrapf(ErrNotFound, "room %d", number)
	}
	return *r, nil
}

// All returns every room in catalog order, available or not.
func (c *Catalog) All() []Room {
	return c.filter(func(*Room) bool { return true })
}

// Available returns the rooms that are currently free, in catalog order.
func (c *Catalog) Available() []Room {
	return c.filter(func(r *Room) bool { return r.Available })
}

// Len returns the number of rooms in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// FirstAvailable returns the first free room of the given type.
func (c *Catalog) FirstAvailable(t Type) (Room, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, n := range c.order {
		if r := c.rooms[n]; r.Available && r.Type == t {
			return *r, nil
		}
	}
	return Room{}, errors.Wrapf(ErrUnavailable, "no %s room is free", t)
}

// IsAvailable reports whether the room exists and is free.
func (c *Catalog) IsAvailable(number int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.rooms[number]
	return ok && r.Available
}

// Reserve marks a free room as occupied. The check and the flip happen under
// one lock, so two callers can never both reserve the same room.
func (c *Catalog) Reserve(number int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rooms[number]
	if !ok {
		return errors.Wrapf(ErrNotFound, "room %d", number)
	}
	if !r.Available {
		return errors.Wrapf(ErrUnavailable, "room %d is occupied", number)
	}
	r.Available = false
	return nil
}

// Release marks a room as free again.
func (c *Catalog) Release(number int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rooms[number]
	if !ok {
		return errors.Wrapf(ErrNotFound, "room %d", number)
	}
	r.Available = true
	return nil
}

func (c *Catalog) filter(keep func(*Room) bool) []Room {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Room, 0, len(c.order))
	for _, n := range c.order {
		if r := c.rooms[n]; keep(r) {
			out = append(out, *r)
		}
	}
	return out
}
