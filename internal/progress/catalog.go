package progress

import (
	"errors"
	"fmt"
)

// Level is a difficulty tier in the curriculum. A is the hardest, E the
// easiest. Tricks and shop items are bucketed by level, and each level
// carries an independent point balance.
type Level string

const (
	LevelA Level = "A"
	LevelB Level = "B"
	LevelC Level = "C"
	LevelD Level = "D"
	LevelE Level = "E"
)

// Levels lists all difficulty levels in display order.
var Levels = []Level{LevelA, LevelB, LevelC, LevelD, LevelE}

// Category groups tricks in the UI.
type Category string

const (
	CategoryOthers   Category = "OTHERS"
	CategorySitting  Category = "SITTING"
	CategoryJumping  Category = "JUMPING"
	CategoryWheeling Category = "WHEELING"
	CategorySpinning Category = "SPINNING"
	CategoryFootwork Category = "FOOTWORK"
)

// ErrDuplicateTrick is returned when adding a trick whose id already exists.
var ErrDuplicateTrick = errors.New("duplicate trick id")

// ErrTrickNotFound is returned when an update or lookup names a missing id.
var ErrTrickNotFound = errors.New("trick not found")

// Trick is one curriculum entry. MaxCones is the obstacle count that
// constitutes full mastery of the trick.
type Trick struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Level    Level    `json:"level"`
	Category Category `json:"category"`
	MaxCones int      `json:"maxCones"`
}

// Catalog holds the ordered set of trick definitions. It is purely
// in-memory; persisting after a mutation is the caller's job.
type Catalog struct {
	tricks []Trick
}

// NewCatalog creates a catalog pre-loaded with the given tricks.
// Insertion order is preserved.
func NewCatalog(tricks []Trick) *Catalog {
	c := &Catalog{tricks: make([]Trick, len(tricks))}
	copy(c.tricks, tricks)
	return c
}

// Add appends a new trick. It returns ErrDuplicateTrick if the id is
// already present; ids are stable and never reused after deletion.
func (c *Catalog) Add(t Trick) error {
	if _, ok := c.find(t.ID); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTrick, t.ID)
	}
	c.tricks = append(c.tricks, t)
	return nil
}

// Update replaces the trick with a matching id in place, preserving its
// position. It returns ErrTrickNotFound if the id is absent.
func (c *Catalog) Update(t Trick) error {
	i, ok := c.find(t.ID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTrickNotFound, t.ID)
	}
	c.tricks[i] = t
	return nil
}

// Remove deletes the trick with the given id. Removing an absent id is a
// no-op. Practice logs referencing the trick are never touched; they
// become orphaned (see Recompute for how orphans are scored).
func (c *Catalog) Remove(id string) {
	i, ok := c.find(id)
	if !ok {
		return
	}
	c.tricks = append(c.tricks[:i], c.tricks[i+1:]...)
}

// Get returns the trick with the given id.
func (c *Catalog) Get(id string) (Trick, bool) {
	i, ok := c.find(id)
	if !ok {
		return Trick{}, false
	}
	return c.tricks[i], true
}

// List returns all tricks in insertion order. The returned slice is a
// copy; callers may range over it while the catalog mutates.
func (c *Catalog) List() []Trick {
	out := make([]Trick, len(c.tricks))
	copy(out, c.tricks)
	return out
}

// Len returns the number of tricks.
func (c *Catalog) Len() int {
	return len(c.tricks)
}

func (c *Catalog) find(id string) (int, bool) {
	for i, t := range c.tricks {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}
