package progress

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ChangeCallback is invoked with a snapshot after every successful
// mutation. Must be registered before the first mutation.
type ChangeCallback func(*Snapshot)

// Snapshot is the read-only view handed to presentation layers.
type Snapshot struct {
	Logs          map[string]PracticeLog `json:"logs"`
	TotalScore    int                    `json:"totalScore"`
	Points        PointsByLevel          `json:"pointsPerLevel"`
	RedeemedItems []string               `json:"redeemedItems"`
	UserName      string                 `json:"userName"`
	Tricks        []Trick                `json:"tricks"`
}

// Tracker is the single mutation surface over the state tree. Every
// operation runs its domain logic under the lock, then persists. It is
// constructed once at startup and threaded through; there is no package
// level instance.
type Tracker struct {
	mu      sync.Mutex
	state   *State
	store   *Store
	shop    *Shop
	mult    Multipliers
	onSaved ChangeCallback
}

// NewTracker loads the state tree through store and wraps it.
func NewTracker(store *Store, shop *Shop, mult Multipliers) (*Tracker, error) {
	state, err := store.Load(shop)
	if err != nil {
		return nil, err
	}
	return &Tracker{state: state, store: store, shop: shop, mult: mult}, nil
}

// OnChange registers a callback fired with a fresh snapshot after each
// successful mutation. Must be called before the tracker is shared.
func (t *Tracker) OnChange(cb ChangeCallback) {
	t.onSaved = cb
}

// Shop returns the static reward catalog.
func (t *Tracker) Shop() *Shop {
	return t.shop
}

// Snapshot returns a deep copy of the current state tree.
func (t *Tracker) Snapshot() *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return snapshotOf(t.state)
}

// Badges returns the mastered logs, oldest first.
func (t *Tracker) Badges() []PracticeLog {
	t.mu.Lock()
	defer t.mu.Unlock()

	var badges []PracticeLog
	for _, l := range t.state.Logs {
		if l.IsMastered {
			badges = append(badges, l)
		}
	}
	sort.Slice(badges, func(i, j int) bool {
		return badges[i].Date.Before(badges[j].Date)
	})
	return badges
}

// SaveLog creates or overwrites the practice log for trickID.
//
// The trick is resolved against the live catalog: its current level picks
// the point bucket for the incremental delta, and its current MaxCones is
// snapshotted onto the log. Mastery is judged against that snapshot. A
// previously stored proof marker survives a save that brings none. The
// caller is responsible for rejecting a mastering save with no proof; the
// tracker records whatever it is given.
func (t *Tracker) SaveLog(trickID string, cones int, proofURL string) (*PracticeLog, error) {
	t.mu.Lock()
	trick, ok := t.state.Catalog.Get(trickID)
	if !ok {
		t.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrTrickNotFound, trickID)
	}
	if cones < 0 || cones > trick.MaxCones {
		t.mu.Unlock()
		return nil, fmt.Errorf("cones %d out of range 0..%d", cones, trick.MaxCones)
	}

	var prev *PracticeLog
	if existing, ok := t.state.Logs[trickID]; ok {
		prev = &existing
		if proofURL == "" {
			proofURL = existing.VideoProofURL
		}
	}

	entry := PracticeLog{
		TrickID:          trickID,
		Cones:            cones,
		MaxConesPossible: trick.MaxCones,
		VideoProofURL:    proofURL,
		Date:             time.Now().UTC(),
		IsMastered:       cones == trick.MaxCones,
	}
	t.state.Logs[trickID] = entry
	t.state.Points, t.state.TotalScore = ApplyLogSave(t.state.Points, prev, cones, trick.Level, t.mult)

	t.persistLocked()
	return &entry, nil
}

// RedeemItem redeems itemID if it exists, has not been redeemed before,
// and the balance at its required level covers the cost. The cost always
// comes from the shop catalog, never from the caller. Returns whether the
// redemption went through; the reason for a refusal is not distinguished.
func (t *Tracker) RedeemItem(itemID string) bool {
	t.mu.Lock()
	item, ok := t.shop.Get(itemID)
	if !ok {
		t.mu.Unlock()
		return false
	}

	redeemed, total, ok := ApplyRedemption(t.state.Points, t.state.RedeemedItems, item)
	if !ok {
		t.mu.Unlock()
		return false
	}
	t.state.RedeemedItems = redeemed
	t.state.TotalScore = total

	t.persistLocked()
	return true
}

// RenameUser updates the display name.
func (t *Tracker) RenameUser(name string) {
	t.mu.Lock()
	t.state.UserName = name
	t.persistLocked()
}

// AddTrick inserts a new catalog entry. A trick arriving without an id is
// assigned a fresh UUID, so ids stay unique and are never reused after a
// deletion. Duplicate ids are a caller bug and surface as ErrDuplicateTrick.
// The assigned id is returned.
func (t *Tracker) AddTrick(trick Trick) (string, error) {
	if trick.ID == "" {
		trick.ID = uuid.NewString()
	}
	t.mu.Lock()
	if err := t.state.Catalog.Add(trick); err != nil {
		t.mu.Unlock()
		return "", err
	}
	t.persistLocked()
	return trick.ID, nil
}

// UpdateTrick replaces the catalog entry with a matching id. Existing
// logs keep their snapshots; a changed level or target only affects
// future saves (and the recompute at next load).
func (t *Tracker) UpdateTrick(trick Trick) error {
	t.mu.Lock()
	if err := t.state.Catalog.Update(trick); err != nil {
		t.mu.Unlock()
		return err
	}
	t.persistLocked()
	return nil
}

// DeleteTrick removes a catalog entry. The trick's practice log, if any,
// is kept, and no recompute runs: points already earned stay counted
// until the next load rederives balances from the live catalog.
func (t *Tracker) DeleteTrick(id string) {
	t.mu.Lock()
	t.state.Catalog.Remove(id)
	t.persistLocked()
}

// persistLocked saves the state tree, releases the lock, and fires the
// change callback. A failed write is reported and otherwise ignored: the
// in-memory state stays authoritative and the next successful write
// reconciles the slot.
func (t *Tracker) persistLocked() {
	snap := snapshotOf(t.state)
	err := t.store.Save(t.state)
	t.mu.Unlock()

	if err != nil {
		log.Printf("Failed to save state: %v", err)
	}
	if t.onSaved != nil {
		t.onSaved(snap)
	}
}

func snapshotOf(s *State) *Snapshot {
	cp := s.clone()
	return &Snapshot{
		Logs:          cp.Logs,
		TotalScore:    cp.TotalScore,
		Points:        cp.Points,
		RedeemedItems: cp.RedeemedItems,
		UserName:      cp.UserName,
		Tricks:        cp.Catalog.List(),
	}
}
