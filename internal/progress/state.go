package progress

import "time"

// defaultUserName is the display name used until the user picks one.
const defaultUserName = "Skater"

// PracticeLog is the user's record for one trick, keyed by trick id.
// There is at most one log per trick; a new save overwrites the old one.
type PracticeLog struct {
	TrickID string `json:"trickId"`
	Cones   int    `json:"cones"`
	// MaxConesPossible snapshots the trick's target at the moment of the
	// save. The live trick's MaxCones may drift afterwards; mastery is
	// judged against this snapshot, never re-evaluated.
	MaxConesPossible int `json:"maxConesPossible"`
	// VideoProofURL is an opaque marker that a proof recording exists.
	VideoProofURL string    `json:"videoProofUrl,omitempty"`
	Date          time.Time `json:"date"`
	IsMastered    bool      `json:"isMastered"`
}

// State is the full in-memory state tree. It is constructed once at load
// and mutated only through the Tracker.
type State struct {
	Logs          map[string]PracticeLog
	RedeemedItems []string
	UserName      string
	Catalog       *Catalog
	Points        PointsByLevel
	TotalScore    int
}

// clone returns a deep copy safe to hand to other goroutines.
func (s *State) clone() *State {
	cp := &State{
		Logs:          make(map[string]PracticeLog, len(s.Logs)),
		RedeemedItems: make([]string, len(s.RedeemedItems)),
		UserName:      s.UserName,
		Catalog:       NewCatalog(s.Catalog.List()),
		Points:        s.Points.clone(),
		TotalScore:    s.TotalScore,
	}
	for k, v := range s.Logs {
		cp.Logs[k] = v
	}
	copy(cp.RedeemedItems, s.RedeemedItems)
	return cp
}

// persistedState is the durable JSON shape. Every field is optional: the
// blob may predate a schema change or have been partially written, so each
// field is validated and defaulted independently on load. Points and total
// are written for forward compatibility but never trusted on read.
type persistedState struct {
	Version       int                    `json:"version"`
	Logs          map[string]PracticeLog `json:"logs"`
	RedeemedItems []string               `json:"redeemedItems"`
	UserName      string                 `json:"userName"`
	Tricks        []Trick                `json:"tricks"`
	Points        PointsByLevel          `json:"pointsPerLevel"`
	TotalScore    int                    `json:"totalScore"`
	LastUpdated   time.Time              `json:"lastUpdated"`
}
