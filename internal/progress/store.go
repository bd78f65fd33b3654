package progress

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	// stateVersion is bumped when the schema changes. Load can use it to
	// apply migrations in the future.
	stateVersion = 1

	stateFileName = "state.json"
	appDirName    = "skatemaster"
)

// Store handles loading and saving the state tree to disk.
type Store struct {
	dir  string // directory containing state.json
	mult Multipliers
}

// NewStore creates a Store that reads/writes state in the given directory.
// The directory is created (with parents) on the first Save if it does not
// exist. Pass an empty string to use the default XDG state path.
func NewStore(dir string, mult Multipliers) *Store {
	if dir == "" {
		dir = defaultStateDir()
	}
	return &Store{dir: dir, mult: mult}
}

// Path returns the full path to the state file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, stateFileName)
}

// Load reads the state tree from disk and reconciles it.
//
// A missing or unparseable file yields the seeded default state. A
// parseable blob has each field defaulted independently: absent logs or
// redemptions become empty, an absent user name becomes the default, and
// an absent or empty trick list falls back to the seed curriculum. The
// point balances are then rederived from scratch — whatever totals the
// blob carried are ignored, so the conservation invariant holds no matter
// what was on disk.
func (s *Store) Load(shop *Shop) (*State, error) {
	var blob persistedState

	data, err := os.ReadFile(s.Path())
	switch {
	case err != nil && os.IsNotExist(err):
		// First run: fall through with the zero blob.
	case err != nil:
		return nil, fmt.Errorf("reading state: %w", err)
	default:
		if err := json.Unmarshal(data, &blob); err != nil {
			// A corrupt slot is recovered locally, not surfaced: the
			// seeded defaults are the best state we can offer.
			log.Printf("State file unparseable, starting from defaults: %v", err)
			blob = persistedState{}
		}
	}

	st := &State{
		Logs:          blob.Logs,
		RedeemedItems: blob.RedeemedItems,
		UserName:      blob.UserName,
	}
	if st.Logs == nil {
		st.Logs = make(map[string]PracticeLog)
	}
	if st.RedeemedItems == nil {
		st.RedeemedItems = []string{}
	}
	if st.UserName == "" {
		st.UserName = defaultUserName
	}
	if len(blob.Tricks) > 0 {
		st.Catalog = NewCatalog(blob.Tricks)
	} else {
		st.Catalog = NewCatalog(SeedTricks())
	}

	st.Points, st.TotalScore = Recompute(st.Catalog, st.Logs, st.RedeemedItems, shop, s.mult)

	return st, nil
}

// Save writes the full state tree to disk using an atomic
// temp-file-then-rename pattern. The directory is created if it does not
// already exist.
func (s *Store) Save(st *State) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	blob := persistedState{
		Version:       stateVersion,
		Logs:          st.Logs,
		RedeemedItems: st.RedeemedItems,
		UserName:      st.UserName,
		Tricks:        st.Catalog.List(),
		Points:        st.Points,
		TotalScore:    st.TotalScore,
		LastUpdated:   time.Now().UTC(),
	}

	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		return fmt.Errorf("renaming state file: %w", err)
	}
	committed = true

	return nil
}

// defaultStateDir returns ~/.local/state/skatemaster, respecting
// XDG_STATE_HOME if set.
func defaultStateDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName)
}
