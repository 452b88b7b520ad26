// Package state keeps a history of summarization runs.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	historyFileName = "history.json"
	hashBytes       = 8192 // First 8KB for content hash
)

// Status is the outcome of one book run.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Run records one book processed in one mode.
type Run struct {
	Hash        string    `json:"hash"`
	RunID       string    `json:"run_id"`
	Title       string    `json:"title"`
	Path        string    `json:"path"`
	Mode        string    `json:"mode"`
	Status      Status    `json:"status"`
	Chapters    int       `json:"chapters"`
	SummaryPath string    `json:"summary_path,omitempty"`
	Error       string    `json:"error,omitempty"`
	FinishedAt  time.Time `json:"finished_at"`
}

// HistoryStore persists the latest Run per book and mode.
type HistoryStore struct {
	path string
	data map[string]Run
	mu   sync.RWMutex
}

// NewHistoryStore creates or loads history from dir, or from
// DefaultDir() when dir is empty. A corrupt file starts an empty history.
func NewHistoryStore(dir string) (*HistoryStore, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	store := &HistoryStore{
		path: filepath.Join(dir, historyFileName),
		data: make(map[string]Run),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty history
		store.data = make(map[string]Run)
	}
	return store, nil
}

// DefaultDir returns XDG_STATE_HOME/booksum or ~/.local/state/booksum
func DefaultDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "booksum")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "booksum")
}

// Path is the history file location.
func (s *HistoryStore) Path() string { return s.path }

// ComputeHash generates content hash for file identity
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil // First 16 bytes = 32 hex chars
}

func key(hash, mode string) string { return hash + "/" + mode }

// Record stores run, replacing any earlier run of the same book and mode.
func (s *HistoryStore) Record(run Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key(run.Hash, run.Mode)] = run
	return s.save()
}

// Get returns the last run for a book in a mode.
func (s *HistoryStore) Get(hash, mode string) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.data[key(hash, mode)]
	return run, ok
}

// List returns all runs, most recent first.
func (s *HistoryStore) List() []Run {
	s.mu.RLock()
	runs := make([]Run, 0, len(s.data))
	for _, run := range s.data {
		runs = append(runs, run)
	}
	s.mu.RUnlock()

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].FinishedAt.Equal(runs[j].FinishedAt) {
			return runs[i].Path < runs[j].Path
		}
		return runs[i].FinishedAt.After(runs[j].FinishedAt)
	})
	return runs
}

// Clear removes every recorded run for a book.
func (s *HistoryStore) Clear(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, run := range s.data {
		if run.Hash == hash {
			delete(s.data, k)
		}
	}
	return s.save()
}

func (s *HistoryStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *HistoryStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
