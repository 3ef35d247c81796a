// Package history provides a persistent JSON journal of past diagnoses,
// so users can review what the tool concluded about earlier failures.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garagon/yarara/internal/types"
)

// Entry is one recorded diagnosis.
type Entry struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Analyzer    string `json:"analyzer"`
	Description string `json:"description"`
	Action      string `json:"action,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Journal persists diagnosis entries to a JSON file on disk.
type Journal struct {
	mu      sync.RWMutex
	Entries []Entry `json:"entries"`
	path    string
}

// New creates a Journal backed by the given file path.
func New(path string) *Journal {
	return &Journal{path: path}
}

// DefaultPath returns the default journal path (~/.yarara/history.json).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".yarara/history.json"
	}
	return filepath.Join(home, ".yarara", "history.json")
}

// Load reads the journal from disk. A missing file starts the journal
// empty (no error). Symlinks are rejected.
func (j *Journal) Load() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	info, err := os.Lstat(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("history file is a symlink (rejected for security): %s", j.path)
	}

	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return json.Unmarshal(data, j)
}

// Save writes the journal to disk, creating parent directories if
// needed. Directories are created with 0o700, files with 0o600
// (owner-only). Symlinks are rejected.
func (j *Journal) Save() error {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if info, err := os.Lstat(j.path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("history file is a symlink (rejected for security): %s", j.path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(j.path, data, 0o600)
}

// Append records a diagnosis with the current timestamp and returns
// the new entry.
func (j *Journal) Append(d *types.Diagnosis, source string) Entry {
	entry := Entry{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Analyzer:    d.Analyzer,
		Description: d.Description,
		Action:      d.Action,
		Source:      source,
	}
	j.mu.Lock()
	j.Entries = append(j.Entries, entry)
	j.mu.Unlock()
	return entry
}

// Recent returns the last n entries, newest first. n <= 0 returns all.
func (j *Journal) Recent(n int) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	entries := make([]Entry, len(j.Entries))
	copy(entries, j.Entries)
	sort.SliceStable(entries, func(i, k int) bool {
		return entries[i].Timestamp > entries[k].Timestamp
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Path returns the file path of this journal.
func (j *Journal) Path() string {
	return j.path
}
