// Package threads persists per-document conversation state as whole-record
// JSON files next to the uploaded documents. Every mutation rewrites the full
// record; a per-key mutex makes each read-modify-write atomic without changing
// the whole-record load/save contract.
package threads

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"replydesk/internal/models"
)

var ErrNotFound = errors.New("thread not found")

const metaSuffix = ".meta"

// Store manages thread records backed by JSON .meta files in a directory.
type Store struct {
	dir   string
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Dir returns the directory documents and records live in.
func (s *Store) Dir() string {
	return s.dir
}

// keyLock returns the mutex guarding one thread's read-modify-write cycle.
func (s *Store) keyLock(filename string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[filename]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[filename] = lock
	}
	return lock
}

// Create persists a new thread record.
func (s *Store) Create(thread models.Thread) error {
	lock := s.keyLock(thread.Filename)
	lock.Lock()
	defer lock.Unlock()

	return s.save(thread)
}

// Get loads a thread record, returning ErrNotFound on a miss.
func (s *Store) Get(filename string) (models.Thread, error) {
	lock := s.keyLock(filename)
	lock.Lock()
	defer lock.Unlock()

	return s.load(filename)
}

// AppendTurn appends a turn to a thread, stamping it at write time.
func (s *Store) AppendTurn(filename string, turn models.Turn) (models.Thread, error) {
	lock := s.keyLock(filename)
	lock.Lock()
	defer lock.Unlock()

	thread, err := s.load(filename)
	if err != nil {
		return models.Thread{}, err
	}

	if turn.Timestamp == "" {
		turn.Timestamp = time.Now().Format(models.TimestampLayout)
	}
	thread.Turns = append(thread.Turns, turn)

	if err := s.save(thread); err != nil {
		return models.Thread{}, err
	}
	return thread, nil
}

// ReplaceTurns overwrites a thread's turn sequence.
func (s *Store) ReplaceTurns(filename string, turns []models.Turn) (models.Thread, error) {
	lock := s.keyLock(filename)
	lock.Lock()
	defer lock.Unlock()

	thread, err := s.load(filename)
	if err != nil {
		return models.Thread{}, err
	}

	thread.Turns = turns
	if err := s.save(thread); err != nil {
		return models.Thread{}, err
	}
	return thread, nil
}

// ClearTurns resets a thread's history to empty.
func (s *Store) ClearTurns(filename string) error {
	_, err := s.ReplaceTurns(filename, nil)
	return err
}

// MarkReplied promotes text to the thread's canonical final reply.
func (s *Store) MarkReplied(filename, replyContent string) error {
	lock := s.keyLock(filename)
	lock.Lock()
	defer lock.Unlock()

	thread, err := s.load(filename)
	if err != nil {
		return err
	}

	now := time.Now().Format(models.TimestampLayout)
	thread.HasReply = true
	thread.FinalReply = &replyContent
	thread.ReplyGeneratedDate = &now

	return s.save(thread)
}

// Delete removes a thread record and its document file.
func (s *Store) Delete(filename string) error {
	lock := s.keyLock(filename)
	lock.Lock()
	defer lock.Unlock()

	metaPath := s.metaPath(filename)
	if _, err := os.Stat(metaPath); errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err := os.Remove(metaPath); err != nil {
		return err
	}

	// The document itself may already be gone; that is not an error.
	docPath := filepath.Join(s.dir, filename)
	if err := os.Remove(docPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns all threads, optionally including replied ones, sorted by due
// date ascending so the closest deadline comes first.
func (s *Store) List(includeReplied bool) ([]models.Thread, error) {
	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Thread, 0, len(all))
	for _, thread := range all {
		if includeReplied || !thread.HasReply {
			filtered = append(filtered, thread)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].DueDate < filtered[j].DueDate
	})
	return filtered, nil
}

// ListReplied returns threads with a final reply, most recently replied first.
func (s *Store) ListReplied() ([]models.Thread, error) {
	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	replied := make([]models.Thread, 0, len(all))
	for _, thread := range all {
		if thread.HasReply {
			replied = append(replied, thread)
		}
	}

	sort.Slice(replied, func(i, j int) bool {
		var a, b string
		if replied[i].ReplyGeneratedDate != nil {
			a = *replied[i].ReplyGeneratedDate
		}
		if replied[j].ReplyGeneratedDate != nil {
			b = *replied[j].ReplyGeneratedDate
		}
		return a > b
	})
	return replied, nil
}

func (s *Store) metaPath(filename string) string {
	return filepath.Join(s.dir, filename+metaSuffix)
}

func (s *Store) load(filename string) (models.Thread, error) {
	data, err := os.ReadFile(s.metaPath(filename))
	if errors.Is(err, os.ErrNotExist) {
		return models.Thread{}, ErrNotFound
	}
	if err != nil {
		return models.Thread{}, err
	}

	var thread models.Thread
	if err := json.Unmarshal(data, &thread); err != nil {
		return models.Thread{}, err
	}
	return thread, nil
}

func (s *Store) save(thread models.Thread) error {
	data, err := json.MarshalIndent(thread, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temp file and rename so a crash never leaves a torn record.
	path := s.metaPath(thread.Filename)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func (s *Store) loadAll() ([]models.Thread, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var threads []models.Thread
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != metaSuffix {
			continue
		}
		filename := entry.Name()[:len(entry.Name())-len(metaSuffix)]
		thread, err := s.load(filename)
		if err != nil {
			// Skip torn or foreign files rather than failing the listing.
			continue
		}
		threads = append(threads, thread)
	}
	return threads, nil
}
