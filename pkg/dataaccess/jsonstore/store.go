// Package jsonstore persists flat JSON documents on disk. It is the default
// storage backend for the bot: one document per concern (config.json,
// tickets.json), read and rewritten whole on every mutation. A single mutex
// serialises all load-modify-save cycles so concurrent interaction handlers
// cannot lose updates.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/vixenbot/vixen/pkg/logging"
)

// Store reads and writes JSON documents in a directory.
type Store struct {
	// mu serialises all access to the documents.
	mu sync.Mutex

	// l is the logger.
	l *slog.Logger

	// dir is the directory the documents live in.
	dir string
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string, l *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	return &Store{
		l:   l.With(slog.String("store", "json")),
		dir: dir,
	}, nil
}

// View loads the named document into v under the store lock. A missing or
// corrupt document leaves v untouched, matching "missing reads as empty".
func (s *Store) View(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(name, v)
}

// Update loads the named document into v, runs fn to mutate it, and writes the
// document back, all under the store lock. If fn returns an error the document
// is not written and the prior version stays intact.
func (s *Store) Update(name string, v any, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(name, v); err != nil {
		return err
	}

	if err := fn(); err != nil {
		return err
	}

	return s.save(name, v)
}

// Ping verifies the data directory is still usable. Used by the health check.
func (s *Store) Ping() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("error statting data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) load(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error reading %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		// A corrupt document reads as empty rather than wedging the bot.
		s.l.Warn("Document is corrupt, treating as empty",
			slog.String("document", name),
			slog.String(logging.KeyError, err.Error()),
		)
		return nil
	}
	return nil
}

func (s *Store) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("error marshalling %s: %w", name, err)
	}

	// Write to a temp file and rename so a failed write leaves the previous
	// version intact.
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temp file for %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error writing %s: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error closing temp file for %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error replacing %s: %w", name, err)
	}
	return nil
}
