package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrQuotaExceeded is returned by SetItem when the write would push the
// encoded store past its configured size cap. Callers above the cache
// manager never see it: the manager swallows write failures.
var ErrQuotaExceeded = errors.New("filestore: quota exceeded")

// Store is a single-file JSON-persisted key-value store: the
// local-device analog. Every write is flushed synchronously so a crash
// never loses more than the in-flight operation.
type Store struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	items    map[string]string
	logger   *logrus.Logger
}

// Open loads the store from path, starting empty when the file is
// missing. A corrupt file is discarded with a warning rather than
// failing the caller; the cache is a best-effort layer.
func Open(path string, maxBytes int64, logger *logrus.Logger) (*Store, error) {
	s := &Store{
		path:     path,
		maxBytes: maxBytes,
		items:    make(map[string]string),
		logger:   logger,
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	if err := json.Unmarshal(b, &s.items); err != nil {
		if logger != nil {
			logger.WithError(err).WithField("path", path).Warn("discarding corrupt store file")
		}
		s.items = make(map[string]string)
	}
	return s, nil
}

func (s *Store) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.items[key]
	s.items[key] = value

	b, err := json.Marshal(s.items)
	if err == nil && s.maxBytes > 0 && int64(len(b)) > s.maxBytes {
		err = ErrQuotaExceeded
	}
	if err != nil {
		// Roll back so the in-memory view matches the file.
		if had {
			s.items[key] = prev
		} else {
			delete(s.items, key)
		}
		return err
	}
	return s.flushLocked(b)
}

func (s *Store) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		return nil
	}
	delete(s.items, key)
	b, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	return s.flushLocked(b)
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// flushLocked writes atomically via a temp file in the same directory.
func (s *Store) flushLocked(encoded []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".store-*")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close store file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
