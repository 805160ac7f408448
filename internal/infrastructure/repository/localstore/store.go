package localstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Fixed collection keys, one JSON document per key.
const (
	keyDocuments  = "fileclerk_documents"
	keyActivities = "fileclerk_activities"
	keyMemories   = "fileclerk_memories"
	keyTasks      = "fileclerk_tasks"
	keyUser       = "fileclerk_user"
	keySessions   = "fileclerk_sessions"
)

// Store is the local key-value adapter: JSON-serialized collections under
// fixed keys in a single directory. Reads fall back silently to the
// caller's default on missing or corrupt data; repeated opens never reset
// existing collections. One mutex serializes all access — the demo store
// is deliberately single-writer.
type Store struct {
	dir string
	mu  sync.Mutex
}

func Open(dir string) (*Store, error) {
	if dir == "" {
		dir = "./data/localstore"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	s := &Store{dir: dir}
	if err := s.seed(); err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}
	return s, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) has(key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}

// get deserializes the key into dest, leaving dest untouched on any
// failure. Callers hold s.mu.
func (s *Store) get(key string, dest any) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("localstore_read_failed", "key", key, "error", err)
		}
		return
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		slog.Warn("localstore_decode_failed", "key", key, "error", err)
	}
}

// put serializes value under the key atomically. Callers hold s.mu.
func (s *Store) put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}
