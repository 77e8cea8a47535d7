package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/chess-ai-backend/internal/engine"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrBadSnapshotID    = errors.New("snapshot id must be a uuid")
)

// Record is what lands on disk: the position plus enough metadata to list saved games.
type Record struct {
	ID       string          `json:"id"`
	GameID   string          `json:"gameId"`
	SavedAt  time.Time       `json:"savedAt"`
	Position engine.Snapshot `json:"position"`
}

// SnapshotStore keeps one JSON file per saved game in a directory.
type SnapshotStore struct {
	dir string
	mu  sync.RWMutex
	now func() time.Time
	log zerolog.Logger
}

func NewSnapshotStore(dir string, log zerolog.Logger) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create snapshot dir %s", dir)
	}
	return &SnapshotStore{dir: dir, now: time.Now, log: log.With().Str("component", "snapshots").Logger()}, nil
}

// Save writes snap under a fresh id and returns it.
func (s *SnapshotStore) Save(gameID string, snap engine.Snapshot) (Record, error) {
	rec := Record{
		ID:       uuid.New().String(),
		GameID:   gameID,
		SavedAt:  s.now().UTC(),
		Position: snap,
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, errors.Wrap(err, "encode snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := s.path(rec.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Record{}, errors.Wrapf(err, "write snapshot %s", rec.ID)
	}
	if err := os.Rename(tmp, s.path(rec.ID)); err != nil {
		return Record{}, errors.Wrapf(err, "commit snapshot %s", rec.ID)
	}
	return rec, nil
}

func (s *SnapshotStore) Load(id string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, errors.Wrapf(ErrBadSnapshotID, "%q", id)
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.path(id))
	s.mu.RUnlock()
	if os.IsNotExist(err) {
		return Record{}, errors.Wrapf(ErrSnapshotNotFound, "%s", id)
	}
	if err != nil {
		return Record{}, errors.Wrapf(err, "read snapshot %s", id)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Wrapf(engine.ErrBadSnapshot, "decode %s: %v", id, err)
	}
	return rec, nil
}

// List returns every saved record, newest first. Files that are not readable
// snapshots are logged and skipped.
func (s *SnapshotStore) List() ([]Record, error) {
	s.mu.RLock()
	entries, err := os.ReadDir(s.dir)
	s.mu.RUnlock()
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", s.dir)
	}
	var records []Record
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		rec, err := s.Load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			s.log.Warn().Err(err).Str("file", name).Msg("skipping unreadable snapshot")
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].SavedAt.After(records[j].SavedAt)
	})
	return records, nil
}

func (s *SnapshotStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
