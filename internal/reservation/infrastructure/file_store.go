package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
)

// FileStore persists the snapshot as one JSON document. Writes go through a
// temp file and a rename so a crash never leaves a half-written snapshot.
type FileStore struct {
	path   string
	logger pkgApp.AppLogger
}

func NewFileStore(path string, logger pkgApp.AppLogger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// LoadAll reads the snapshot file. A missing file is a cold start, not an
// error.
func (s *FileStore) LoadAll(ctx context.Context) (domain.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		pkgApp.LogInfo(ctx, s.logger, "snapshot file not found, starting empty", map[string]interface{}{
			"path": s.path,
		})
		return domain.Snapshot{}, nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	return snapshot, nil
}

func (s *FileStore) SaveAll(ctx context.Context, snapshot domain.Snapshot) error {
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot %s: %w", s.path, err)
	}

	pkgApp.LogInfo(ctx, s.logger, "snapshot saved", map[string]interface{}{
		"path":     s.path,
		"routes":   len(snapshot.Routes),
		"bookings": len(snapshot.Bookings),
	})
	return nil
}
