package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/zhouzirui/wish-santa/backend/internal/model/wish"
)

const (
	assignmentsFileMode = 0o644
	tempFilePattern     = ".assignments-*.json.tmp"
)

// AssignmentStore persists the identity to wish mapping as one JSON object.
type AssignmentStore struct {
	path   string
	logger *zap.Logger
}

// NewAssignmentStore returns a store bound to path.
func NewAssignmentStore(path string, logger *zap.Logger) *AssignmentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentStore{path: path, logger: logger}
}

// Path returns the file backing the store.
func (s *AssignmentStore) Path() string {
	return s.path
}

// Load returns the persisted assignments. An absent, unreadable or malformed
// file means no prior assignments.
func (s *AssignmentStore) Load() map[string]wish.Wish {
	assignments := make(map[string]wish.Wish)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("no assignments file, starting fresh", zap.String("path", s.path))
		} else {
			s.logger.Warn("could not read assignments file", zap.String("path", s.path), zap.Error(err))
		}
		return assignments
	}

	if err := json.Unmarshal(data, &assignments); err != nil {
		s.logger.Warn("could not parse assignments file", zap.String("path", s.path), zap.Error(err))
		return make(map[string]wish.Wish)
	}
	if assignments == nil {
		// the document was a JSON null
		assignments = make(map[string]wish.Wish)
	}
	return assignments
}

// Save replaces the file with the full mapping. The new content is written to
// a temporary file first and renamed over the target, so a failed save leaves
// the previous file untouched.
func (s *AssignmentStore) Save(ctx context.Context, assignments map[string]wish.Wish) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(assignments, "", "  ")
	if err != nil {
		return fmt.Errorf("encode assignments: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp assignments file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp assignments file: %w", err)
	}

	if err := tempFile.Chmod(assignmentsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp assignments file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp assignments file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace assignments file: %w", err)
	}

	cleanup = false
	return nil
}
