// Package file persists session state as one file per session under a base
// directory, for single-host deployments that want sessions to survive
// restarts without running a database.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/persistence"
)

// Store implements ports.StateStore on the local filesystem.
type Store struct {
	basePath string
	codec    persistence.Codec
}

type Option func(*Store)

// WithCodec sets the at-rest state encoding. The default is plain JSON.
func WithCodec(codec persistence.Codec) Option {
	return func(s *Store) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// New creates a store rooted at basePath. Empty defaults to
// ".home360/sessions".
func New(basePath string, opts ...Option) *Store {
	if basePath == "" {
		basePath = filepath.Join(".home360", "sessions")
	}
	s := &Store{basePath: basePath, codec: persistence.JSON{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) path(sessionID string) string {
	return filepath.Join(s.basePath, sessionID+".json")
}

// validSessionID rejects ids that would escape the session directory once
// used as a file name.
func validSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("session id %q is not a valid file name", id)
	}
	return nil
}

// Save writes the session's state atomically: encode to a temp file in the
// same directory, fsync, then rename over the destination.
func (s *Store) Save(ctx context.Context, sessionID string, state domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validSessionID(sessionID); err != nil {
		return err
	}

	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return fmt.Errorf("ensure session directory: %w", err)
	}

	data, err := s.codec.Encode(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	// Same directory as the destination, so the rename stays on one
	// filesystem. The .tmp extension keeps half-written files out of List.
	tmpFile, err := os.CreateTemp(s.basePath, sessionID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	destPath := s.path(sessionID)
	// os.Rename cannot replace an existing file on Windows.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("replace session file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads and decodes the session's state.
func (s *Store) Load(ctx context.Context, sessionID string) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}
	if err := validSessionID(sessionID); err != nil {
		return domain.State{}, err
	}

	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.State{}, domain.ErrSessionNotFound
		}
		return domain.State{}, fmt.Errorf("read session file: %w", err)
	}

	state, err := s.codec.Decode(data)
	if err != nil {
		return domain.State{}, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}

// Delete removes the session file.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validSessionID(sessionID); err != nil {
		return err
	}

	err := os.Remove(s.path(sessionID))
	if os.IsNotExist(err) {
		return domain.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("delete session file: %w", err)
	}
	return nil
}

// List returns the stored session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var sessions []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		sessions = append(sessions, strings.TrimSuffix(name, ".json"))
	}
	return sessions, nil
}
