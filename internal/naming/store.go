package naming

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/skinforge/internal/catalog"
)

// Store is the persisted artifact location. Existence checks always hit the
// filesystem, never an in-memory cache, so a resumed run reflects partial
// prior progress and external deletions.
type Store struct {
	Dir string
}

// NewStore creates the render directory if needed and returns the store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create render directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Path returns the full output path for a job's artifact.
func (s *Store) Path(j catalog.Job) string {
	return filepath.Join(s.Dir, ArtifactName(j))
}

// Exists reports whether the job's artifact is already present.
func (s *Store) Exists(j catalog.Job) bool {
	fi, err := os.Stat(s.Path(j))
	return err == nil && fi.Mode().IsRegular()
}

// AllExist reports whether every one of the texture's six artifacts is
// present. Used for the whole-texture fast skip.
func (s *Store) AllExist(item catalog.Item, tex catalog.SourceTexture) bool {
	for _, j := range catalog.Jobs(item, tex) {
		if !s.Exists(j) {
			return false
		}
	}
	return true
}

// Write persists rendered frame bytes at the job's artifact path. The write
// goes through a temp file in the same directory followed by a rename, so a
// crash never leaves a half-written artifact that a later run would skip.
func (s *Store) Write(j catalog.Job, data []byte) (string, error) {
	path := s.Path(j)
	tmp, err := os.CreateTemp(s.Dir, "."+ArtifactName(j)+".tmp*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return path, nil
}
