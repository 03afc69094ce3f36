package dialog

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/SelfMadeDev/pytaibot/internal/fsstore"
)

// FileStore keeps one JSON file per thread under dir. Writes are atomic,
// so a reader never observes a partially written state.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Get(ctx context.Context, threadID string) (State, bool, error) {
	var st State
	ok, err := fsstore.ReadJSON(s.path(threadID), &st)
	if err != nil {
		return State{}, false, err
	}
	return st, ok, nil
}

func (s *FileStore) Save(ctx context.Context, threadID string, st State) error {
	return fsstore.WriteJSONAtomic(s.path(threadID), st, fsstore.FileOptions{})
}

func (s *FileStore) path(threadID string) string {
	return filepath.Join(s.dir, sanitizeThreadID(threadID)+".json")
}

// sanitizeThreadID keeps the filename flat even if the platform ever
// hands us a thread id with path characters in it.
func sanitizeThreadID(id string) string {
	if id == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
