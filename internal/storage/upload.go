package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrUnknownUpload = errors.New("storage: unknown upload")
	ErrIncomplete    = errors.New("storage: upload incomplete")
)

// ProgressFunc observes upload progress after each appended chunk.
type ProgressFunc func(received, total int64)

type upload struct {
	mu         sync.Mutex
	id         string
	name       string
	total      int64 // 0 if the client did not declare a size
	received   int64
	file       *os.File
	tmpPath    string
	onProgress ProgressFunc
	done       bool
}

// Service implements resumable uploads onto local disk. A session is
// created, fed chunks, then completed; only completion makes the file
// retrievable, so an abandoned upload never leaves a visible blob.
type Service struct {
	dir     string
	tmpDir  string
	mu      sync.Mutex
	uploads map[string]*upload
}

func NewService(dir string) (*Service, error) {
	tmpDir := filepath.Join(dir, ".uploading")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dirs: %w", err)
	}

	return &Service{
		dir:     dir,
		tmpDir:  tmpDir,
		uploads: make(map[string]*upload),
	}, nil
}

// Dir returns the directory completed files are served from.
func (s *Service) Dir() string {
	return s.dir
}

// Begin opens an upload session. name only contributes its extension
// to the stored file; the stored name is the session id.
func (s *Service) Begin(name string, total int64, onProgress ProgressFunc) (string, error) {
	id := uuid.NewString()
	tmpPath := filepath.Join(s.tmpDir, id)

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("storage: create temp file: %w", err)
	}

	s.mu.Lock()
	s.uploads[id] = &upload{
		id:         id,
		name:       name,
		total:      total,
		file:       f,
		tmpPath:    tmpPath,
		onProgress: onProgress,
	}
	s.mu.Unlock()

	return id, nil
}

func (s *Service) get(id string) (*upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.uploads[id]
	if !ok {
		return nil, ErrUnknownUpload
	}
	return u, nil
}

// Append writes one chunk and returns the total bytes received so far.
func (s *Service) Append(id string, chunk io.Reader) (int64, error) {
	u, err := s.get(id)
	if err != nil {
		return 0, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.done {
		return u.received, errors.New("storage: upload already completed")
	}

	n, err := io.Copy(u.file, chunk)
	u.received += n
	if err != nil {
		return u.received, fmt.Errorf("storage: write chunk: %w", err)
	}

	if u.onProgress != nil {
		u.onProgress(u.received, u.total)
	}

	return u.received, nil
}

// Progress reports bytes received and the declared total (0 if none).
func (s *Service) Progress(id string) (int64, int64, error) {
	u, err := s.get(id)
	if err != nil {
		return 0, 0, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.received, u.total, nil
}

// Complete finalizes the upload and returns the retrievable URL path.
// If a size was declared, a short upload fails and the session stays
// open for more chunks.
func (s *Service) Complete(id string) (string, error) {
	u, err := s.get(id)
	if err != nil {
		return "", err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.total > 0 && u.received < u.total {
		return "", ErrIncomplete
	}

	if err := u.file.Close(); err != nil {
		return "", fmt.Errorf("storage: close temp file: %w", err)
	}

	finalName := u.id + filepath.Ext(u.name)
	finalPath := filepath.Join(s.dir, finalName)
	if err := os.Rename(u.tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("storage: finalize file: %w", err)
	}

	u.done = true
	s.mu.Lock()
	delete(s.uploads, id)
	s.mu.Unlock()

	return "/files/" + finalName, nil
}

// Abort discards the session and its partial data.
func (s *Service) Abort(id string) error {
	u, err := s.get(id)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.done = true
	_ = u.file.Close()
	_ = os.Remove(u.tmpPath)

	s.mu.Lock()
	delete(s.uploads, id)
	s.mu.Unlock()

	return nil
}
