package data

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ProcessedStore is the append-only record of links that were dispatched.
// One link per line. The file is not locked: run a single poller per file.
type ProcessedStore struct {
	path  string
	mu    sync.RWMutex
	links map[string]struct{}
}

func NewProcessedStore(path string) *ProcessedStore {
	return &ProcessedStore{
		path:  path,
		links: make(map[string]struct{}),
	}
}

func (s *ProcessedStore) Path() string {
	return s.path
}

// Load replaces the in-memory set with the file contents. A missing file is
// an empty set.
func (s *ProcessedStore) Load() error {
	links := make(map[string]struct{})

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.swap(links)
			return nil
		}
		return errors.Wrap(err, "open processed file")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		link := strings.TrimSpace(scanner.Text())
		if link == "" {
			continue
		}
		links[link] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read processed file")
	}

	s.swap(links)
	return nil
}

func (s *ProcessedStore) swap(links map[string]struct{}) {
	s.mu.Lock()
	s.links = links
	s.mu.Unlock()
}

func (s *ProcessedStore) Contains(link string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.links[strings.TrimSpace(link)]
	return ok
}

func (s *ProcessedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.links)
}

// Add appends the link to the file and the in-memory set. Links already in
// the set are not written again.
func (s *ProcessedStore) Add(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return errors.New("add processed link: empty link")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[link]; ok {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create processed file dir")
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return errors.Wrap(err, "open processed file for append")
	}
	terminated, err := endsWithNewline(f)
	if err != nil {
		f.Close()
		return errors.Wrap(err, "read processed file tail")
	}
	line := link + "\n"
	if !terminated {
		line = "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return errors.Wrap(err, "append processed link")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close processed file")
	}

	s.links[link] = struct{}{}
	return nil
}

// endsWithNewline reports whether f is empty or its last byte is a newline.
func endsWithNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] == '\n', nil
}
