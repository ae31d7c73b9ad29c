package lodgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/achilleasa/autolod/log"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

var (
	ErrCorruptStore = errors.New("lodgen: corrupt override store")
)

// Store keeps per-asset LOD records in a YAML file keyed by asset path.
type Store struct {
	mutex   sync.RWMutex
	path    string
	entries map[string]LODData
}

// NewStore creates an empty store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path, entries: make(map[string]LODData)}
}

// LoadStore reads the store at path. A missing file yields an empty store.
func LoadStore(path string) (*Store, error) {
	s := NewStore(path)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the store contents with the file contents.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = nil, nil
	}
	if err != nil {
		return err
	}

	entries := make(map[string]LODData)
	if err = yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%w %q: %s", ErrCorruptStore, s.path, err)
	}

	s.mutex.Lock()
	s.entries = entries
	s.mutex.Unlock()
	return nil
}

// Save writes the store to its file.
func (s *Store) Save() error {
	s.mutex.RLock()
	data, err := yaml.Marshal(s.entries)
	s.mutex.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Get returns the record of an asset.
func (s *Store) Get(assetPath string) (LODData, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	d, ok := s.entries[assetPath]
	return d, ok
}

// Put replaces the record of an asset.
func (s *Store) Put(assetPath string, data LODData) {
	s.mutex.Lock()
	s.entries[assetPath] = data
	s.mutex.Unlock()
}

// Settings returns the effective import settings of an asset.
func (s *Store) Settings(assetPath string, defaults ImportSettings) ImportSettings {
	d, _ := s.Get(assetPath)
	return d.Effective(defaults)
}

// Assets returns the sorted asset paths with a record.
func (s *Store) Assets() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make([]string, 0, len(s.entries))
	for p := range s.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Watch reloads the store at path whenever the file is written, created or
// renamed and passes the result to fn. fn runs on the watcher goroutine. The
// watcher stops when ctx is cancelled.
func Watch(ctx context.Context, path string, fn func(*Store, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Editors replace files on save so the parent directory is watched.
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	logger := log.New("lodgen")
	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write ||
					event.Op&fsnotify.Create == fsnotify.Create ||
					event.Op&fsnotify.Rename == fsnotify.Rename {
					logger.Debugf("reloading LOD overrides from %q", path)
					fn(LoadStore(path))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warningf("watching %q failed: %s", path, err)
			}
		}
	}()
	return nil
}
