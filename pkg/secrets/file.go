package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileProvider reads secrets from individual files in a directory, the way
// Kubernetes mounts them: the secret "credentials" is the contents of
// <dir>/credentials, trimmed of surrounding whitespace.
//
// File permissions must be 0600 or 0400. Values are cached after the first
// read; with watching enabled the cache is dropped whenever a file in the
// directory changes, so rotated credentials take effect without restart.
type FileProvider struct {
	dir string

	mu      sync.RWMutex
	cache   map[string]string
	watcher *fsnotify.Watcher
	stop    chan struct{}
}

// NewFileProvider creates a file-backed provider rooted at dir. With watch
// enabled the directory is monitored and cached values invalidated on
// change.
func NewFileProvider(dir string, watch bool) (*FileProvider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat secrets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets path is not a directory: %s", dir)
	}

	p := &FileProvider{
		dir:   dir,
		cache: make(map[string]string),
		stop:  make(chan struct{}),
	}

	if watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch secrets directory: %w", err)
		}
		p.watcher = watcher
		go p.watchLoop()
	}

	slog.Debug("file secret provider ready", "dir", dir, "watch", watch)
	return p, nil
}

// Lookup resolves the secret from <dir>/<name>. A missing file maps to
// ErrNotFound; unsafe permissions are an error, not a miss.
func (p *FileProvider) Lookup(_ context.Context, name string) (string, error) {
	p.mu.RLock()
	if value, ok := p.cache[name]; ok {
		p.mu.RUnlock()
		return value, nil
	}
	p.mu.RUnlock()

	path := filepath.Join(p.dir, name)
	if filepath.Dir(path) != filepath.Clean(p.dir) {
		return "", fmt.Errorf("invalid secret name: %q", name)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", name)
	}
	if mode := info.Mode().Perm(); mode != 0600 && mode != 0400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	data, err := os.ReadFile(path) // #nosec G304 - name confined to p.dir above
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}
	value := strings.TrimSpace(string(data))

	p.mu.Lock()
	p.cache[name] = value
	p.mu.Unlock()
	return value, nil
}

// Name returns the backend name.
func (p *FileProvider) Name() string { return "file" }

// Refresh drops the cache so every secret is re-read on next Lookup.
func (p *FileProvider) Refresh() {
	p.mu.Lock()
	p.cache = make(map[string]string)
	p.mu.Unlock()
}

// Close stops the watcher if one is running.
func (p *FileProvider) Close() error {
	if p.watcher == nil {
		return nil
	}
	close(p.stop)
	return p.watcher.Close()
}

func (p *FileProvider) watchLoop() {
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) != 0 {
				slog.Debug("secret file changed, dropping cache",
					"file", filepath.Base(event.Name), "op", event.Op.String())
				p.Refresh()
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("secret watcher error", "error", err)
		case <-p.stop:
			return
		}
	}
}
