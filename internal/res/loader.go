// Package res loads documents for the CLI from local paths, search
// directories, or HTTP URLs.
package res

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Resource represents a loaded document.
type Resource struct {
	URL  string
	Data []byte
}

// GetString returns the resource data as a string.
func (r *Resource) GetString() string {
	return string(r.Data)
}

// Loader resolves and loads documents. Relative paths resolve against
// the base path first, then each search path in order.
type Loader struct {
	// BasePath is the directory or URL relative references resolve
	// against.
	BasePath string

	cache     map[string]*Resource
	cacheLock sync.RWMutex

	searchPaths []string

	client *http.Client
}

// NewLoader creates a new document loader. basePath may be a file path
// (its directory becomes the base) or empty.
func NewLoader(basePath string) *Loader {
	if basePath != "" && !strings.Contains(basePath, "://") {
		if info, err := os.Stat(basePath); err == nil && !info.IsDir() {
			basePath = filepath.Dir(basePath)
		}
	}
	return &Loader{
		BasePath:    basePath,
		cache:       make(map[string]*Resource),
		searchPaths: []string{},
		client:      &http.Client{},
	}
}

// AddSearchPath adds a directory to search for documents.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a document from a URL or file path.
func (l *Loader) Load(ref string) (*Resource, error) {
	l.cacheLock.RLock()
	if res, ok := l.cache[ref]; ok {
		l.cacheLock.RUnlock()
		return res, nil
	}
	l.cacheLock.RUnlock()

	var res *Resource
	var err error
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		res, err = l.loadRemote(ref)
	} else {
		res, err = l.loadLocal(ref)
	}
	if err != nil {
		return nil, err
	}

	l.cacheLock.Lock()
	l.cache[ref] = res
	l.cacheLock.Unlock()
	return res, nil
}

// Invalidate drops a cached document so the next load rereads it. Watch
// mode calls this when the file changes on disk.
func (l *Loader) Invalidate(ref string) {
	l.cacheLock.Lock()
	delete(l.cache, ref)
	l.cacheLock.Unlock()
}

// loadRemote fetches a document over HTTP.
func (l *Loader) loadRemote(url string) (*Resource, error) {
	resp, err := l.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return &Resource{URL: url, Data: data}, nil
}

// loadLocal reads a document from disk, trying the path itself, then the
// base path, then each search path.
func (l *Loader) loadLocal(path string) (*Resource, error) {
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		if l.BasePath != "" {
			candidates = append(candidates, filepath.Join(l.BasePath, path))
		}
		for _, sp := range l.searchPaths {
			candidates = append(candidates, filepath.Join(sp, path))
		}
	}

	for _, cand := range candidates {
		data, err := os.ReadFile(cand)
		if err == nil {
			return &Resource{URL: cand, Data: data}, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", cand, err)
		}
	}
	return nil, fmt.Errorf("failed to find %s in any search path", path)
}
