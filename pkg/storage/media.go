package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const mediaExt = ".jpg"

// Manager stores downloaded images for one profile and remembers which ids
// are already on disk.
type Manager struct {
	outputDir  string
	downloaded map[string]bool
	mu         sync.RWMutex
}

// NewManager creates outputDir and indexes the images already in it.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	m := &Manager{
		outputDir:  outputDir,
		downloaded: make(map[string]bool),
	}
	if err := m.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}
	return m, nil
}

func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != mediaExt {
			continue
		}
		m.downloaded[strings.TrimSuffix(entry.Name(), mediaExt)] = true
	}
	return nil
}

func (m *Manager) path(id string) string {
	return filepath.Join(m.outputDir, id+mediaExt)
}

// IsDownloaded reports whether the image for id is already stored.
func (m *Manager) IsDownloaded(id string) bool {
	m.mu.RLock()
	known := m.downloaded[id]
	m.mu.RUnlock()
	if known {
		return true
	}

	if _, err := os.Stat(m.path(id)); err != nil {
		return false
	}

	m.mu.Lock()
	m.downloaded[id] = true
	m.mu.Unlock()
	return true
}

// SaveMedia writes the image read from r under id.
func (m *Manager) SaveMedia(r io.Reader, id string) error {
	if err := writeAtomic(m.path(id), r); err != nil {
		return err
	}

	m.mu.Lock()
	m.downloaded[id] = true
	m.mu.Unlock()
	return nil
}

// OutputDir returns the directory images are written to.
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// DownloadedCount returns the number of images on disk.
func (m *Manager) DownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.downloaded)
}
