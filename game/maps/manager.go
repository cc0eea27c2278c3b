package maps

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/wricardo/terminal-maze/game/engine"
)

// Extension is the file extension of map files in a catalog directory
const Extension = ".txt"

var ErrMapNotFound = errors.New("map not found")

// Info describes one map in the catalog
type Info struct {
	Filename     string `json:"filename"`
	Name         string `json:"name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ShortestPath int    `json:"shortest_path"`
	Solvable     bool   `json:"solvable"`
}

// Manager loads and caches the maps of one directory
type Manager struct {
	dir  string
	maps map[string]*engine.Map
	mu   sync.RWMutex
}

// NewManager creates a catalog over dir
func NewManager(dir string) (*Manager, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("map directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("map directory %s: not a directory", dir)
	}

	return &Manager{
		dir:  dir,
		maps: make(map[string]*engine.Map),
	}, nil
}

// Dir returns the catalog directory
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the file path of a map by name
func (m *Manager) Path(name string) string {
	if !strings.HasSuffix(name, Extension) {
		name += Extension
	}
	return filepath.Join(m.dir, name)
}

// Load returns a map by name, with or without the extension. Maps are
// parsed once and cached; callers must not modify the returned grid.
func (m *Manager) Load(name string) (*engine.Map, error) {
	name = strings.TrimSuffix(name, Extension)

	m.mu.RLock()
	if cached, ok := m.maps[name]; ok {
		m.mu.RUnlock()
		return cached, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cached, ok := m.maps[name]; ok {
		return cached, nil
	}

	loaded, err := engine.LoadMap(m.Path(name))
	if err != nil {
		if errors.Is(err, engine.ErrMapNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMapNotFound, name)
		}
		return nil, err
	}

	m.maps[name] = loaded
	return loaded, nil
}

// List returns every valid map in the directory sorted by name. Files that
// fail to parse are skipped.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read map directory: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}

		loaded, err := m.Load(entry.Name())
		if err != nil {
			log.Debugf("skipping %s: %v", entry.Name(), err)
			continue
		}

		shortest, solvable := engine.ShortestPath(loaded)
		infos = append(infos, Info{
			Filename:     entry.Name(),
			Name:         loaded.Name,
			Width:        loaded.Width,
			Height:       loaded.Height,
			ShortestPath: shortest,
			Solvable:     solvable,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
