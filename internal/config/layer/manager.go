package layer

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Errors returned by the manager.
var (
	// ErrLayerNotFound indicates no layer exists for the source.
	ErrLayerNotFound = errors.New("layer not found")

	// ErrReadOnly indicates modification was attempted on a read-only layer.
	ErrReadOnly = errors.New("configuration layer is read-only")
)

// Manager manages configuration layers and provides merged access.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer       // Sorted by priority (ascending)
	merged map[string]any // Cached merged result
	dirty  bool
}

// NewManager creates a new layer manager.
func NewManager() *Manager {
	return &Manager{dirty: true}
}

// AddLayer adds a layer, replacing any existing layer for the same source.
func (m *Manager) AddLayer(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.layers {
		if existing.Source == l.Source {
			m.layers[i] = l
			m.sortLayers()
			m.dirty = true
			return
		}
	}

	m.layers = append(m.layers, l)
	m.sortLayers()
	m.dirty = true
}

// Layer returns a copy of the layer for source.
func (m *Manager) Layer(source Source) (*Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l := m.find(source)
	if l == nil {
		return nil, false
	}
	return l.Clone(), true
}

// Sources returns the sources of all layers in priority order.
func (m *Manager) Sources() []Source {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sources := make([]Source, len(m.layers))
	for i, l := range m.layers {
		sources[i] = l.Source
	}
	return sources
}

// Merge combines all layers into a single configuration map.
// Results are cached until a layer changes.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dirty || m.merged == nil {
		result := make(map[string]any)
		for _, l := range m.layers {
			result = DeepMerge(result, l.Data)
		}
		m.merged = result
		m.dirty = false
	}
	return CloneMap(m.merged)
}

// Get returns the effective value for a setting path, searching layers
// from highest to lowest priority, and the source that provided it.
func (m *Manager) Get(path string) (any, Source, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if val, ok := GetByPath(m.layers[i].Data, path); ok {
			return cloneValue(val), m.layers[i].Source, true
		}
	}
	return nil, SourceBuiltin, false
}

// GetLayerValue returns a value from a specific layer.
func (m *Manager) GetLayerValue(source Source, path string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l := m.find(source)
	if l == nil {
		return nil, false
	}
	val, ok := GetByPath(l.Data, path)
	return cloneValue(val), ok
}

// Set sets a value in the layer for source.
func (m *Manager) Set(source Source, path string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.writable(source)
	if err != nil {
		return err
	}
	if l.Data == nil {
		l.Data = make(map[string]any)
	}
	SetByPath(l.Data, path, value)
	l.ModTime = time.Now()
	m.dirty = true
	return nil
}

// Delete removes a value from the layer for source.
// Returns true if the value existed.
func (m *Manager) Delete(source Source, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.writable(source)
	if err != nil {
		return false, err
	}
	if !DeleteByPath(l.Data, path) {
		return false, nil
	}
	l.ModTime = time.Now()
	m.dirty = true
	return true, nil
}

// Replace swaps the data of the layer for source, returning the old data.
// Read-only layers may be replaced; they are only protected from edits.
func (m *Manager) Replace(source Source, data map[string]any) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.find(source)
	if l == nil {
		return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, source)
	}
	old := l.Data
	l.Data = CloneMap(data)
	if l.Data == nil {
		l.Data = make(map[string]any)
	}
	l.ModTime = time.Now()
	m.dirty = true
	return old, nil
}

func (m *Manager) writable(source Source) (*Layer, error) {
	l := m.find(source)
	if l == nil {
		return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, source)
	}
	if l.ReadOnly {
		return nil, fmt.Errorf("%w: %s", ErrReadOnly, source)
	}
	return l, nil
}

// find must be called with the lock held.
func (m *Manager) find(source Source) *Layer {
	for _, l := range m.layers {
		if l.Source == source {
			return l
		}
	}
	return nil
}

// sortLayers sorts layers by priority (ascending).
func (m *Manager) sortLayers() {
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
}
