package terminal

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Manager tracks terminals and the active one.
type Manager struct {
	mu        sync.RWMutex
	terminals map[string]*Terminal
	active    string

	closed atomic.Bool
}

// NewManager creates a new terminal manager.
func NewManager() *Manager {
	return &Manager{
		terminals: make(map[string]*Terminal),
	}
}

// Create creates a terminal and makes it active.
func (m *Manager) Create(opts Options) (*Terminal, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}

	term, err := newTerminal(opts)
	if err != nil {
		return nil, err
	}

	originalOnClose := term.onClose
	term.onClose = func() {
		m.remove(term.id)
		if originalOnClose != nil {
			originalOnClose()
		}
	}

	m.mu.Lock()
	m.terminals[term.id] = term
	m.active = term.id
	m.mu.Unlock()

	return term, nil
}

// Get returns a terminal by ID.
func (m *Manager) Get(id string) (*Terminal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	term, ok := m.terminals[id]
	return term, ok
}

// Active returns the active terminal.
func (m *Manager) Active() (*Terminal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	term, ok := m.terminals[m.active]
	return term, ok
}

// SetActive makes the terminal with the given ID active.
func (m *Manager) SetActive(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.terminals[id]; !ok {
		return ErrTerminalNotFound
	}
	m.active = id
	return nil
}

// SendText sends text to the active terminal.
func (m *Manager) SendText(text string, addNewline bool) error {
	term, ok := m.Active()
	if !ok {
		return ErrNoActiveTerminal
	}
	return term.SendText(text, addNewline)
}

// List returns all terminals in creation order.
func (m *Manager) List() []*Terminal {
	m.mu.RLock()
	result := make([]*Terminal, 0, len(m.terminals))
	for _, term := range m.terminals {
		result = append(result, term)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].created.Before(result[j].created)
	})
	return result
}

// Count returns the number of terminals.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.terminals)
}

// Close closes a terminal by ID.
func (m *Manager) Close(id string) error {
	term, ok := m.Get(id)
	if !ok {
		return ErrTerminalNotFound
	}
	return term.Close()
}

// Shutdown closes every terminal, killing commands that have not exited
// within timeout.
func (m *Manager) Shutdown(timeout time.Duration) {
	if m.closed.Swap(true) {
		return
	}

	terminals := m.List()

	var wg sync.WaitGroup
	for _, term := range terminals {
		wg.Add(1)
		go func(t *Terminal) {
			defer wg.Done()
			_ = t.Close()
		}(term)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		for _, term := range terminals {
			term.Kill()
		}
		<-done
	}
}

// remove drops a terminal; the most recently created remaining terminal
// becomes active if the removed one was.
func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.terminals, id)
	if m.active != id {
		return
	}

	m.active = ""
	var newest time.Time
	for tid, term := range m.terminals {
		if term.created.After(newest) {
			newest = term.created
			m.active = tid
		}
	}
}
