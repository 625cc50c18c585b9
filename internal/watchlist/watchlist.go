// Package watchlist manages the user's tracked symbols, persisted as a JSON
// state file so the list survives restarts.
package watchlist

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"sync"
)

var (
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrNotWatched    = errors.New("symbol not in watchlist")
)

// symbolPattern: uppercase ticker, 1-6 chars, dot allowed after the first
// character (BRK.B).
var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.]{0,5}$`)

// ValidSymbol reports whether s is a well-formed ticker symbol.
func ValidSymbol(s string) bool {
	return symbolPattern.MatchString(s)
}

// Manager handles watchlist operations with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager creates a Manager, loading state from disk or seeding it with
// the configured defaults on first run.
func NewManager(filePath string, defaults []string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if len(state.Symbols) == 0 {
		for _, s := range defaults {
			s = strings.ToUpper(strings.TrimSpace(s))
			if ValidSymbol(s) && !slices.Contains(state.Symbols, s) {
				state.Symbols = append(state.Symbols, s)
			}
		}
	}
	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Symbols returns a copy of the watched symbols in display order.
func (m *Manager) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.state.Symbols)
}

// Add validates and appends a symbol. Adding an already-watched symbol is a
// no-op. Validation happens here, before any fetch is ever attempted for
// the symbol.
func (m *Manager) Add(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !ValidSymbol(symbol) {
		return ErrInvalidSymbol
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.state.Symbols, symbol) {
		return nil
	}
	m.state.Symbols = append(m.state.Symbols, symbol)
	return m.save()
}

// Remove drops a symbol from the list.
func (m *Manager) Remove(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.state.Symbols, symbol)
	if i < 0 {
		return ErrNotWatched
	}
	m.state.Symbols = slices.Delete(m.state.Symbols, i, i+1)
	return m.save()
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
