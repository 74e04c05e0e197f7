package calc

import (
	"sync"

	"github.com/robinvdvleuten/ledgercalc/ledger"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Environment holds variable bindings. It lives for a whole run, so
// variables assigned in one command file are visible in the next.
type Environment struct {
	mu   sync.RWMutex
	vars map[string]ledger.Balance
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]ledger.Balance)}
}

// Get returns the balance bound to name (without the leading "$").
func (e *Environment) Get(name string) (ledger.Balance, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.vars[name]
	return b, ok
}

// Set binds name to value, replacing any previous binding.
func (e *Environment) Set(name string, value ledger.Balance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[name] = value
}

// Names returns the bound names in lexicographic order.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := maps.Keys(e.vars)
	slices.Sort(names)
	return names
}

// Len returns the number of bindings.
func (e *Environment) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.vars)
}
