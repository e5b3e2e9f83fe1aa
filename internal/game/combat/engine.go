package combat

import (
	"fmt"
	"sort"
	"sync"
)

// Engine tracks every battle currently running, keyed by battle ID, and
// guarantees no actor is in two of them at once.
// All methods are safe for concurrent use.
type Engine struct {
	mu      sync.RWMutex
	battles map[string]*Battle
	// busy maps actor ID to the ID of the battle holding it.
	busy map[string]string
}

// NewEngine creates an empty Engine.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine() *Engine {
	return &Engine{
		battles: make(map[string]*Battle),
		busy:    make(map[string]string),
	}
}

// Start registers b.
//
// Precondition: b must not be nil.
// Postcondition: Returns ErrBattleExists if b's ID is already registered, or
// ErrActorBusy if any of its actors is held by another registered battle.
func (e *Engine) Start(b *Battle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.battles[b.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrBattleExists, b.ID())
	}
	for _, a := range b.turnOrder {
		if other, ok := e.busy[a.ID]; ok {
			return fmt.Errorf("%w: %s is in battle %s", ErrActorBusy, a.Name, other)
		}
	}
	e.battles[b.ID()] = b
	for _, a := range b.turnOrder {
		e.busy[a.ID] = b.ID()
	}
	return nil
}

// Get returns the registered battle with id.
//
// Postcondition: Returns (battle, true) if found, or (nil, false) otherwise.
func (e *Engine) Get(id string) (*Battle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.battles[id]
	return b, ok
}

// End unregisters the battle with id and releases its actors. Unknown IDs are ignored.
func (e *Engine) End(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.battles[id]
	if !ok {
		return
	}
	for _, a := range b.turnOrder {
		delete(e.busy, a.ID)
	}
	delete(e.battles, id)
}

// Active returns the IDs of all registered battles, sorted.
func (e *Engine) Active() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.battles))
	for id := range e.battles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
