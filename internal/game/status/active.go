package status

import (
	"errors"
	"sort"
)

// Active is one status effect applied to a unit.
type Active struct {
	Def       *Def
	Remaining int
	// AbilityApplied is the ability shift actually applied on grant, after
	// clamping; the holder reverses exactly this much on expiry.
	AbilityApplied int

	seq int
}

// ActiveSet tracks all status effects on one unit.
// It is not safe for concurrent use; a battle resolves turns one at a time.
type ActiveSet struct {
	byName  map[string]*Active
	nextSeq int
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{byName: make(map[string]*Active)}
}

// Apply grants def. A status already present is not duplicated; its remaining
// duration becomes the larger of the two.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.Name) is true. Returns the instance and whether it is new.
func (s *ActiveSet) Apply(def *Def) (*Active, bool, error) {
	if def == nil {
		return nil, false, errors.New("status: Apply: def must not be nil")
	}
	if existing, ok := s.byName[def.Name]; ok {
		if def.Duration > existing.Remaining {
			existing.Remaining = def.Duration
		}
		return existing, false, nil
	}
	a := &Active{Def: def, Remaining: def.Duration, seq: s.nextSeq}
	s.nextSeq++
	s.byName[def.Name] = a
	return a, true, nil
}

// Remove deletes the named status and returns it, or nil if absent.
func (s *ActiveSet) Remove(name string) *Active {
	a, ok := s.byName[name]
	if !ok {
		return nil
	}
	delete(s.byName, name)
	return a
}

// Has reports whether the named status is active.
func (s *ActiveSet) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Len returns the number of active statuses.
func (s *ActiveSet) Len() int { return len(s.byName) }

// All returns the active statuses in resolution order.
func (s *ActiveSet) All() []*Active {
	out := make([]*Active, 0, len(s.byName))
	for _, a := range s.byName {
		out = append(out, a)
	}
	sortByPriority(out)
	return out
}

// Due returns the statuses that resolve at activation, in resolution order:
// ascending Priority, then order of application.
func (s *ActiveSet) Due(at Activation) []*Active {
	var out []*Active
	for _, a := range s.byName {
		if a.Def.Activation == at {
			out = append(out, a)
		}
	}
	sortByPriority(out)
	return out
}

// Tick decrements every remaining duration by one and removes the statuses
// that reach zero.
//
// Postcondition: No returned status is still in the set. The returned slice is
// in resolution order.
func (s *ActiveSet) Tick() []*Active {
	var expired []*Active
	for name, a := range s.byName {
		a.Remaining--
		if a.Remaining <= 0 {
			expired = append(expired, a)
			delete(s.byName, name)
		}
	}
	sortByPriority(expired)
	return expired
}

// Clear removes every status and returns them in resolution order.
func (s *ActiveSet) Clear() []*Active {
	out := s.All()
	s.byName = make(map[string]*Active)
	return out
}

func sortByPriority(as []*Active) {
	sort.Slice(as, func(i, j int) bool {
		if as[i].Def.Priority != as[j].Def.Priority {
			return as[i].Def.Priority < as[j].Def.Priority
		}
		return as[i].seq < as[j].seq
	})
}
