package tree

import (
	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/symbreak"
)

// Store collects emitted constraints in emission order. Names must be
// unique. The zero value is ready to use.
type Store struct {
	conss  []symbreak.Constraint
	byName map[string]int
}

var _ symbreak.Emitter = (*Store)(nil)

// EmitConstraint implements symbreak.Emitter.
func (s *Store) EmitConstraint(c symbreak.Constraint) error {
	if s.byName == nil {
		s.byName = make(map[string]int)
	}
	name := c.ConsName()
	if _, dup := s.byName[name]; dup {
		return symerr.New(symerr.ErrCodeInvalidInput, "duplicate constraint name %q", name)
	}
	s.byName[name] = len(s.conss)
	s.conss = append(s.conss, c)
	return nil
}

// Constraints returns all constraints in emission order.
func (s *Store) Constraints() []symbreak.Constraint { return s.conss }

// Len returns the number of constraints.
func (s *Store) Len() int { return len(s.conss) }

// Get returns the constraint with the given name.
func (s *Store) Get(name string) (symbreak.Constraint, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.conss[i], true
}

// ByKind returns the constraints of kind k.
func (s *Store) ByKind(k symbreak.Kind) []symbreak.Constraint {
	var out []symbreak.Constraint
	for _, c := range s.conss {
		if c.Kind() == k {
			out = append(out, c)
		}
	}
	return out
}

// Reset removes all constraints.
func (s *Store) Reset() {
	s.conss = nil
	s.byName = nil
}
