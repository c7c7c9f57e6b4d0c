package rules

import (
	"sync"

	"github.com/pvminh/tally/expense"
)

// Store enables manipulation of rules in memory. Safe for concurrent use,
// so the sync loop and the rules API can share it
type Store struct {
	rules Rules
	mu    sync.RWMutex
}

// NewStore creates a rules store from the given rules
func NewStore(rules Rules) *Store {
	return &Store{rules: rules}
}

// Apply transforms the given expense based on the current rules
func (s *Store) Apply(e *expense.Expense) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.rules.Apply(e)
}

// ApplyAll transforms the given expenses based on the current rules
func (s *Store) ApplyAll(expenses []expense.Expense) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range expenses {
		s.rules.Apply(&expenses[i])
	}
}

// Replace replaces the current rules with newRules
func (s *Store) Replace(newRules Rules) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = newRules
}

// CSV renders the current rules in the pattern,category file format
func (s *Store) CSV() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules.CSV()
}

func (s *Store) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules.String()
}
