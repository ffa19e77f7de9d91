package memory

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves prompt templates from memory.
type PromptStore struct {
	mu      sync.RWMutex
	initial map[string]string
	prompts map[string]string
}

// NewPromptStore creates a prompt store holding a copy of prompts.
func NewPromptStore(prompts map[string]string) *PromptStore {
	s := &PromptStore{initial: make(map[string]string, len(prompts))}
	for name, text := range prompts {
		s.initial[name] = text
	}
	s.Reload()
	return s
}

// Load returns the prompt template for the given name.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
	}
	return text, nil
}

// Set replaces one template until the next Reload.
func (s *PromptStore) Set(name, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[name] = text
}

// Reload restores the templates the store was created with.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = make(map[string]string, len(s.initial))
	for name, text := range s.initial {
		s.prompts[name] = text
	}
}
