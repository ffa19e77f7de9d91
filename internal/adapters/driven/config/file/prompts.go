package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/vista/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves the instruction templates handed to the answering
// model. Each template lives in <dir>/<name>.txt and may be edited by the
// user; missing or unreadable files fall back to the built-in text.
//
// Nothing touches the disk until the first Load.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptCoachSystem: `You are Vista, a pragmatic leadership coach.
Apply the company's official policies first whenever they are clearly relevant, and cite the section you relied on by name.
When no relevant policy is provided, say so plainly, then give balanced guidance based on widely accepted management practice.

Rules:
- Never invent or paraphrase policy language that was not provided.
- Do not contradict a cited policy.
- Be concise, kind and action-oriented. Avoid legal advice.
- Flag sensitive cases (harassment, discrimination, safety, legal risk) for HR escalation.
- End with two or three concrete next steps.`,

	driven.PromptGroundedNote: `Relevant policy excerpts were found and provided below.`,

	driven.PromptGeneralNote: `No clearly relevant policy was found. Provide general coaching.`,

	driven.PromptStrictRefusal: `I couldn't find a policy section that directly covers this. With strict policy mode on, I won't answer without a policy reference. Try rephrasing, or check with HR or Legal.`,
}

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// PromptNames returns the names of every known template, sorted.
func PromptNames() []string {
	names := make([]string, 0, len(defaultPrompts))
	for name := range defaultPrompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPromptStore creates a file-based prompt store.
// If promptDir is empty, defaults to ~/.vista/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the template for name. Unknown names without a file on
// disk are an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if fallback, ok := defaultPrompts[name]; ok {
			return fallback, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the cache so the next Load reads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise writes any missing default files and the README.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0o700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for _, name := range PromptNames() {
		path := filepath.Join(s.promptDir, name+".txt")
		if err := writeIfMissing(path, defaultPrompts[name]+"\n"); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}

	if err := writeIfMissing(filepath.Join(s.promptDir, "README.md"), readme()); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("prompt file %q is empty", name)
	}
	return prompt, nil
}

func writeIfMissing(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

func readme() string {
	var b strings.Builder
	b.WriteString("# Vista Prompts\n\n")
	b.WriteString("Templates merged with policy excerpts before a question is sent to a\n")
	b.WriteString("language model. Edit a file to change the wording; delete it to restore\n")
	b.WriteString("the built-in text.\n\n## Files\n\n")
	for _, name := range PromptNames() {
		fmt.Fprintf(&b, "- `%s.txt`\n", name)
	}
	b.WriteString("\nChanges are picked up by the next command, or after `reload_policies`\n")
	b.WriteString("when running the MCP server.\n")
	return b.String()
}
