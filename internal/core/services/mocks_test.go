package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/vista/internal/core/domain"
)

// fakeConnector serves fixed documents and a caller-controlled change stream.
type fakeConnector struct {
	mu       sync.Mutex
	docs     []domain.RawDocument
	loadErr  error
	watchErr error
	changes  chan domain.RawDocumentChange
	loads    atomic.Int32
}

func (f *fakeConnector) Type() string { return "fake" }

func (f *fakeConnector) Validate(context.Context) error { return nil }

func (f *fakeConnector) Load(ctx context.Context) ([]domain.RawDocument, error) {
	f.loads.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]domain.RawDocument, len(f.docs))
	copy(out, f.docs)
	return out, nil
}

func (f *fakeConnector) setDocs(docs ...domain.RawDocument) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = docs
}

func (f *fakeConnector) Watch(context.Context) (<-chan domain.RawDocumentChange, error) {
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	return f.changes, nil
}

func (f *fakeConnector) Close() error { return nil }

// failingChunker rejects documents whose source is in fail.
type failingChunker struct {
	fail map[string]bool
	next interface {
		Process(context.Context, *domain.Document) ([]domain.Chunk, error)
	}
}

func (c *failingChunker) Name() string { return "failing" }

func (c *failingChunker) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if c.fail[doc.Source] {
		return nil, errors.New("chunk failed")
	}
	return c.next.Process(ctx, doc)
}

// failingIndex wraps nothing and always fails to build.
type failingIndex struct{}

func (failingIndex) Build(context.Context, []domain.Chunk) error { return errors.New("build failed") }

func (failingIndex) Search(context.Context, string, int) ([]domain.Hit, error) {
	return []domain.Hit{}, nil
}

func (failingIndex) Ready() bool { return false }

func (failingIndex) Len() int { return 0 }

func (failingIndex) Generation() int64 { return 0 }

// memoryPrompts is an in-memory PromptStore.
type memoryPrompts map[string]string

func (m memoryPrompts) Load(name string) (string, error) {
	if p, ok := m[name]; ok {
		return p, nil
	}
	return "", errors.New("no prompt")
}

func (m memoryPrompts) Reload() {}

// memoryConfig is an in-memory ConfigStore.
type memoryConfig struct {
	data map[string]any
}

func newMemoryConfig() *memoryConfig { return &memoryConfig{data: map[string]any{}} }

func (m *memoryConfig) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memoryConfig) GetString(key string) string {
	s, _ := m.data[key].(string)
	return s
}

func (m *memoryConfig) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (m *memoryConfig) GetFloat(key string) (float64, bool) {
	switch v := m.data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func (m *memoryConfig) GetBool(key string) bool {
	b, _ := m.data[key].(bool)
	return b
}

func (m *memoryConfig) GetStringSlice(key string) []string {
	switch v := m.data[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (m *memoryConfig) Set(key string, value any) error {
	m.data[key] = value
	return nil
}

func (m *memoryConfig) Load() error { return nil }

func (m *memoryConfig) Path() string { return "memory" }
