package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driven"
	"github.com/custodia-labs/vista/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// mimeFallbacks covers extensions the platform MIME table may not know.
var mimeFallbacks = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
}

// changeBuffer holds changes a slow consumer has not picked up yet.
const changeBuffer = 64

// Connector reads policy files from a single directory.
// Subdirectories and hidden files are not read.
type Connector struct {
	rootPath   string
	extensions []string

	mu       sync.Mutex
	closed   bool
	watchers []*fsnotify.Watcher
}

// Option configures a Connector.
type Option func(*Connector)

// WithExtensions restricts the connector to files with the given
// extensions. Matching is case-insensitive; a leading dot is optional.
// An empty list keeps the defaults.
func WithExtensions(exts ...string) Option {
	return func(c *Connector) {
		var out []string
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			out = append(out, ext)
		}
		if len(out) > 0 {
			c.extensions = out
		}
	}
}

// New creates a connector rooted at rootPath. Only Markdown files are
// read unless WithExtensions says otherwise.
func New(rootPath string, opts ...Option) *Connector {
	c := &Connector{
		rootPath:   rootPath,
		extensions: domain.DefaultPolicyExtensions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "filesystem"
}

// RootPath returns the directory being read.
func (c *Connector) RootPath() string {
	return c.rootPath
}

// Extensions returns the accepted file extensions.
func (c *Connector) Extensions() []string {
	out := make([]string, len(c.extensions))
	copy(out, c.extensions)
	return out
}

// Validate checks that the root path exists and is a directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.checkRoot()
}

func (c *Connector) checkRoot() error {
	info, err := os.Stat(c.rootPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("root path error: %s does not exist: %w", c.rootPath, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory: %w", c.rootPath, domain.ErrInvalidInput)
	}
	return nil
}

// Load reads every matching file in the root directory, sorted by file
// name. A root that is missing, not a directory or unreadable yields no
// documents and no error. Failing to read a listed file is an error.
func (c *Connector) Load(ctx context.Context) ([]domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Policy directory %s does not exist, loading nothing", c.rootPath)
		} else {
			logger.Warn("Policy directory %s is unusable, loading nothing: %v", c.rootPath, err)
		}
		return []domain.RawDocument{}, nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) || !c.accepts(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	docs := make([]domain.RawDocument, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(c.rootPath, name)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		docs = append(docs, domain.RawDocument{
			Source:   sourceKey(name),
			URI:      path,
			MIMEType: detectMIMEType(name),
			Content:  content,
		})
	}

	logger.Debug("Loaded %d policy files from %s", len(docs), c.rootPath)
	return docs, nil
}

// Watch reports changes to matching files in the root directory.
// The returned channel closes when ctx is cancelled or the connector
// is closed.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("watch: %w", domain.ErrConnectorClosed)
	}
	if err := c.checkRoot(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(c.rootPath); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, err)
	}
	c.watchers = append(c.watchers, watcher)

	changes := make(chan domain.RawDocumentChange, changeBuffer)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watching %s: %v", c.rootPath, err)
			}
		}
	}()

	logger.Debug("Watching %s for policy changes", c.rootPath)
	return changes, nil
}

// handleFsEvent maps a filesystem event to a document change, or nil when
// the event is irrelevant.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.RawDocumentChange {
	rel, err := filepath.Rel(c.rootPath, event.Name)
	if err != nil {
		rel = filepath.Base(event.Name)
	}
	if isHidden(rel) || !c.accepts(event.Name) {
		return nil
	}

	var changeType domain.ChangeType
	switch {
	case event.Has(fsnotify.Create):
		changeType = domain.ChangeCreated
	case event.Has(fsnotify.Write):
		changeType = domain.ChangeUpdated
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		changeType = domain.ChangeDeleted
	default:
		return nil
	}

	if changeType != domain.ChangeDeleted {
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil
		}
	}

	return &domain.RawDocumentChange{Type: changeType, URI: event.Name}
}

// Close stops all watchers. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for _, w := range c.watchers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.watchers = nil
	return errors.Join(errs...)
}

func (c *Connector) accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range c.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// sourceKey returns the file name without its extension.
func sourceKey(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}

// detectMIMEType returns the content type for a file name without
// parameters. Unknown extensions map to application/octet-stream.
func detectMIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "text/plain"
	}
	if t, ok := mimeFallbacks[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return strings.TrimSpace(t)
	}
	return "application/octet-stream"
}
