package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

var log = logger.With("prompts")

//go:embed prompts/*.txt prompts/README.md
var promptFS embed.FS

// defaultPrompts maps prompt names to the built-in templates.
var defaultPrompts = loadDefaults()

func loadDefaults() map[string]string {
	entries, err := fs.Glob(promptFS, "prompts/*.txt")
	if err != nil {
		panic(err)
	}
	out := make(map[string]string, len(entries))
	for _, path := range entries {
		data, err := promptFS.ReadFile(path)
		if err != nil {
			panic(err)
		}
		name := strings.TrimSuffix(filepath.Base(path), ".txt")
		out[name] = strings.TrimSpace(string(data))
	}
	return out
}

// PromptStore serves prompt templates that users may edit in a directory on
// disk. The directory is populated with the defaults on first use; files
// already there are never overwritten. A file whose %s count differs from
// the default is ignored so a bad edit cannot break generation.
type PromptStore struct {
	dir string

	initOnce sync.Once
	initErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore uses ~/.lexa/prompts when dir is empty. No I/O happens
// until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".lexa", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the template called name.
func (s *PromptStore) Load(name string) (string, error) {
	def, known := defaultPrompts[name]

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if known {
			return def, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.read(name)
	switch {
	case err != nil && !known:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	case err != nil:
		prompt = def
	case known && verbs(prompt) != verbs(def):
		log.Warn("%s.txt has %d placeholders, expected %d; using the built-in prompt", name, verbs(prompt), verbs(def))
		prompt = def
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

// Reload drops cached templates so edits on disk are picked up.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	entries, err := fs.ReadDir(promptFS, "prompts")
	if err != nil {
		s.initErr = err
		return
	}
	for _, entry := range entries {
		target := filepath.Join(s.dir, entry.Name())
		if _, err := os.Stat(target); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		data, err := promptFS.ReadFile("prompts/" + entry.Name())
		if err != nil {
			s.initErr = err
			return
		}
		if err := os.WriteFile(target, data, 0o600); err != nil {
			s.initErr = fmt.Errorf("create default prompt %s: %w", entry.Name(), err)
			return
		}
	}
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// verbs counts %s placeholders.
func verbs(tmpl string) int {
	return strings.Count(tmpl, "%s")
}
