package task

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths helper for default/task/variant files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/bart/config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "tasks", "default.yaml")
}
func (p Paths) TaskPath(task string) string {
	return filepath.Join(p.BaseDir, "tasks", task+".yaml")
}
func (p Paths) VariantPath(task, variant string) string {
	return filepath.Join(p.BaseDir, "tasks", task, "variants", variant+".yaml")
}

// Loader reads YAML configs and merges default → task → variant.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: "task" or "task/variant"
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → task → variant (variant optional).
// It returns the merged RawConfig without clamping.
func (l *Loader) LoadMerged(task, variant string) (RawConfig, error) {
	if err := checkName(task); err != nil {
		return RawConfig{}, err
	}
	if err := checkName(variant); err != nil {
		return RawConfig{}, err
	}
	key := cacheKey(task, variant)
	l.mu.RLock()
	if cfg, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	var taskCfg, variantCfg RawConfig
	if task != "" {
		// task file may not exist
		if taskCfg, err = readYAML(l.paths.TaskPath(task)); err != nil {
			return RawConfig{}, fmt.Errorf("read task %s: %w", task, err)
		}
	}
	if task != "" && variant != "" {
		if variantCfg, err = readYAML(l.paths.VariantPath(task, variant)); err != nil {
			return RawConfig{}, fmt.Errorf("read variant %s/%s: %w", task, variant, err)
		}
	}

	// default <- task <- variant
	merged := mergeRaw(mergeRaw(defCfg, taskCfg), variantCfg)

	l.mu.Lock()
	l.cache[key] = merged
	l.mu.Unlock()

	return merged, nil
}

// Invalidate clears the cache. Call after the watcher sees a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// WatchedFiles lists the files whose edits should invalidate task/variant.
func (l *Loader) WatchedFiles(task, variant string) []string {
	files := []string{l.paths.DefaultPath()}
	if task != "" {
		files = append(files, l.paths.TaskPath(task))
		if variant != "" {
			files = append(files, l.paths.VariantPath(task, variant))
		}
	}
	return files
}

func cacheKey(task, variant string) string {
	if variant == "" {
		return task
	}
	return task + "/" + variant
}

// checkName keeps names from walking out of the config tree.
func checkName(name string) error {
	if name == "" {
		return nil
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: bad name %q", ErrInvalidConfig, name)
	}
	return nil
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// mergeRaw overlays b on a: any field b sets wins.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.Trials.Count != nil {
		out.Trials.Count = b.Trials.Count
	}
	if b.Pumps.Min != nil {
		out.Pumps.Min = b.Pumps.Min
	}
	if b.Pumps.Max != nil {
		out.Pumps.Max = b.Pumps.Max
	}

	switch {
	case out.Payout == nil && b.Payout != nil:
		c := *b.Payout
		out.Payout = &c
	case out.Payout != nil && b.Payout != nil:
		c := *out.Payout
		if b.Payout.PerPump != "" {
			c.PerPump = b.Payout.PerPump
		}
		if b.Payout.Currency != "" {
			c.Currency = b.Payout.Currency
		}
		out.Payout = &c
	}

	return out
}
