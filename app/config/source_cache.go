package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type SourceCache struct {
	sourcesDir string
	cache      map[string]*Source
	mu         sync.RWMutex
}

func NewSourceCache(sourcesDir string) *SourceCache {
	return &SourceCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Source),
	}
}

func (sc *SourceCache) Run() error {
	if _, err := os.Stat(sc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(sc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		// Derive source name from filename (remove .yml extension)
		fileName := filepath.Base(file)
		sourceName := strings.TrimSuffix(fileName, ".yml")

		source, err := sc.LoadSource(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source configuration loaded", "source", sourceName, "enabled", source.Settings.Enabled, "sync_interval", source.Settings.SyncInterval)
	}

	return nil
}

func (sc *SourceCache) LoadSource(sourceName string) (*Source, error) {
	sourceFile := sc.getSourceFilePath(sourceName)
	source, err := sc.parseSource(sourceFile)
	if err != nil {
		return nil, err
	}

	// Set source name from parameter
	source.Name = sourceName

	// Store in cache
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache[source.Name] = source

	return source, nil
}

func (sc *SourceCache) GetSource(sourceName string) (*Source, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	source, ok := sc.cache[sourceName]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", sourceName)
	}
	return source, nil
}

func (sc *SourceCache) GetSources() map[string]*Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	sourcesCopy := make(map[string]*Source, len(sc.cache))
	for k, v := range sc.cache {
		sourcesCopy[k] = v
	}
	return sourcesCopy
}

func (sc *SourceCache) GetEnabledSources() map[string]*Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	enabledSources := make(map[string]*Source)
	for k, v := range sc.cache {
		if v.Settings.Enabled {
			enabledSources[k] = v
		}
	}
	return enabledSources
}

func (sc *SourceCache) GetSourceCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.cache)
}

func (sc *SourceCache) parseSource(sourceFile string) (*Source, error) {
	data, err := os.ReadFile(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Settings.SyncInterval == 0 {
		source.Settings.SyncInterval = 3600
	}
	if source.Settings.Timeout == 0 {
		source.Settings.Timeout = 30
	}
	if source.Settings.MaxPages == 0 {
		source.Settings.MaxPages = 10
	}

	return &source, nil
}

func (sc *SourceCache) getSourceFilePath(sourceName string) string {
	return filepath.Join(sc.sourcesDir, sourceName+".yml")
}
