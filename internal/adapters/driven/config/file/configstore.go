package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
	"github.com/custodia-labs/padctl/internal/logger"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// EnvConfigDir overrides the default configuration directory.
const EnvConfigDir = "PADCTL_CONFIG_DIR"

// valueKind is the TOML type a configuration key holds.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
)

var keyKinds = map[string]valueKind{
	domain.KeyControllerKind:      kindString,
	domain.KeyPressDurationMillis: kindInt,
	domain.KeyTransportOutput:     kindString,
	domain.KeyMaxReportsPerSecond: kindInt,
	domain.KeyPrompt:              kindString,
	domain.KeyColor:               kindBool,
	domain.KeyDefaultPeriodMillis: kindInt,
}

// ConfigStore is a TOML file configuration store.
// Nested tables are flattened to dotted keys when loaded and nested again
// when saved.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore creates a store for configDir/config.toml.
// If configDir is empty, $PADCTL_CONFIG_DIR or ~/.padctl is used.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		configDir = os.Getenv(EnvConfigDir)
	}
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		configDir = filepath.Join(home, ".padctl")
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(filepath.Clean(configDir), "config.toml"),
		data:     make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a configuration value by dotted key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// Set validates and stores a configuration value, then persists the file.
// Only keys listed by domain.ConfigKeys are accepted. String values are
// converted to the key's type, so command line input can be passed as is.
// The store is left unchanged when validation or saving fails.
func (s *ConfigStore) Set(key string, value any) error {
	value, err := coerce(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data[key]
	s.data[key] = value
	if err := s.commit(); err != nil {
		if existed {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// Unset removes a key so its default applies again, then persists the file.
func (s *ConfigStore) Unset(key string) error {
	if _, ok := keyKinds[key]; !ok {
		return unknownKey(key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data[key]
	if !existed {
		return nil
	}
	delete(s.data, key)
	if err := s.commit(); err != nil {
		s.data[key] = prev
		return err
	}
	return nil
}

// commit validates the data and saves it (caller must hold lock).
func (s *ConfigStore) commit() error {
	if _, err := sessionFrom(s.data); err != nil {
		return err
	}
	return s.save()
}

// save writes the configuration as nested TOML tables (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(nestMap(s.data))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load reads the configuration file. A missing file yields an empty config.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.replace(make(map[string]any))
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	s.replace(flattenMap(loaded, ""))
	return nil
}

func (s *ConfigStore) replace(data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// Session maps the stored keys onto the session defaults and validates the
// result. A key holding a value of the wrong type is an error.
func (s *ConfigStore) Session() (domain.SessionConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, err := sessionFrom(s.data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", s.filePath, err)
	}
	return cfg, nil
}

func sessionFrom(data map[string]any) (domain.SessionConfig, error) {
	cfg := domain.DefaultSessionConfig()

	if kind, ok, err := stringValue(data, domain.KeyControllerKind); err != nil {
		return cfg, err
	} else if ok {
		parsed, err := domain.ParseControllerKind(kind)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", domain.KeyControllerKind, err)
		}
		cfg.Controller = parsed
	}

	if ms, ok, err := intValue(data, domain.KeyPressDurationMillis); err != nil {
		return cfg, err
	} else if ok {
		cfg.PressDuration = time.Duration(ms) * time.Millisecond
	}

	if output, ok, err := stringValue(data, domain.KeyTransportOutput); err != nil {
		return cfg, err
	} else if ok {
		cfg.TransportOutput = output
	}

	if n, ok, err := intValue(data, domain.KeyMaxReportsPerSecond); err != nil {
		return cfg, err
	} else if ok {
		cfg.MaxReportsPerSecond = n
	}

	if prompt, ok, err := stringValue(data, domain.KeyPrompt); err != nil {
		return cfg, err
	} else if ok {
		cfg.Prompt = prompt
	}

	if color, ok := data[domain.KeyColor]; ok {
		b, isBool := color.(bool)
		if !isBool {
			return cfg, fmt.Errorf("%w: %s must be a boolean", domain.ErrInvalidInput, domain.KeyColor)
		}
		cfg.Color = b
	}

	if ms, ok, err := intValue(data, domain.KeyDefaultPeriodMillis); err != nil {
		return cfg, err
	} else if ok {
		cfg.DefaultLoopPeriod = time.Duration(ms) * time.Millisecond
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func stringValue(data map[string]any, key string) (string, bool, error) {
	val, ok := data[key]
	if !ok {
		return "", false, nil
	}
	str, isString := val.(string)
	if !isString {
		return "", false, fmt.Errorf("%w: %s must be a string", domain.ErrInvalidInput, key)
	}
	return str, true, nil
}

func intValue(data map[string]any, key string) (int, bool, error) {
	val, ok := data[key]
	if !ok {
		return 0, false, nil
	}
	n, isInt := toInt(val)
	if !isInt {
		return 0, false, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
	return n, true, nil
}

// coerce converts value to the type stored under key.
func coerce(key string, value any) (any, error) {
	kind, ok := keyKinds[key]
	if !ok {
		return nil, unknownKey(key)
	}
	raw, isString := value.(string)
	if !isString || kind == kindString {
		return value, nil
	}

	raw = strings.TrimSpace(raw)
	switch kind {
	case kindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		return n, nil
	default:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a boolean", domain.ErrInvalidInput, key)
		}
		return b, nil
	}
}

func unknownKey(key string) error {
	return fmt.Errorf("%w: unknown key %q, known keys: %s",
		domain.ErrInvalidInput, key, strings.Join(domain.ConfigKeys(), ", "))
}

// Watch reloads the configuration whenever the file is written and passes
// the resulting session settings to onChange. It blocks until ctx is done.
func (s *ConfigStore) Watch(ctx context.Context, onChange func(domain.SessionConfig, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so the directory is watched.
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.filePath), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.filePath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("config: %s changed (%s)", s.filePath, event.Op)
			if err := s.Load(); err != nil {
				onChange(domain.SessionConfig{}, err)
				continue
			}
			onChange(s.Session())

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config: watcher error: %v", err)
		}
	}
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// toInt converts TOML integers, which decode as int64, and Go ints.
func toInt(val any) (int, bool) {
	switch v := val.(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// nestMap is the inverse of flattenMap. A key that is both a value and a
// table prefix keeps the value.
func nestMap(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make(map[string]any)
	for _, key := range keys {
		value := flat[key]
		parts := strings.Split(key, ".")
		node := result
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				if _, taken := node[part]; taken {
					node = nil
					break
				}
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		if node != nil {
			node[parts[len(parts)-1]] = value
		}
	}

	return result
}
