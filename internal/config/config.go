// Package config loads bytemut settings from JSONC files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	CorpusDB   string   `json:"corpus_db"`
	Dictionary string   `json:"dictionary,omitempty"`
	OutDir     string   `json:"out_dir"`
	Seed       uint64   `json:"seed,omitempty"`
	Count      int      `json:"count"`
	Workers    int      `json:"workers,omitempty"`
	Strategies []string `json:"strategies,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd  string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	CorpusDBAbs   string `json:"-"`
	DictionaryAbs string `json:"-"` // Empty when no dictionary is configured
	OutDirAbs     string `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		CorpusDB: filepath.Join(".bytemut", "corpus.db"),
		OutDir:   "mutants",
		Count:    100,
	}
}

// FileName is the default project config file name.
const FileName = ".bytemut.json"

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/bytemut/config.json if set, otherwise ~/.config/bytemut/config.json.
// Returns empty string if home directory cannot be determined.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "bytemut", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "bytemut", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Env             map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/bytemut/config.json or $XDG_CONFIG_HOME/bytemut/config.json)
// 3. Project config file at default location (.bytemut.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
//
// Command flags are applied on top by the caller through [Config.Resolve].
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolve %s: %w", workDir, err)
		}

		workDir = abs
	}

	cfg := Default()

	globalCfg, gPath, err := loadGlobal(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = gPath
	cfg = merge(cfg, globalCfg)

	projectCfg, pPath, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = pPath
	cfg = merge(cfg, projectCfg)

	cfg.EffectiveCwd = workDir

	err = cfg.Resolve()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Resolve validates cfg and recomputes the absolute paths. Call it again
// after applying flag overrides.
func (c *Config) Resolve() error {
	err := validate(*c)
	if err != nil {
		return err
	}

	c.CorpusDBAbs = c.Abs(c.CorpusDB)
	c.OutDirAbs = c.Abs(c.OutDir)

	c.DictionaryAbs = ""
	if c.Dictionary != "" {
		c.DictionaryAbs = c.Abs(c.Dictionary)
	}

	return nil
}

// ParsedStrategies resolves the configured strategy names.
// Nil means no restriction.
func (c *Config) ParsedStrategies() ([]bytemut.Strategy, error) {
	if len(c.Strategies) == 0 {
		return nil, nil
	}

	out := make([]bytemut.Strategy, 0, len(c.Strategies))

	for _, name := range c.Strategies {
		s, err := bytemut.ParseStrategy(name)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

// Abs resolves path against the effective working directory.
func (c *Config) Abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(c.EffectiveCwd, path)
}

// loadGlobal loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobal(env map[string]string) (Config, string, error) {
	path := globalPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, path, nil
}

// loadProject loads the project config file (.bytemut.json) or an explicit config file.
// Returns the config, the path if loaded, and any error.
func loadProject(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		// Explicit config file - must exist
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, FileName)
	}

	cfg, loaded, err := loadFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, cfgFile, nil
}

// loadFile loads a config file. If mustExist is false, missing files return zero config.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	// An explicit "" would otherwise be indistinguishable from "unset".
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	for _, key := range []string{"corpus_db", "out_dir"} {
		if v, ok := raw[key].(string); ok && strings.TrimSpace(v) == "" {
			return Config{}, fmt.Errorf("%s cannot be empty", key)
		}
	}

	for _, name := range cfg.Strategies {
		_, err := bytemut.ParseStrategy(name)
		if err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.CorpusDB != "" {
		base.CorpusDB = overlay.CorpusDB
	}

	if overlay.Dictionary != "" {
		base.Dictionary = overlay.Dictionary
	}

	if overlay.OutDir != "" {
		base.OutDir = overlay.OutDir
	}

	if overlay.Seed != 0 {
		base.Seed = overlay.Seed
	}

	if overlay.Count != 0 {
		base.Count = overlay.Count
	}

	if overlay.Workers != 0 {
		base.Workers = overlay.Workers
	}

	if len(overlay.Strategies) > 0 {
		base.Strategies = overlay.Strategies
	}

	return base
}

func validate(cfg Config) error {
	if cfg.CorpusDB == "" {
		return ErrCorpusDBEmpty
	}

	if cfg.OutDir == "" {
		return ErrOutDirEmpty
	}

	if cfg.Count <= 0 {
		return fmt.Errorf("%w: %d", ErrCountInvalid, cfg.Count)
	}

	if cfg.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrWorkersInvalid, cfg.Workers)
	}

	return nil
}
