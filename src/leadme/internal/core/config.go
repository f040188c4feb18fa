package core

import (
	"fmt"
	"os"
	"path/filepath"

	uber_config "go.uber.org/config"
	"go.uber.org/fx"
)

const (
	_envConfigDir      = "LEADME_CONFIG_DIR"
	_envConfigOverride = "LEADME_CONFIG_OVERRIDE"
	_defaultConfigDir  = "src/leadme/config"
	_metaFile          = "meta.yaml"
)

// ConfigModule provides the configuration.
var ConfigModule = fx.Options(
	fx.Provide(NewConfig),
)

// Config wraps the YAML provider assembled from the files listed in meta.yaml.
type Config struct {
	provider uber_config.Provider
}

func (c Config) Get(path string) uber_config.Value {
	return c.provider.Get(path)
}

func (c Config) Name() string {
	return "config"
}

// NewConfig merges the files listed in meta.yaml, in order, followed by the file named in
// LEADME_CONFIG_OVERRIDE. Listed files that do not exist are skipped, so environment overlays
// are optional. A missing override file is an error.
func NewConfig() (uber_config.Provider, error) {
	configDir := getConfigDir()

	files, err := readMeta(configDir)
	if err != nil {
		return nil, err
	}

	var sources []string
	for _, file := range files {
		path := filepath.Join(configDir, file)
		if _, err := os.Stat(path); err == nil {
			sources = append(sources, path)
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", configDir)
	}

	if override := os.Getenv(_envConfigOverride); override != "" {
		if _, err := os.Stat(override); err != nil {
			return nil, fmt.Errorf("reading %s: %w", _envConfigOverride, err)
		}
		sources = append(sources, override)
	}

	options := make([]uber_config.YAMLOption, 0, len(sources)+1)
	for _, path := range sources {
		options = append(options, uber_config.File(path))
	}
	options = append(options, uber_config.Expand(os.LookupEnv))

	provider, err := uber_config.NewYAML(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return Config{provider: provider}, nil
}

// readMeta returns the file list of meta.yaml, with environment references expanded.
func readMeta(configDir string) ([]string, error) {
	meta, err := uber_config.NewYAML(
		uber_config.File(filepath.Join(configDir, _metaFile)),
		uber_config.Expand(os.LookupEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta configuration: %w", err)
	}

	var files []string
	if err := meta.Get("files").Populate(&files); err != nil {
		return nil, fmt.Errorf("failed to read files list from %s: %w", _metaFile, err)
	}
	return files, nil
}

func getConfigDir() string {
	if configDir := os.Getenv(_envConfigDir); configDir != "" {
		return configDir
	}
	// relative to the workspace root
	return _defaultConfigDir
}
