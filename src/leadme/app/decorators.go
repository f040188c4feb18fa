package app

import (
	"fmt"
	"os"
	"path"

	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/core"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
)

type Context struct {
	Environment        string `yaml:"environment"`
	RuntimeEnvironment string `yaml:"runtimeEnvironment"`
}

const (
	// EnvLocal indicates that the service is running on a leader's machine against in-process stores.
	EnvLocal = "local"

	// EnvDevelopment indicates that the service is running against a development database.
	EnvDevelopment = "development"

	// Environment variables
	_envLeadmeEnvironment = "LEADME_ENVIRONMENT"

	_configKeyActiveClassFile = "activeClassFilePath"
	_activeClassDir           = "leadme"
	_activeClassFile          = "active_class.yaml"
)

func decorateEnvContext(env Context) Context {
	envValue := EnvLocal
	if os.Getenv(_envLeadmeEnvironment) == EnvDevelopment {
		envValue = EnvDevelopment
	}

	env.Environment = envValue
	env.RuntimeEnvironment = envValue
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Env Context
	Cfg config.Provider
	FS  fs.LeadmeFS
}

// decorateConfigProvider includes any steps that modify the config.Provider before it is used, or use its data for any startup related activities.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	combined, err := ensureLogFolder(p.Cfg, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder: %v", err)
	}

	combined, err = ensureActiveClassFile(combined, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring active class folder: %v", err)
	}

	return combined, nil
}

// Ensure that all configured logging output directories exist or create if necessary.
func ensureLogFolder(cfg config.Provider, fs fs.LeadmeFS) (config.Provider, error) {
	var c core.LoggingConfig
	if err := cfg.Get("logging").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %v", err)
	}

	for _, outputPath := range append(c.OutputPaths, c.ErrorOutputPaths...) {
		if outputPath == "stdout" || outputPath == "stderr" {
			continue
		}
		if err := ensureDir(fs, path.Dir(outputPath)); err != nil {
			return nil, fmt.Errorf("creating logging directory: %v", err)
		}
	}

	return cfg, nil
}

// ensureActiveClassFile defaults the active class file to the user cache directory when it is not
// configured, and creates the folder holding it.
func ensureActiveClassFile(cfg config.Provider, fs fs.LeadmeFS) (config.Provider, error) {
	var file string
	if err := cfg.Get(_configKeyActiveClassFile).Populate(&file); err != nil {
		return nil, fmt.Errorf("loading %q: %v", _configKeyActiveClassFile, err)
	}

	combined := cfg
	if file == "" {
		cacheDir, err := fs.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("locating user cache directory: %v", err)
		}
		file = path.Join(cacheDir, _activeClassDir, _activeClassFile)

		defaults, err := config.NewStaticProvider(map[string]interface{}{_configKeyActiveClassFile: file})
		if err != nil {
			return nil, err
		}
		if combined, err = config.NewProviderGroup(cfg.Name(), cfg, defaults); err != nil {
			return nil, err
		}
	}

	if err := ensureDir(fs, path.Dir(file)); err != nil {
		return nil, err
	}
	return combined, nil
}

func ensureDir(fs fs.LeadmeFS, dir string) error {
	exists, err := fs.DirExists(dir)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return fs.MkdirAll(dir)
}
