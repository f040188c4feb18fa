package core

import (
	"fmt"
	"time"

	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	_configKeyLogging     = "logging"
	_configKeyServiceName = "service.name"

	// Per second, log the first _samplingInitial entries with a given message and every
	// _samplingThereafter-th one after that.
	_samplingInitial    = 100
	_samplingThereafter = 100
)

// LoggingConfig represents the logging configuration from the config files
type LoggingConfig struct {
	Level            string   `yaml:"level"`
	Development      bool     `yaml:"development"`
	Encoding         string   `yaml:"encoding"`
	OutputPaths      []string `yaml:"outputPaths"`
	ErrorOutputPaths []string `yaml:"errorOutputPaths"`
	// Sampling thins out repeated entries, such as a burst of ICE candidates.
	Sampling bool `yaml:"sampling"`
}

// LoggerModule provides the logger dependencies
var LoggerModule = fx.Options(
	fx.Provide(NewSugaredLogger),
	fx.Provide(NewLogger),
)

func NewLogger(sugar *zap.SugaredLogger) *zap.Logger {
	return sugar.Desugar()
}

// NewSugaredLogger creates a zap.SugaredLogger from the logging block. Every entry carries the
// configured service name.
func NewSugaredLogger(provider config.Provider) (*zap.SugaredLogger, error) {
	var cfg LoggingConfig
	if err := provider.Get(_configKeyLogging).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyLogging, err)
	}

	var service string
	if err := provider.Get(_configKeyServiceName).Populate(&service); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyServiceName, err)
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	sink, _, err := zap.Open(orDefault(cfg.OutputPaths, "stdout")...)
	if err != nil {
		return nil, err
	}
	errSink, _, err := zap.Open(orDefault(cfg.ErrorOutputPaths, "stderr")...)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(cfg), sink, level)
	if cfg.Sampling {
		core = zapcore.NewSamplerWithOptions(core, time.Second, _samplingInitial, _samplingThereafter)
	}

	opts := []zap.Option{zap.ErrorOutput(errSink)}
	if service != "" {
		opts = append(opts, zap.Fields(zap.String("service", service)))
	}
	if cfg.Development {
		opts = append(opts, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return zap.New(core, opts...).Sugar(), nil
}

func newEncoder(cfg LoggingConfig) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.Encoding == "console" {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

func orDefault(paths []string, fallback string) []string {
	if len(paths) == 0 {
		return []string{fallback}
	}
	return paths
}
