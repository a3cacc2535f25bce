package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
)

// Load reads, expands, decodes, defaults and normalizes the config at path.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	if _, err := loadEnvFiles(filepath.Dir(abs)); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load environment file").
			WithContext("path", filepath.Dir(abs)).
			Build()
	}

	// #nosec G304 - the config path is chosen by the user
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found (run `docsite init`)").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, withPath(err, path)
	}
	cfg.path = abs
	return cfg, nil
}

// Parse decodes config data that has not been read from a file. Relative
// paths resolve against the working directory.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.ConfigError("configuration file is empty").Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").
			Fatal().
			Build()
	}

	ApplyDefaults(&cfg)
	if problems := Normalize(&cfg); len(problems) > 0 {
		return nil, errors.ConfigError("invalid configuration").
			WithContext("problems", problems).
			Build()
	}
	return &cfg, nil
}

func withPath(err error, path string) error {
	if ce, ok := errors.AsClassified(err); ok {
		return ce.WithContext("path", path)
	}
	return err
}
