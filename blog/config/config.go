// Package config loads the blog server configuration.
//
// Built-in defaults live in config_default.yaml, embedded in the binary. An
// optional override file, named by the -config flag or the QUILL_CONFIG
// environment variable, is deep-merged on top: the override wins key by key
// and nested sections merge recursively, so an override only lists what it
// changes.
package config

import (
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/quill/pkg/db"
	"github.com/dmitrymomot/quill/pkg/logger"
)

// EnvPath names the environment variable holding the override file path.
const EnvPath = "QUILL_CONFIG"

//go:embed config_default.yaml
var defaultYAML []byte

var (
	ErrReadConfig    = errors.New("config: failed to read override file")
	ErrParseConfig   = errors.New("config: failed to parse configuration")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config is the complete server configuration.
type Config struct {
	Server  Server        `yaml:"server"`
	Session Session       `yaml:"session"`
	Log     logger.Config `yaml:"log"`
	DB      db.Config     `yaml:"db"`
	Debug   bool          `yaml:"debug"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr          string `yaml:"addr"`
	StaticDir     string `yaml:"static_dir"`
	SecureCookies bool   `yaml:"secure_cookies"`
}

// Session configures the signed session cookie.
type Session struct {
	Secret     string `yaml:"secret"`
	CookieName string `yaml:"cookie_name"`
	MaxAge     int    `yaml:"max_age"`
}

// Default returns the embedded configuration without any override.
func Default() (Config, error) {
	return Parse(nil)
}

// Load reads the override file at path and merges it over the defaults.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Join(ErrReadConfig, err)
	}
	return Parse(data)
}

// Parse merges the override document over the defaults and decodes the result.
func Parse(override []byte) (Config, error) {
	defaults, err := decodeTree(defaultYAML)
	if err != nil {
		return Config{}, err
	}
	over, err := decodeTree(override)
	if err != nil {
		return Config{}, err
	}

	merged, err := yaml.Marshal(Merge(defaults, over))
	if err != nil {
		return Config{}, errors.Join(ErrParseConfig, err)
	}

	cfg := Config{DB: db.DefaultConfig()}
	if err := yaml.Unmarshal(merged, &cfg); err != nil {
		return Config{}, errors.Join(ErrParseConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("session.secret is empty"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session.cookie_name is empty"))
	}
	if c.Session.MaxAge <= 0 {
		errs = append(errs, fmt.Errorf("session.max_age must be positive, got %d", c.Session.MaxAge))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("db.name is empty"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// Merge returns defaults with override applied on top. Keys present in both
// take the override's value, except that two nested maps are merged
// recursively. Neither input is modified.
func Merge(defaults, override map[string]any) map[string]any {
	out := make(map[string]any, len(defaults)+len(override))
	maps.Copy(out, defaults)
	for k, ov := range override {
		dm, dok := out[k].(map[string]any)
		om, ook := ov.(map[string]any)
		if dok && ook {
			out[k] = Merge(dm, om)
			continue
		}
		out[k] = ov
	}
	return out
}

// Path returns the override file path from the -config flag in args, falling
// back to the QUILL_CONFIG environment variable.
func Path(args []string, getenv func(string) string) (string, error) {
	fs := flag.NewFlagSet("quill", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("config", "", "path to the configuration override file")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *path != "" {
		return *path, nil
	}
	return getenv(EnvPath), nil
}

func decodeTree(data []byte) (map[string]any, error) {
	tree := map[string]any{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, errors.Join(ErrParseConfig, err)
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return tree, nil
}
