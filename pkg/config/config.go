// Package config loads shotgrid settings from a TOML file and the
// environment.
//
// The file lives at $XDG_CONFIG_HOME/shotgrid/config.toml (or
// ~/.config/shotgrid/config.toml) unless a path is given. Every key is
// optional; missing keys keep their defaults:
//
//	log_level = "info"
//
//	[grid]
//	total_spacing = { w = 150, h = 150 }
//	min_margin = 40
//	min_area = 20
//
//	[grouped]
//	total_spacing = { w = 150, h = 40 }
//	header_height = 22
//	max_iterations = 10
//
//	[render]
//	formats = ["svg", "png"]
//	scale = 1.0
//
//	[server]
//	addr = ":8080"
//	read_timeout = "15s"
//
//	[store]
//	backend = "sqlite"
//	dsn = "/var/lib/shotgrid/edits.db"
//
//	[cache]
//	backend = "redis"
//	namespace = "studio-a"
//	redis = { addr = "localhost:6379" }
//
// Environment variables override the file: SHOTGRID_ADDR, SHOTGRID_STORE,
// SHOTGRID_STORE_DSN, SHOTGRID_CACHE, SHOTGRID_REDIS_ADDR and
// SHOTGRID_LOG_LEVEL.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/shotgrid/pkg/cache"
	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/pipeline"
	"github.com/matzehuels/shotgrid/pkg/render"
	"github.com/matzehuels/shotgrid/pkg/shot"
	"github.com/matzehuels/shotgrid/pkg/store"
)

// AppName names the XDG directories.
const AppName = "shotgrid"

// Config is the complete settings tree.
type Config struct {
	LogLevel string `toml:"log_level"`

	Grid    layout.Params `toml:"grid"`
	Grouped layout.Params `toml:"grouped"`
	Render  Render        `toml:"render"`
	Server  Server        `toml:"server"`
	Store   store.Config  `toml:"store"`
	Cache   cache.Config  `toml:"cache"`
}

// Render holds the defaults for rendered artifacts.
type Render struct {
	Formats    []string `toml:"formats"`
	Scale      float64  `toml:"scale"`
	Captions   bool     `toml:"captions"`
	Thumbnails bool     `toml:"thumbnails"`
	Background string   `toml:"background"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`

	// ThumbDir resolves relative thumbnail paths of stored edits.
	ThumbDir string `toml:"thumb_dir"`
}

// Default returns the built-in settings. Directories follow the XDG base
// directory layout; they are empty when the home directory is unknown.
func Default() Config {
	cacheDir, _ := CacheDir()
	dataDir, _ := DataDir()
	storeDSN := ""
	if dataDir != "" {
		storeDSN = filepath.Join(dataDir, "edits")
	}
	return Config{
		LogLevel: "info",
		Grid:     layout.DefaultGridParams(),
		Grouped:  layout.DefaultGroupedParams(),
		Render: Render{
			Formats:    []string{render.FormatSVG},
			Scale:      1,
			Captions:   true,
			Background: "#1e1e1e",
		},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: store.Config{Backend: store.BackendFile, DSN: storeDSN},
		Cache: cache.Config{Backend: cache.BackendFile, Dir: cacheDir},
	}
}

// Load reads the config file at path on top of the defaults, applies
// environment overrides and validates the result. An empty path reads the
// default location, where a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) || explicit {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
	} else {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from SHOTGRID_* environment variables.
func (c *Config) ApplyEnv() {
	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set("SHOTGRID_ADDR", &c.Server.Addr)
	set("SHOTGRID_STORE", &c.Store.Backend)
	set("SHOTGRID_STORE_DSN", &c.Store.DSN)
	set("SHOTGRID_CACHE", &c.Cache.Backend)
	set("SHOTGRID_REDIS_ADDR", &c.Cache.Redis.Addr)
	set("SHOTGRID_LOG_LEVEL", &c.LogLevel)
}

// Validate checks the settings. Errors carry errors.ErrCodeInvalidInput.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if err := pipeline.ValidateParams(c.Grid); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "[grid]")
	}
	if err := pipeline.ValidateParams(c.Grouped); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "[grouped]")
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "[render]")
	}
	if _, err := c.Background(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "[render] background")
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render: scale must be positive")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server: addr is required")
	}
	switch c.Store.Backend {
	case "", store.BackendFile, store.BackendSQLite, store.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "store: unknown backend %q", c.Store.Backend)
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendRedis, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache: unknown backend %q", c.Cache.Backend)
	}
	return nil
}

// Background returns the parsed render background color.
func (c *Config) Background() (shot.Color, error) {
	if c.Render.Background == "" {
		return shot.Color{}, nil
	}
	return shot.ParseHex(c.Render.Background)
}

// Level returns the parsed log level.
func (c *Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, errors.Wrap(errors.ErrCodeInvalidInput, err, "log_level %q", c.LogLevel)
	}
	return lvl, nil
}
