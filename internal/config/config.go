package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/maxmcd/cmk/internal/target"
	"github.com/maxmcd/cmk/pkg/fileutil"
	"github.com/pkg/errors"
)

// FileName is the optional project config read from the working directory.
const FileName = "cmk.toml"

type Config struct {
	BuildDir    string `toml:"build_dir"`
	DefaultTool string `toml:"default_tool"`
}

// Default is used for any value missing from cmk.toml, or when there isn't
// one.
func Default() Config {
	return Config{
		BuildDir:    target.DefaultBuildDir,
		DefaultTool: target.DefaultTool,
	}
}

func ParseConfig(r io.Reader) (cfg Config, err error) {
	md, err := toml.DecodeReader(r, &cfg)
	if err != nil {
		return cfg, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.Errorf("unknown config key %q", undecoded[0].String())
	}
	def := Default()
	if cfg.BuildDir == "" {
		cfg.BuildDir = def.BuildDir
	}
	if cfg.DefaultTool == "" {
		cfg.DefaultTool = def.DefaultTool
	}
	return cfg, nil
}

func ReadConfig(location string) (cfg Config, err error) {
	f, err := os.Open(location)
	if err != nil {
		return cfg, errors.Wrapf(err, "error loading %q", location)
	}
	defer f.Close()
	cfg, err = ParseConfig(f)
	return cfg, errors.Wrapf(err, "error decoding %q", location)
}

// Load reads cmk.toml from dir, falling back to defaults if it doesn't exist.
func Load(dir string) (Config, error) {
	location := filepath.Join(dir, FileName)
	if !fileutil.FileExists(location) {
		return Default(), nil
	}
	return ReadConfig(location)
}
