package util

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type MesherConfig struct {
	Workers        int      `yaml:"workers"`
	BlocksFile     string   `yaml:"blocks_file"`
	AtlasIndexFile string   `yaml:"atlas_index_file"`
	GridFile       string   `yaml:"grid_file"`
	LogLevel       string   `yaml:"log_level"`
	LogCategories  []string `yaml:"log_categories"`
	TileCacheHint  int      `yaml:"tile_cache_hint"`
}

func DefaultConfig() MesherConfig {
	return MesherConfig{
		Workers:        0,
		BlocksFile:     "assets/blocks.yaml",
		AtlasIndexFile: "assets/textures/blocks/minecraft/atlas.idx",
		GridFile:       "assets/maps/grid.nbt.zst",
		LogLevel:       "info",
		TileCacheHint:  256,
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep their
// default value.
func LoadConfig(filename string) (MesherConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", filename)
	}
	if err = cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", filename)
	}
	return cfg, nil
}

func (c MesherConfig) Validate() error {
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.TileCacheHint < 0 {
		return errors.Errorf("tile_cache_hint must not be negative, got %d", c.TileCacheHint)
	}
	if c.BlocksFile == "" {
		return errors.New("blocks_file is required")
	}
	if c.GridFile == "" {
		return errors.New("grid_file is required")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := ParseLogCategories(c.LogCategories); err != nil {
		return err
	}
	return nil
}

// ApplyLogging sets the global log filters from the config.
func (c MesherConfig) ApplyLogging() error {
	lvl, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return err
	}
	cat, err := ParseLogCategories(c.LogCategories)
	if err != nil {
		return err
	}
	SetLogLevel(lvl)
	SetLogCategories(cat)
	LogConfigInfo("[Config] log level " + c.LogLevel)
	return nil
}
