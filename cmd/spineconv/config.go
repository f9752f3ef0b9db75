package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const defaultConfigFile = "spineconv.yaml"

type Config struct {
	OutputDir         string `yaml:"output_dir"`
	Overwrite         bool   `yaml:"overwrite"`
	KeepSplit         bool   `yaml:"keep_split"`
	WrapSkeletonBytes bool   `yaml:"wrap_skeleton_bytes"`

	Watch struct {
		Debounce time.Duration `yaml:"debounce"`
		Existing bool          `yaml:"existing"`
	} `yaml:"watch"`
}

// loadConfig reads confFile. An empty name falls back to spineconv.yaml in
// the working directory when it exists.
func loadConfig(confFile string) (*Config, error) {
	conf := &Config{}
	if confFile == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return conf, nil
		}
		confFile = defaultConfigFile
	}
	b, err := os.ReadFile(confFile)
	if err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalStrict(b, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
