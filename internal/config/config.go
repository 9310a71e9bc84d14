package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const DefaultMaxConcurrency = 100

type Config struct {
	MaxConcurrency int
	NoProgress     bool
}

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "git-where"), nil
}

func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

func Load() (Config, error) {
	configFile, err := File()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	v.SetDefault("max_concurrency", DefaultMaxConcurrency)
	v.SetDefault("no_progress", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, err
		}
	}

	cfg := Config{
		MaxConcurrency: v.GetInt("max_concurrency"),
		NoProgress:     v.GetBool("no_progress"),
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}
	return cfg, nil
}

func Save(config Config) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile, err := File()
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("max_concurrency", config.MaxConcurrency)
	v.Set("no_progress", config.NoProgress)

	return v.WriteConfigAs(configFile)
}
