// Package config loads dispatcher tunables and per-driver backend
// settings from a YAML/env-layered viper.Viper, with fsnotify-driven
// hot-reload — the same Init/LoadConfig/Watch shape ncobase/ncore's own
// data/config package uses, generalized from that package's server-wide
// Config (grpc, auth, storage, ...) down to this module's own fields:
// the open-file cap, taint policy, and one connection block per backend
// driver.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	config *Config
	path   string
	once   sync.Once
	mu     sync.Mutex
	v      *viper.Viper
)

// Config is the dispatcher-wide configuration.
type Config struct {
	AppName      string   `yaml:"app_name" json:"app_name"`
	Environment  string   `yaml:"environment" json:"environment"`
	MaxOpenFiles int      `yaml:"max_open_files" json:"max_open_files"`
	StrictTaint  bool     `yaml:"strict_taint" json:"strict_taint"`
	Breaker      bool     `yaml:"breaker" json:"breaker"`
	Logger       Logger   `yaml:"logger" json:"logger"`
	MySQL        DSNNode  `yaml:"mysql" json:"mysql"`
	Postgres     DSNNode  `yaml:"postgres" json:"postgres"`
	Redis        Redis    `yaml:"redis" json:"redis"`
	MongoDB      MongoDB  `yaml:"mongodb" json:"mongodb"`
	Elasticsearch Elasticsearch `yaml:"elasticsearch" json:"elasticsearch"`

	Viper *viper.Viper `yaml:"-" json:"-"`
}

func init() {
	flag.StringVar(&path, "conf", "", fmt.Sprintf("e.g: %s -conf ./config.yaml", os.Args[0]))
}

// Init initializes and loads the configuration exactly once.
func Init() (cfg *Config, err error) {
	v = viper.New()
	once.Do(func() {
		cfg, err = loadConfiguration()
		if err != nil {
			err = fmt.Errorf("failed to load configuration: %w", err)
		}
	})
	return cfg, err
}

// GetConfig returns the process-wide configuration, initializing it on first use.
func GetConfig() (*Config, error) {
	if config == nil {
		var err error
		config, err = Init()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize config: %w", err)
		}
	}
	return config, nil
}

func loadConfiguration() (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	config = cfg
	return cfg, nil
}

// LoadConfig reads configPath (or the default search path) into a Config.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		ex, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath("/etc/lookup")
		v.AddConfigPath("$HOME/.lookup")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(ex))
	}

	v.SetDefault("strict_taint", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{
		AppName:       v.GetString("app_name"),
		Environment:   v.GetString("environment"),
		MaxOpenFiles:  v.GetInt("max_open_files"),
		StrictTaint:   v.GetBool("strict_taint"),
		Breaker:       v.GetBool("breaker"),
		Logger:        getLoggerConfig(v),
		MySQL:         getDSNNode(v, "mysql"),
		Postgres:      getDSNNode(v, "postgres"),
		Redis:         getRedisConfig(v),
		MongoDB:       getMongoDBConfig(v),
		Elasticsearch: getElasticsearchConfig(v),
		Viper:         v,
	}
	if cfg.MaxOpenFiles == 0 {
		cfg.MaxOpenFiles = 128
	}

	return cfg, nil
}

// Reload re-reads the configuration file in place.
func Reload() error {
	mu.Lock()
	defer mu.Unlock()

	newConfig, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	config = newConfig
	return nil
}

// Watch wires fsnotify-driven hot-reload: every change to the config file
// reloads it and invokes callback with the fresh Config.
func Watch(callback func(*Config)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		if err := Reload(); err != nil {
			fmt.Printf("config: error reloading: %v\n", err)
			return
		}
		callback(config)
	})
}
