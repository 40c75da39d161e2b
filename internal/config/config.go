package config

import (
	"errors"
	"io/fs"
	"os"
	"piratepoker-server/internal/util"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of every environment variable override
const EnvPrefix = "pirate"

// store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config provides configuration for Pirate Poker
type Config struct {
	// Store is either "memory" or "postgres"
	Store          string `yaml:"store" envconfig:"store"`
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Addr           string `yaml:"addr" envconfig:"addr"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	} `yaml:"jwt"`
	Redis struct {
		// Addr enables cross-instance table notifications when set
		Addr     string `yaml:"addr" envconfig:"addr"`
		Password string `yaml:"password" envconfig:"password"`
		DB       int    `yaml:"db" envconfig:"db"`
		Channel  string `yaml:"channel" envconfig:"channel"`
	} `yaml:"redis"`
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		Format            string `yaml:"format" envconfig:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	Game struct {
		StartingDoubloons int `yaml:"startingDoubloons" envconfig:"starting_doubloons"`
		ListLimit         int `yaml:"listLimit" envconfig:"list_limit"`
	} `yaml:"game"`
}

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() Config {
	var cfg Config
	cfg.Store = StoreMemory
	cfg.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	cfg.MigrationsPath = "./sql"
	cfg.Addr = ":5000"
	cfg.JWT.PublicKey = ".keys/public.pem"
	cfg.JWT.PrivateKey = ".keys/private.key"
	cfg.Redis.Channel = "piratepoker:tables"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Game.StartingDoubloons = 1000
	cfg.Game.ListLimit = 20

	return cfg
}

var (
	config Config
	loaded bool
	mu     sync.Mutex
)

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	mu.Lock()
	defer mu.Unlock()

	if !loaded {
		cfg, err := load()
		if err != nil {
			panic(err)
		}

		config = cfg
		loaded = true
	}

	return config
}

// Load will (re)load the configuration
func Load() error {
	cfg, err := load()
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	config = cfg
	loaded = true
	return nil
}

func load() (Config, error) {
	return LoadFile(util.Getenv("PIRATE_CONFIG_FILE", "config.yaml"))
}

// LoadFile reads the YAML file at path over the defaults, then applies environment overrides
// A missing file is not an error
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return Config{}, err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return Config{}, err
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
