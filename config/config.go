/*
Package config provides configuration of the marketplace ledger node.

Configuration is read from the YAML file:

	Logger:
	  Level: info         # debug, info, warn, error
	  Encoding: console   # console or json
	Storage:
	  Type: leveldb       # inmemory, leveldb or boltdb
	  LevelDBOptions:
	    DataDirectoryPath: ./data/listings
	Rent:
	  BaseFee: 2500
	  PerByteFee: 400

Omitted values are replaced with defaults (see Default).
*/
package config

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/escrow-market/rent"
	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is a root configuration section.
type Config struct {
	Logger  Logger                   `yaml:"Logger"`
	Storage dbconfig.DBConfiguration `yaml:"Storage"`
	Rent    Rent                     `yaml:"Rent"`
}

// Logger configures logging.
type Logger struct {
	Level    string `yaml:"Level"`
	Encoding string `yaml:"Encoding"`
}

// Rent configures listing rent.
type Rent struct {
	BaseFee    uint64 `yaml:"BaseFee"`
	PerByteFee uint64 `yaml:"PerByteFee"`
}

// Default returns default configuration: info-level console logger, in-memory
// storage and default rent.
func Default() Config {
	return Config{
		Logger: Logger{
			Level:    "info",
			Encoding: "console",
		},
		Storage: dbconfig.DBConfiguration{
			Type: dbconfig.InMemoryDB,
		},
		Rent: Rent{
			BaseFee:    rent.DefaultBaseFee,
			PerByteFee: rent.DefaultPerByteFee,
		},
	}
}

// Load reads configuration from the YAML file. Omitted values are taken from
// Default.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	err = yaml.Unmarshal(b, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode YAML config: %w", err)
	}

	return cfg, cfg.validate()
}

func (x Config) validate() error {
	switch x.Storage.Type {
	case dbconfig.InMemoryDB:
	case dbconfig.LevelDB:
		if x.Storage.LevelDBOptions.DataDirectoryPath == "" {
			return fmt.Errorf("missing LevelDB data directory path")
		}
	case dbconfig.BoltDB:
		if x.Storage.BoltDBOptions.FilePath == "" {
			return fmt.Errorf("missing BoltDB file path")
		}
	default:
		return fmt.Errorf("unsupported storage type '%s'", x.Storage.Type)
	}

	switch x.Logger.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log encoding '%s'", x.Logger.Encoding)
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(x.Logger.Level)); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}

// RentCalculator returns rent.Calculator configured by the Rent section.
func (x Config) RentCalculator() rent.Calculator {
	return rent.Calculator{
		BaseFee:    x.Rent.BaseFee,
		PerByteFee: x.Rent.PerByteFee,
	}
}

// NewLogger builds zap.Logger configured by the Logger section.
func (x Config) NewLogger() (*zap.Logger, error) {
	var lvl zapcore.Level

	err := lvl.UnmarshalText([]byte(x.Logger.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cc := zap.NewProductionConfig()
	cc.Level = zap.NewAtomicLevelAt(lvl)
	cc.Encoding = x.Logger.Encoding
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Sampling = nil

	return cc.Build()
}
