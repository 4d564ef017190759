package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/escrow-market/rent"
	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(data), 0600))
	return p
}

func TestLoad(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
Logger:
  Level: debug
  Encoding: json
Storage:
  Type: leveldb
  LevelDBOptions:
    DataDirectoryPath: /tmp/listings
Rent:
  BaseFee: 1
  PerByteFee: 2
`))
		require.NoError(t, err)
		require.Equal(t, Logger{Level: "debug", Encoding: "json"}, cfg.Logger)
		require.Equal(t, dbconfig.LevelDB, cfg.Storage.Type)
		require.Equal(t, "/tmp/listings", cfg.Storage.LevelDBOptions.DataDirectoryPath)
		require.Equal(t, rent.Calculator{BaseFee: 1, PerByteFee: 2}, cfg.RentCalculator())

		l, err := cfg.NewLogger()
		require.NoError(t, err)
		require.NotNil(t, l)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
Storage:
  Type: boltdb
  BoltDBOptions:
    FilePath: ./listings.bolt
`))
		require.NoError(t, err)
		require.Equal(t, Default().Logger, cfg.Logger)
		require.Equal(t, rent.Default(), cfg.RentCalculator())
		require.Equal(t, "./listings.bolt", cfg.Storage.BoltDBOptions.FilePath)
	})

	for name, data := range map[string]string{
		"storage type":  "Storage:\n  Type: redis\n",
		"leveldb path":  "Storage:\n  Type: leveldb\n",
		"boltdb path":   "Storage:\n  Type: boltdb\n",
		"log encoding":  "Logger:\n  Encoding: xml\n",
		"log level":     "Logger:\n  Level: loud\n",
		"invalid YAML":  "Logger: [",
		"invalid value": "Rent:\n  BaseFee: -1\n",
	} {
		t.Run("invalid "+name, func(t *testing.T) {
			_, err := Load(writeConfig(t, data))
			require.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
	})
}
