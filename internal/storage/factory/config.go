package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/es"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/pg"
	"github.com/DjordjeVuckovic/wanda-blog/pkg/stringsutil"
)

type StorageConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	// Es configures the optional search mirror; nil disables it.
	Es *es.ClientConfig
}

func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Error("STORAGE_TYPE environment variable is not set")
		return nil, fmt.Errorf("STORAGE_TYPE environment variable is not set")
	}
	if storageType != storage.PG && storageType != storage.InMem {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			[]storage.Type{storage.PG, storage.InMem})
	}

	var pgCfg *pg.PoolConfig
	if storageType == storage.PG {
		pgCfg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if pgCfg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
		if raw := os.Getenv("PG_MAX_CONNS"); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 32)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid PG_MAX_CONNS value %q", raw)
			}
			pgCfg.MaxConns = int32(n)
		}
	}

	esCfg, err := loadSearchMirror()
	if err != nil {
		return nil, err
	}

	return &StorageConfig{
		Type: storageType,
		Pg:   pgCfg,
		Es:   esCfg,
	}, nil
}

func loadSearchMirror() (*es.ClientConfig, error) {
	addresses := stringsutil.SplitTrim(os.Getenv("ES_ADDRESSES"), ",")
	if len(addresses) == 0 {
		return nil, nil
	}

	cfg := &es.ClientConfig{
		Addresses: addresses,
		IndexName: os.Getenv("ES_INDEX_NAME"),
		Username:  os.Getenv("ES_USERNAME"),
		Password:  os.Getenv("ES_PASSWORD"),
	}
	if cfg.IndexName == "" {
		slog.Error("Elasticsearch configuration is incomplete", "addresses", cfg.Addresses)
		return nil, fmt.Errorf("elasticsearch configuration is incomplete: ES_INDEX_NAME is missing")
	}
	return cfg, nil
}
