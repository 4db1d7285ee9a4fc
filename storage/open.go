// Package storage opens the key/value engine selected in the configuration.
package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/registro/core"
	"github.com/trezcool/registro/storage/kv"
	badgerkv "github.com/trezcool/registro/storage/kv/badger"
	filekv "github.com/trezcool/registro/storage/kv/file"
	inmemkv "github.com/trezcool/registro/storage/kv/inmem"
	rediskv "github.com/trezcool/registro/storage/kv/redis"
	sqlxkv "github.com/trezcool/registro/storage/kv/sqlx"
)

// Engines
const (
	EngineMemory   = "memory"
	EngineFile     = "file"
	EngineBadger   = "badger"
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineRedis    = "redis"
)

var ErrUnknownEngine = errors.New("unknown storage engine")

func Open(ctx context.Context, conf *core.Config) (kv.Store, error) {
	sc := conf.Storage
	switch sc.Engine {
	case EngineMemory:
		return inmemkv.NewStore(), nil
	case EngineFile, "":
		return filekv.NewStore(sc.Path)
	case EngineBadger:
		return badgerkv.NewStore(filepath.Join(sc.Path, "badger"))
	case EngineSQLite:
		if err := os.MkdirAll(sc.Path, 0o700); err != nil {
			return nil, errors.Wrap(err, "creating data directory")
		}
		return sqlxkv.NewStore(sqlxkv.DriverSQLite, sqlxkv.SQLiteDSN(filepath.Join(sc.Path, "registro.db")))
	case EnginePostgres:
		if sc.DSN == "" {
			return nil, errors.New("storage.dsn is required by the postgres engine")
		}
		return sqlxkv.NewStore(sqlxkv.DriverPostgres, sc.DSN)
	case EngineRedis:
		return rediskv.NewStore(ctx, rediskv.Options{
			Addr:     sc.Redis.Addr,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
			Prefix:   conf.AppName + ":",
		})
	}
	return nil, errors.Wrapf(ErrUnknownEngine, "%q", sc.Engine)
}
