package storage

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registro/core"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		engine  string
		wantErr bool
	}{
		{engine: EngineMemory},
		{engine: EngineFile},
		{engine: EngineBadger},
		{engine: EngineSQLite},
		{engine: EnginePostgres, wantErr: true}, // no DSN
		{engine: "mongo", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			conf := &core.Config{AppName: "Registro", Storage: core.StorageConfig{Engine: tt.engine, Path: t.TempDir()}}
			s, err := Open(ctx, conf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Set(ctx, "k", []byte("v")))
			assert.NoError(t, s.Close())
		})
	}
}

func TestOpen_unknownEngine(t *testing.T) {
	_, err := Open(context.Background(), &core.Config{Storage: core.StorageConfig{Engine: "mongo"}})
	assert.Equal(t, ErrUnknownEngine, errors.Cause(err))
}
