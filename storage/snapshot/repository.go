// Package snapshot persists the whole gradebook as one JSON document under a single key.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/registro/core"
	"github.com/trezcool/registro/core/gradebook"
	"github.com/trezcool/registro/storage/kv"
)

const exportDateLayout = "2006-01-02"

type repository struct {
	store  kv.Store
	key    string
	logger core.Logger
}

var _ gradebook.Repository = (*repository)(nil)

// Repository is a gradebook.Repository that can also export the raw saved bytes.
type Repository interface {
	gradebook.Repository
	Export(ctx context.Context, w io.Writer) error
}

func NewRepository(store kv.Store, key string, logger core.Logger) (Repository, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(store, "store"),
		vala.StringNotEmpty(key, "key"),
		vala.IsNotNil(logger, "logger"),
	).Check(); err != nil {
		return nil, err
	}
	return &repository{store: store, key: key, logger: logger}, nil
}

func (repo *repository) Load(ctx context.Context) (gradebook.State, error) {
	data, err := repo.store.Get(ctx, repo.key)
	if kv.IsNotFound(err) {
		return gradebook.State{}, gradebook.ErrNoSnapshot
	}
	if err != nil {
		return gradebook.State{}, errors.Wrap(err, "reading snapshot")
	}
	st, badDates, err := decode(data)
	if err != nil {
		return gradebook.State{}, err
	}
	if len(badDates) > 0 {
		repo.logger.Warn("unreadable activity dates, loaded as zero dates",
			map[string]interface{}{"activities": badDates})
	}
	return st, nil
}

func (repo *repository) Save(ctx context.Context, st gradebook.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	return errors.Wrap(repo.store.Set(ctx, repo.key, data), "writing snapshot")
}

// Export writes the saved document byte for byte. Nothing saved yet exports a default snapshot.
func (repo *repository) Export(ctx context.Context, w io.Writer) error {
	data, err := repo.store.Get(ctx, repo.key)
	if kv.IsNotFound(err) {
		data, err = Encode(gradebook.DefaultState())
	}
	if err != nil {
		return errors.Wrap(err, "reading snapshot")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "exporting snapshot")
}

// ExportFileName is the download name of a backup made on the given day.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("registro_backup_%s.json", t.Format(exportDateLayout))
}

// Encode marshals st with empty collections as [] rather than null.
func Encode(st gradebook.State) ([]byte, error) {
	data, err := json.MarshalIndent(st.Clone(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding snapshot")
	}
	return data, nil
}
