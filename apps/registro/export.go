package main

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/registro/storage/snapshot"
)

var nowFunc = time.Now // mockable

func (cli *commandLine) export(ctx context.Context, args []string) error {
	fs := newFlagSet("export", cli.out)
	path := fs.String("o", "", "Output file; - writes to stdout. Defaults to registro_backup_<date>.json.")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *path == "-" {
		return cli.repo.Export(ctx, cli.out)
	}
	if *path == "" {
		*path = snapshot.ExportFileName(nowFunc())
	}
	f, err := os.Create(*path)
	if err != nil {
		return errors.Wrap(err, "creating backup file")
	}
	if err = cli.repo.Export(ctx, f); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing backup file")
	}
	cli.printf("backup written to %s\n", *path)
	return nil
}
