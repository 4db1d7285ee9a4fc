package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/registro/core/gradebook"
)

func (cli *commandLine) subjects(ctx context.Context, args []string) error {
	action, args := subcommand(args)
	switch action {
	case "list":
		st := cli.store.State()
		w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tNAME\tACTIVITIES")
		for _, sub := range st.Subjects {
			var n int
			for _, a := range st.Activities {
				if a.SubjectID == sub.ID {
					n++
				}
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", sub.ID, sub.Name, n)
		}
		return w.Flush()

	case "add":
		fs := newFlagSet("subjects add", cli.out)
		name := fs.String("name", "", "The subject's name.")
		if err := parse(fs, args, "name"); err != nil {
			return err
		}
		ns := gradebook.NewSubject{Name: *name}
		if err := ns.Validate(cli.validate); err != nil {
			return cli.validationError(err)
		}
		sub, err := cli.store.CreateSubject(ctx, ns)
		if err != nil {
			return err
		}
		cli.printf("added subject %s (%s)\n", sub.Name, sub.ID)
		return nil

	case "remove":
		fs := newFlagSet("subjects remove", cli.out)
		ref := fs.String("subject", "", "The subject's id or name.")
		if err := parse(fs, args, "subject"); err != nil {
			return err
		}
		sub, err := cli.resolveSubject(cli.store.State(), *ref)
		if err != nil {
			return err
		}
		if err = cli.store.RemoveSubject(ctx, sub.ID); err != nil {
			return err
		}
		cli.printf("removed subject %s with its activities & grades\n", sub.Name)
		return nil
	}
	cli.printUsage()
	return errHelp
}
