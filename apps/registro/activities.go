package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/registro/core/gradebook"
)

const activityDateLayout = "2006-01-02"

func (cli *commandLine) activities(ctx context.Context, args []string) error {
	action, args := subcommand(args)
	switch action {
	case "list":
		fs := newFlagSet("activities list", cli.out)
		subRef := fs.String("subject", "", "The subject's id or name.")
		period := fs.Int("period", 0, "Only list activities of this period (1-based).")
		if err := parse(fs, args, "subject"); err != nil {
			return err
		}
		st := cli.store.State()
		sub, err := cli.resolveSubject(st, *subRef)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tNAME\tPERIOD\tDATE")
		for _, a := range st.Activities {
			if a.SubjectID != sub.ID || (*period > 0 && a.PeriodIndex != *period-1) {
				continue
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", a.ID, a.Name, a.PeriodIndex+1, a.Date.Format(activityDateLayout))
		}
		return w.Flush()

	case "add":
		fs := newFlagSet("activities add", cli.out)
		subRef := fs.String("subject", "", "The subject's id or name.")
		period := fs.Int("period", 0, "The period (1-based).")
		name := fs.String("name", "", "The activity's name.")
		if err := parse(fs, args, "subject", "name"); err != nil {
			return err
		}
		if *period < 1 {
			fs.Usage()
			return errHelp
		}
		st := cli.store.State()
		sub, err := cli.resolveSubject(st, *subRef)
		if err != nil {
			return err
		}
		na := gradebook.NewActivity{Name: *name, SubjectID: sub.ID, PeriodIndex: *period - 1}
		if err = na.Validate(cli.validate, st.Settings); err != nil {
			return cli.validationError(err)
		}
		act, err := cli.store.CreateActivity(ctx, na)
		if err != nil {
			return cli.validationError(err)
		}
		cli.printf("added activity %s to %s, period %d (%s)\n", act.Name, sub.Name, *period, act.ID)
		return nil

	case "remove":
		fs := newFlagSet("activities remove", cli.out)
		ref := fs.String("activity", "", "The activity's id or name.")
		subRef := fs.String("subject", "", "Restrict name lookup to this subject.")
		if err := parse(fs, args, "activity"); err != nil {
			return err
		}
		st := cli.store.State()
		var subjectID string
		if *subRef != "" {
			sub, err := cli.resolveSubject(st, *subRef)
			if err != nil {
				return err
			}
			subjectID = sub.ID
		}
		act, err := cli.resolveActivity(st, subjectID, *ref)
		if err != nil {
			return err
		}
		if err = cli.store.RemoveActivity(ctx, act.ID); err != nil {
			return err
		}
		cli.printf("removed activity %s with its grades\n", act.Name)
		return nil
	}
	cli.printUsage()
	return errHelp
}
