package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/trezcool/registro/core"
	"github.com/trezcool/registro/core/gradebook"
)

var errPasswordMismatch = errors.New("passwords do not match")

func (cli *commandLine) settings(ctx context.Context, args []string) error {
	action, args := subcommand(args)
	switch action {
	case "show":
		cli.showSettings(cli.store.Settings())
		return nil

	case "period":
		fs := newFlagSet("settings period", cli.out)
		typ := fs.String("type", "", "Bimestre (4 periods) or Trimestre (3 periods).")
		yes := fs.Bool("yes", false, "Change even if some activities fall outside the new periods.")
		if err := parse(fs, args, "type"); err != nil {
			return err
		}
		return cli.setPeriodType(ctx, *typ, *yes)

	case "weight":
		fs := newFlagSet("settings weight", cli.out)
		letter := fs.String("letter", "", "AD, A, B or C.")
		value := fs.Float64("value", -1, "The letter's new weight.")
		batch := map[gradebook.GradeValue]*float64{
			gradebook.GradeAD: fs.Float64("ad", -1, "The new weight of AD."),
			gradebook.GradeA:  fs.Float64("a", -1, "The new weight of A."),
			gradebook.GradeB:  fs.Float64("b", -1, "The new weight of B."),
			gradebook.GradeC:  fs.Float64("c", -1, "The new weight of C."),
		}
		if err := parse(fs, args); err != nil {
			return err
		}

		// every edit is applied before the scale is validated
		settings := cli.store.Settings()
		var edited bool
		if *letter != "" {
			if *value < 0 {
				fs.Usage()
				return errHelp
			}
			g := gradebook.GradeValue(strings.ToUpper(core.CleanString(*letter)))
			if !g.IsLetter() {
				return core.NewValidationError(nil, core.FieldError{Field: "letter", Error: "letter must be one of AD, A, B or C"})
			}
			settings.Weights = settings.Weights.Set(g, *value)
			edited = true
		}
		for _, g := range gradebook.Letters {
			if w := *batch[g]; w >= 0 {
				settings.Weights = settings.Weights.Set(g, w)
				edited = true
			}
		}
		if !edited {
			fs.Usage()
			return errHelp
		}
		return cli.updateSettings(ctx, settings)

	case "password":
		pwd, err := cli.readPassword("New password:")
		if err != nil {
			return err
		}
		confirm, err := cli.readPassword("Confirm password:")
		if err != nil {
			return err
		}
		if string(pwd) != string(confirm) {
			return errPasswordMismatch
		}
		settings := cli.store.Settings()
		settings.Password = string(pwd)
		return cli.updateSettings(ctx, settings)
	}
	cli.printUsage()
	return errHelp
}

func (cli *commandLine) setPeriodType(ctx context.Context, typ string, yes bool) error {
	st := cli.store.State()
	pt := gradebook.PeriodType(core.CleanString(typ))
	for _, p := range gradebook.PeriodTypes {
		if strings.EqualFold(string(p), string(pt)) {
			pt = p
		}
	}

	var hidden int
	for _, a := range st.Activities {
		if !pt.ContainsPeriod(a.PeriodIndex) {
			hidden++
		}
	}
	if pt.IsValid() && hidden > 0 && !yes {
		cli.printf("%d activities fall outside the %d periods of %s and will not be shown; use -yes to confirm.\n",
			hidden, pt.PeriodCount(), pt)
		return errHelp
	}

	settings := st.Settings
	settings.PeriodType = pt
	return cli.updateSettings(ctx, settings)
}

func (cli *commandLine) updateSettings(ctx context.Context, settings gradebook.Settings) error {
	if err := settings.Validate(cli.validate); err != nil {
		return cli.validationError(err)
	}
	if err := cli.store.UpdateSettings(ctx, settings); err != nil {
		return err
	}
	cli.showSettings(settings)
	return nil
}

func (cli *commandLine) showSettings(s gradebook.Settings) {
	cli.printf("Period type: %s (%d periods)\n", s.PeriodType, s.PeriodType.PeriodCount())
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	for _, g := range gradebook.Letters {
		weight, _ := s.Weights.Of(g)
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", g, formatMean(weight))
	}
	_ = w.Flush()
}
