package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/trezcool/registro/core/gradebook"
)

func (cli *commandLine) students(ctx context.Context, args []string) error {
	action, args := subcommand(args)
	switch action {
	case "list":
		fs := newFlagSet("students list", cli.out)
		sorted := fs.Bool("sorted", false, "Sort by name instead of enrollment order.")
		if err := parse(fs, args); err != nil {
			return err
		}
		cli.listStudents(*sorted)
		return nil

	case "add":
		fs := newFlagSet("students add", cli.out)
		name := fs.String("name", "", "The student's full name.")
		grade := fs.String("grade", "", "The student's grade, eg. 3ro.")
		section := fs.String("section", "", "The student's section, eg. A.")
		if err := parse(fs, args, "name"); err != nil {
			return err
		}
		ns := gradebook.NewStudent{Name: *name, Grade: *grade, Section: *section}
		if err := ns.Validate(cli.validate); err != nil {
			return cli.validationError(err)
		}
		s, err := cli.store.CreateStudent(ctx, ns)
		if err != nil {
			return err
		}
		cli.printf("added student %s (%s)\n", s.Name, s.ID)
		return nil

	case "remove":
		fs := newFlagSet("students remove", cli.out)
		ref := fs.String("student", "", "The student's id or name.")
		if err := parse(fs, args, "student"); err != nil {
			return err
		}
		s, err := cli.resolveStudent(cli.store.State(), *ref)
		if err != nil {
			return err
		}
		if err = cli.store.RemoveStudent(ctx, s.ID); err != nil {
			return err
		}
		cli.printf("removed student %s\n", s.Name)
		return nil
	}
	cli.printUsage()
	return errHelp
}

func (cli *commandLine) listStudents(sorted bool) {
	students := cli.store.Students()
	if sorted {
		col := collate.New(language.Spanish, collate.IgnoreCase)
		sort.SliceStable(students, func(i, j int) bool {
			return col.CompareString(students[i].Name, students[j].Name) < 0
		})
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tGRADE\tSECTION")
	for _, s := range students {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Grade, s.Section)
	}
	_ = w.Flush()
}
