package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/registro/core"
	"github.com/trezcool/registro/core/gradebook"
)

const clearGrade = "-"

func (cli *commandLine) grade(ctx context.Context, args []string) error {
	fs := newFlagSet("grade", cli.out)
	stuRef := fs.String("student", "", "The student's id or name.")
	actRef := fs.String("activity", "", "The activity's id or name.")
	subRef := fs.String("subject", "", "Restrict activity name lookup to this subject.")
	value := fs.String("value", "", "AD, A, B, C, or - to clear the grade.")
	if err := parse(fs, args, "student", "activity", "value"); err != nil {
		return err
	}

	val := strings.ToUpper(core.CleanString(*value))
	if val == clearGrade {
		val = string(gradebook.GradeNone)
	}
	if err := cli.validate.Var(val, "grade_letter"); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok && len(vErrs) > 0 {
			return core.NewValidationError(nil, core.FieldError{Field: "value", Error: vErrs[0].Translate(cli.translator)})
		}
		return err
	}

	st := cli.store.State()
	stu, err := cli.resolveStudent(st, *stuRef)
	if err != nil {
		return err
	}
	var subjectID string
	if *subRef != "" {
		sub, err := cli.resolveSubject(st, *subRef)
		if err != nil {
			return err
		}
		subjectID = sub.ID
	}
	act, err := cli.resolveActivity(st, subjectID, *actRef)
	if err != nil {
		return err
	}

	if err = cli.store.UpsertGrade(ctx, stu.ID, act.ID, gradebook.GradeValue(val)); err != nil {
		return cli.validationError(err)
	}
	cli.printf("%s - %s: %s\n", stu.Name, act.Name, gradebook.GradeValue(val))
	return nil
}

// gradebook prints the period grid of a subject: one row per student, one column per activity,
// and the student's average over the whole subject.
func (cli *commandLine) gradebook(_ context.Context, args []string) error {
	fs := newFlagSet("gradebook", cli.out)
	subRef := fs.String("subject", "", "The subject's id or name.")
	period := fs.Int("period", 1, "The period (1-based).")
	if err := parse(fs, args, "subject"); err != nil {
		return err
	}

	st := cli.store.State()
	sub, err := cli.resolveSubject(st, *subRef)
	if err != nil {
		return err
	}
	if !st.Settings.PeriodType.ContainsPeriod(*period - 1) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "period",
			Error: fmt.Sprintf("period must be between 1 and %d", st.Settings.PeriodType.PeriodCount()),
		})
	}
	acts := st.ActivitiesFor(sub.ID, *period-1)

	cli.printf("%s - %s %d\n", sub.Name, st.Settings.PeriodType, *period)
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	header := []string{"STUDENT"}
	for _, a := range acts {
		header = append(header, a.Name)
	}
	header = append(header, "AVERAGE")
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, s := range st.Students {
		row := []string{s.Name}
		for _, a := range acts {
			row = append(row, st.GradeOf(s.ID, a.ID).String())
		}
		avg := gradebook.GradeNone
		if res, ok := st.Average(s.ID, sub.ID); ok {
			avg = res.Letter
		}
		row = append(row, avg.String())
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}
