package main

import (
	"context"
	"fmt"

	feedbacksvc "github.com/trezcool/registro/services/feedback"
)

func (cli *commandLine) report(ctx context.Context, args []string) error {
	fs := newFlagSet("report", cli.out)
	stuRef := fs.String("student", "", "The student's id or name.")
	subRef := fs.String("subject", "", "The subject's id or name.")
	withFeedback := fs.Bool("feedback", false, "Also generate an AI feedback comment.")
	if err := parse(fs, args, "student", "subject"); err != nil {
		return err
	}

	st := cli.store.State()
	stu, err := cli.resolveStudent(st, *stuRef)
	if err != nil {
		return err
	}
	sub, err := cli.resolveSubject(st, *subRef)
	if err != nil {
		return err
	}

	rep := cli.store.Report(stu.ID, sub.ID)
	cli.printf("Student: %s\n", rep.Student.Name)
	if rep.Student.Grade != "" || rep.Student.Section != "" {
		cli.printf("Grade: %s %s\n", rep.Student.Grade, rep.Student.Section)
	}
	cli.printf("Subject: %s\n\n", rep.Subject.Name)
	if len(rep.Grades) == 0 {
		cli.println("No grades yet.")
	}
	for _, g := range rep.Grades {
		cli.printf("  %s: %s\n", g.Name, g.Value)
	}
	if rep.HasAverage {
		cli.printf("\nAverage: %s (%s)\n", rep.Average.Letter, formatMean(rep.Average.Mean))
	} else {
		cli.println("\nAverage: -")
	}

	if *withFeedback {
		cli.println("\nGenerating feedback...")
		board := feedbacksvc.NewBoard(cli.feedback)
		cli.printf("\nFeedback:\n%s\n", <-board.Request(ctx, rep))
	}
	return nil
}

func formatMean(mean float64) string {
	return fmt.Sprintf("%.2f", mean)
}
