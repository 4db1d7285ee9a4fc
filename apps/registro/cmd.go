package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/registro/core"
	"github.com/trezcool/registro/core/gradebook"
	"github.com/trezcool/registro/storage/snapshot"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	stdinFd          = int(os.Stdin.Fd())

	errHelp          = errors.New("help provided")
	errWrongPassword = errors.New("wrong password")
)

type commandLine struct {
	store      *gradebook.Store
	repo       snapshot.Repository
	validate   *validator.Validate
	translator ut.Translator
	feedback   gradebook.FeedbackGenerator
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	cli.println("Usage:")
	cli.println("  students list [-sorted]                              - list students")
	cli.println("  students add -name NAME [-grade G] [-section S]      - add a student")
	cli.println("  students remove -student STUDENT                     - remove a student, keeping their grades")
	cli.println("  subjects list                                        - list subjects")
	cli.println("  subjects add -name NAME                              - add a subject")
	cli.println("  subjects remove -subject SUBJECT                     - remove a subject with its activities & grades")
	cli.println("  activities list -subject SUBJECT [-period N]         - list a subject's activities")
	cli.println("  activities add -subject SUBJECT -period N -name NAME - add an activity")
	cli.println("  activities remove -activity ACTIVITY                 - remove an activity with its grades")
	cli.println("  grade -student STUDENT -activity ACTIVITY -value V   - set a grade (AD, A, B, C or - to clear)")
	cli.println("  gradebook -subject SUBJECT -period N                 - show the grades of one period")
	cli.println("  report -student STUDENT -subject SUBJECT [-feedback] - show a student's report")
	cli.println("  settings show                                        - show settings")
	cli.println("  settings period -type Bimestre|Trimestre [-yes]      - change the period type")
	cli.println("  settings weight -letter L -value W                   - change a letter weight")
	cli.println("  settings weight [-ad W] [-a W] [-b W] [-c W]         - change several weights at once")
	cli.println("  settings password                                    - change the password")
	cli.println("  export [-o FILE]                                     - write a backup of the whole gradebook")
	cli.println("STUDENT, SUBJECT & ACTIVITY are ids or names; close names are accepted.")
}

func (cli *commandLine) println(a ...interface{}) {
	_, _ = fmt.Fprintln(cli.out, a...)
}

func (cli *commandLine) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, a...)
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	var cmd func(ctx context.Context, args []string) error
	switch args[1] {
	case "students":
		cmd = cli.students
	case "subjects":
		cmd = cli.subjects
	case "activities":
		cmd = cli.activities
	case "grade":
		cmd = cli.grade
	case "gradebook":
		cmd = cli.gradebook
	case "report":
		cmd = cli.report
	case "settings":
		cmd = cli.settings
	case "export":
		cmd = cli.export
	default:
		cli.printUsage()
		return errHelp
	}

	if err := cli.login(); err != nil {
		return err
	}
	cancel := cli.store.Subscribe(cli.onChange)
	defer cancel()
	return cmd(ctx, args[2:])
}

// onChange reports what the gradebook holds after a mutation.
func (cli *commandLine) onChange(st gradebook.State) {
	cli.printf("saved: %d students, %d subjects, %d activities, %d grades\n",
		len(st.Students), len(st.Subjects), len(st.Activities), len(st.Grades))
}

// login prompts for the gradebook password.
func (cli *commandLine) login() error {
	pwd, err := cli.readPassword("Password:")
	if err != nil {
		return err
	}
	want := cli.store.Settings().Password
	if subtle.ConstantTimeCompare(pwd, []byte(want)) != 1 {
		return errWrongPassword
	}
	return nil
}

func (cli *commandLine) readPassword(prompt string) ([]byte, error) {
	cli.printf("%s", prompt)
	pwd, err := readPasswordFunc(stdinFd)
	cli.println()
	return pwd, err
}

// subcommand returns the action & remaining args of a "group action [flags]" command.
func subcommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return args[0], args[1:]
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// parse returns errHelp if args do not parse or a required flag is empty.
func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	for _, name := range required {
		if f := fs.Lookup(name); f != nil && f.Value.String() == "" {
			fs.Usage()
			return errHelp
		}
	}
	return nil
}

// validationError renders input errors as "field: message" lines.
func (cli *commandLine) validationError(err error) error {
	flds := core.TranslateErrors(err, cli.translator)
	if len(flds) == 0 {
		return err
	}
	msgs := make([]string, 0, len(flds))
	for _, f := range flds {
		msgs = append(msgs, f.Field+": "+f.Error)
	}
	return core.NewValidationError(errors.New(strings.Join(msgs, "\n")), flds...)
}
