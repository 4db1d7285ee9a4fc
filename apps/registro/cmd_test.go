package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registro/core"
	"github.com/trezcool/registro/core/gradebook"
	"github.com/trezcool/registro/storage/kv"
	"github.com/trezcool/registro/tests"
)

type stubFeedback struct{}

func (stubFeedback) GenerateFeedback(_ context.Context, studentName, subjectName string, grades []gradebook.GradeEntry) string {
	return fmt.Sprintf("Keep it up %s (%s, %d grades)", studentName, subjectName, len(grades))
}

type cliEnv struct {
	cli   *commandLine
	store *gradebook.Store
	kv    kv.Store
	out   *bytes.Buffer
}

func setup(t *testing.T) *cliEnv {
	store, repo, kvStore := testutil.PrepareStore(t)
	validate, translator := testutil.NewValidator()
	out := new(bytes.Buffer)

	// every command is run with the default password unless a test says otherwise
	mockPasswords(t, gradebook.DefaultPassword)

	return &cliEnv{
		cli: &commandLine{
			store:      store,
			repo:       repo,
			validate:   validate,
			translator: translator,
			feedback:   stubFeedback{},
			out:        out,
		},
		store: store,
		kv:    kvStore,
		out:   out,
	}
}

// mockPasswords makes the password prompts return pwds in order, then the last one forever.
func mockPasswords(t *testing.T, pwds ...string) {
	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })

	var i int
	readPasswordFunc = func(int) ([]byte, error) {
		pwd := pwds[len(pwds)-1]
		if i < len(pwds) {
			pwd = pwds[i]
		}
		i++
		return []byte(pwd), nil
	}
}

func (env *cliEnv) run(args ...string) error {
	env.out.Reset()
	return env.cli.run(context.Background(), append([]string{"registro"}, args...))
}

// row returns the fields of the first output line starting with prefix.
func (env *cliEnv) row(prefix string) []string {
	for _, line := range strings.Split(env.out.String(), "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.Fields(line)
		}
	}
	return nil
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	check   func(t *testing.T, err error)
}

func runCLITests(t *testing.T, env *cliEnv, tests []cliTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.run(tt.args...)
			if tt.check != nil {
				tt.check(t, err)
				return
			}
			if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func isValidationError(t *testing.T, err error) {
	if _, ok := err.(*core.ValidationError); !ok {
		t.Errorf("cli.run() error = %v, want *core.ValidationError", err)
	}
}

func Test_commandLine_help(t *testing.T) {
	env := setup(t)
	runCLITests(t, env, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "unknown action", args: []string{"students", "lol"}, wantErr: errHelp},
		{name: "missing flag", args: []string{"students", "add"}, wantErr: errHelp},
		{name: "bad flag", args: []string{"subjects", "add", "-lol"}, wantErr: errHelp},
		{name: "missing period", args: []string{"activities", "add", "-subject", "x", "-name", "y"}, wantErr: errHelp},
	})
}

func Test_commandLine_login(t *testing.T) {
	env := setup(t)
	mockPasswords(t, "nope")

	err := env.run("students", "add", "-name", "Ana")
	assert.Equal(t, errWrongPassword, err)
	assert.Empty(t, env.store.State().Students)
}

func Test_commandLine_students(t *testing.T) {
	env := setup(t)
	for _, name := range []string{"Zoe", "Ñandú", "ana", "Nora"} {
		require.NoError(t, env.run("students", "add", "-name", "  "+name+" ", "-grade", "3ro", "-section", "B"))
	}

	runCLITests(t, env, []cliTest{
		{name: "blank name", args: []string{"students", "add", "-name", "   "}, check: isValidationError},
		{name: "enrollment order", args: []string{"students", "list"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			assert.Equal(t, []string{"Zoe", "Ñandú", "ana", "Nora"}, studentNames(env.store.State().Students))
			assert.Equal(t, 5, strings.Count(env.out.String(), "\n"))
			assert.Less(t, strings.Index(env.out.String(), "Zoe"), strings.Index(env.out.String(), "Nora"))
		}},
		{name: "spanish order", args: []string{"students", "list", "-sorted"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			out := env.out.String()
			order := []int{strings.Index(out, "ana"), strings.Index(out, "Nora"), strings.Index(out, "Ñandú"), strings.Index(out, "Zoe")}
			for i := 1; i < len(order); i++ {
				assert.Less(t, order[i-1], order[i], out)
			}
		}},
		{name: "remove unknown", args: []string{"students", "remove", "-student", "Pedro"}, check: func(t *testing.T, err error) {
			assert.IsType(t, notFoundError{}, err)
		}},
		{name: "remove by folded name", args: []string{"students", "remove", "-student", "nandu"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			assert.Equal(t, []string{"Zoe", "ana", "Nora"}, studentNames(env.store.State().Students))
		}},
	})
}

func studentNames(students []gradebook.Student) []string {
	ns := make([]string, 0, len(students))
	for _, s := range students {
		ns = append(ns, s.Name)
	}
	return ns
}

func Test_commandLine_gradebook(t *testing.T) {
	env := setup(t)
	ana := testutil.CreateStudent(t, env.store, "María Pérez", "3ro", "A")
	luis := testutil.CreateStudent(t, env.store, "Luis Gómez", "3ro", "A")
	math := testutil.CreateSubject(t, env.store, "Matemática")
	quiz := testutil.CreateActivity(t, env.store, math.ID, "Quiz", 0)
	exam := testutil.CreateActivity(t, env.store, math.ID, "Exam", 1)

	runCLITests(t, env, []cliTest{
		{name: "add activity out of range", args: []string{"activities", "add", "-subject", "matematica", "-period", "5", "-name", "Late"}, check: isValidationError},
		{name: "add activity", args: []string{"activities", "add", "-subject", "matematica", "-period", "4", "-name", "Final"}},
		{name: "invalid grade", args: []string{"grade", "-student", "Maria Perez", "-activity", "Quiz", "-value", "Z"}, check: isValidationError},
		{name: "grade by approximate name", args: []string{"grade", "-student", "Maria Peres", "-activity", "quiz", "-value", "ad"}},
		{name: "grade by id", args: []string{"grade", "-student", ana.ID, "-activity", exam.ID, "-value", "A"}},
		{name: "grade then clear", args: []string{"grade", "-student", luis.ID, "-activity", quiz.ID, "-value", "-"}},
		{name: "unknown subject", args: []string{"gradebook", "-subject", "Historia"}, check: func(t *testing.T, err error) {
			assert.IsType(t, notFoundError{}, err)
		}},
		{name: "period out of range", args: []string{"gradebook", "-subject", "Matemática", "-period", "0"}, check: isValidationError},
		{name: "first period grid", args: []string{"gradebook", "-subject", "Matemática", "-period", "1"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			assert.Equal(t, []string{"STUDENT", "Quiz", "AVERAGE"}, env.row("STUDENT"))
			assert.Equal(t, []string{"María", "Pérez", "AD", "A"}, env.row("María"))
			assert.Equal(t, []string{"Luis", "Gómez", "-", "-"}, env.row("Luis"))
		}},
	})

	st := env.store.State()
	assert.Equal(t, gradebook.GradeAD, st.GradeOf(ana.ID, quiz.ID))
	assert.Equal(t, gradebook.GradeA, st.GradeOf(ana.ID, exam.ID))
	assert.Equal(t, gradebook.GradeNone, st.GradeOf(luis.ID, quiz.ID))
	assert.Len(t, st.Grades, 3)
	assert.Len(t, st.Activities, 3)
}

func Test_commandLine_report(t *testing.T) {
	env := setup(t)
	ana := testutil.CreateStudent(t, env.store, "Ana Torres", "", "")
	math := testutil.CreateSubject(t, env.store, "Math")
	quiz := testutil.CreateActivity(t, env.store, math.ID, "Quiz", 0)
	exam := testutil.CreateActivity(t, env.store, math.ID, "Exam", 2)
	ctx := context.Background()
	require.NoError(t, env.store.UpsertGrade(ctx, ana.ID, exam.ID, gradebook.GradeA))
	require.NoError(t, env.store.UpsertGrade(ctx, ana.ID, quiz.ID, gradebook.GradeAD))

	require.NoError(t, env.run("report", "-student", "ana torres", "-subject", "math", "-feedback"))
	out := env.out.String()
	assert.Contains(t, out, "Student: Ana Torres\n")
	assert.Contains(t, out, "  Exam: A\n  Quiz: AD\n")
	assert.Contains(t, out, "Average: A (18.50)")
	assert.Contains(t, out, "Feedback:\nKeep it up Ana Torres (Math, 2 grades)")

	require.NoError(t, env.store.RemoveActivity(ctx, quiz.ID))
	require.NoError(t, env.store.RemoveActivity(ctx, exam.ID))
	require.NoError(t, env.run("report", "-student", ana.ID, "-subject", math.ID))
	assert.Contains(t, env.out.String(), "No grades yet.")
	assert.Contains(t, env.out.String(), "Average: -")
	assert.NotContains(t, env.out.String(), "Feedback")
}

func Test_commandLine_subjectsCascade(t *testing.T) {
	env := setup(t)
	ana := testutil.CreateStudent(t, env.store, "Ana", "", "")
	math := testutil.CreateSubject(t, env.store, "Math")
	art := testutil.CreateSubject(t, env.store, "Art")
	quiz := testutil.CreateActivity(t, env.store, math.ID, "Quiz", 0)
	drawing := testutil.CreateActivity(t, env.store, art.ID, "Drawing", 0)
	ctx := context.Background()
	require.NoError(t, env.store.UpsertGrade(ctx, ana.ID, quiz.ID, gradebook.GradeB))
	require.NoError(t, env.store.UpsertGrade(ctx, ana.ID, drawing.ID, gradebook.GradeC))

	require.NoError(t, env.run("subjects", "list"))
	assert.Equal(t, []string{math.ID, "Math", "1"}, env.row(math.ID))

	require.NoError(t, env.run("subjects", "remove", "-subject", "math"))
	st := env.store.State()
	assert.Equal(t, []gradebook.Subject{art}, st.Subjects)
	assert.Equal(t, []gradebook.Activity{drawing}, st.Activities)
	assert.Equal(t, []gradebook.Grade{{StudentID: ana.ID, ActivityID: drawing.ID, Value: gradebook.GradeC}}, st.Grades)

	require.NoError(t, env.run("activities", "remove", "-activity", "Drawing", "-subject", "Art"))
	assert.Empty(t, env.store.State().Grades)
}

func Test_commandLine_settings(t *testing.T) {
	env := setup(t)
	math := testutil.CreateSubject(t, env.store, "Math")
	testutil.CreateActivity(t, env.store, math.ID, "Final", 3)

	runCLITests(t, env, []cliTest{
		{name: "show", args: []string{"settings", "show"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			assert.Contains(t, env.out.String(), "Period type: Bimestre (4 periods)")
			assert.Equal(t, []string{"AD", "20.00"}, env.row("  AD"))
		}},
		{name: "unknown period type", args: []string{"settings", "period", "-type", "Semestre"}, check: isValidationError},
		{name: "period change hides activities", args: []string{"settings", "period", "-type", "trimestre"}, check: func(t *testing.T, err error) {
			assert.Equal(t, errHelp, err)
			assert.Contains(t, env.out.String(), "1 activities fall outside")
			assert.Equal(t, gradebook.Bimester, env.store.Settings().PeriodType)
		}},
		{name: "period change confirmed", args: []string{"settings", "period", "-type", "trimestre", "-yes"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			assert.Equal(t, gradebook.Trimester, env.store.Settings().PeriodType)
			assert.Len(t, env.store.State().Activities, 1)
		}},
		{name: "weights must decrease", args: []string{"settings", "weight", "-letter", "B", "-value", "18"}, check: func(t *testing.T, err error) {
			isValidationError(t, err)
			assert.Equal(t, gradebook.DefaultWeights, env.store.Settings().Weights)
		}},
		{name: "unknown letter", args: []string{"settings", "weight", "-letter", "D", "-value", "1"}, check: isValidationError},
		{name: "weight", args: []string{"settings", "weight", "-letter", "c", "-value", "5"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			assert.Equal(t, 5.0, env.store.Settings().Weights.C)
		}},
		{name: "no weight given", args: []string{"settings", "weight"}, wantErr: errHelp},
		{name: "letter without value", args: []string{"settings", "weight", "-letter", "A"}, wantErr: errHelp},
		{name: "lower the whole scale", args: []string{"settings", "weight", "-ad", "10", "-a", "8", "-b", "6", "-c", "4"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			assert.Equal(t, gradebook.Weights{AD: 10, A: 8, B: 6, C: 4}, env.store.Settings().Weights)
		}},
		{name: "batch still validated", args: []string{"settings", "weight", "-a", "12"}, check: func(t *testing.T, err error) {
			isValidationError(t, err)
			assert.Equal(t, gradebook.Weights{AD: 10, A: 8, B: 6, C: 4}, env.store.Settings().Weights)
		}},
		{name: "letter & batch together", args: []string{"settings", "weight", "-letter", "AD", "-value", "30", "-a", "25"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			assert.Equal(t, gradebook.Weights{AD: 30, A: 25, B: 6, C: 4}, env.store.Settings().Weights)
		}},
	})
}

func Test_commandLine_reportsSavedState(t *testing.T) {
	env := setup(t)
	testutil.CreateStudent(t, env.store, "Ana", "", "")

	require.NoError(t, env.run("subjects", "add", "-name", "Math"))
	assert.Contains(t, env.out.String(), "saved: 1 students, 1 subjects, 0 activities, 0 grades\n")

	require.NoError(t, env.run("students", "list"))
	assert.NotContains(t, env.out.String(), "saved:")

	// the subscription ends with the command
	require.NoError(t, env.store.AddSubject(context.Background(), gradebook.Subject{ID: "art", Name: "Art"}))
	assert.NotContains(t, env.out.String(), "saved:")
}

func Test_commandLine_password(t *testing.T) {
	env := setup(t)

	mockPasswords(t, "1234", "abc", "abc")
	assert.IsType(t, &core.ValidationError{}, env.run("settings", "password"))

	mockPasswords(t, "1234", "abcd", "abce")
	assert.Equal(t, errPasswordMismatch, env.run("settings", "password"))

	mockPasswords(t, "1234", "abcd", "abcd")
	require.NoError(t, env.run("settings", "password"))
	assert.Equal(t, "abcd", env.store.Settings().Password)

	mockPasswords(t, "1234")
	assert.Equal(t, errWrongPassword, env.run("students", "list"))
	mockPasswords(t, "abcd")
	assert.NoError(t, env.run("students", "list"))
}

func Test_commandLine_export(t *testing.T) {
	env := setup(t)
	testutil.CreateStudent(t, env.store, "Ana", "", "")

	require.NoError(t, env.run("export", "-o", "-"))
	saved, err := env.kv.Get(context.Background(), testutil.SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, saved, env.out.Bytes())

	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	require.NoError(t, env.run("export", "-o", path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, saved, data)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()
	orig := nowFunc
	nowFunc = func() time.Time { return time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = orig }()

	require.NoError(t, env.run("export"))
	data, err = os.ReadFile(filepath.Join(dir, "registro_backup_2025-11-03.json"))
	require.NoError(t, err)
	assert.Equal(t, saved, data)
}

func Test_resolve(t *testing.T) {
	cs := []named{
		{id: "1", name: "María Pérez"},
		{id: "2", name: "Mario Pérez"},
		{id: "3", name: "Luis Gómez"},
		{id: "4", name: "Luis Gómez"},
	}
	tests := []struct {
		ref     string
		want    string
		wantErr interface{}
	}{
		{ref: "3", want: "3"},
		{ref: "maria perez", want: "1"},
		{ref: " MARIO PÉREZ ", want: "2"},
		{ref: "Mario Peres", want: "2"},
		{ref: "luis gomez", wantErr: ambiguousError{}},
		{ref: "Pedro", wantErr: notFoundError{}},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := resolve("student", tt.ref, cs)
			if tt.wantErr != nil {
				assert.IsType(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
