package testutil

import (
	"context"
	"io"
	"log"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/registro/core"
	"github.com/trezcool/registro/core/gradebook"
	"github.com/trezcool/registro/storage/kv"
	inmemkv "github.com/trezcool/registro/storage/kv/inmem"
	"github.com/trezcool/registro/storage/snapshot"
	logsvc "github.com/trezcool/registro/services/logger"
)

const SnapshotKey = "registro_docente_data"

// NewLogger returns a logger that neither prints nor reports.
func NewLogger() core.Logger {
	l := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), &core.Config{Env: "TEST"})
	l.Enable(false)
	return l
}

// NewValidator returns a validator with every custom validator & translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	gradebook.InitValidators(validate, translator)
	return validate, translator
}

// PrepareStore returns a Store saving into an in-memory kv.Store, plus that kv.Store & the snapshot repository.
func PrepareStore(t *testing.T) (*gradebook.Store, snapshot.Repository, kv.Store) {
	store := inmemkv.NewStore()
	t.Cleanup(func() { _ = store.Close() })

	repo, err := snapshot.NewRepository(store, SnapshotKey, NewLogger())
	if err != nil {
		t.Fatalf("PrepareStore() failed: %v", err)
	}
	return gradebook.NewStore(context.Background(), repo, NewLogger()), repo, store
}

func CreateStudent(t *testing.T, s *gradebook.Store, name, grade, section string) gradebook.Student {
	stu, err := s.CreateStudent(context.Background(), gradebook.NewStudent{Name: name, Grade: grade, Section: section})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func CreateSubject(t *testing.T, s *gradebook.Store, name string) gradebook.Subject {
	sub, err := s.CreateSubject(context.Background(), gradebook.NewSubject{Name: name})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sub
}

// CreateActivity adds an activity to a 0-based period.
func CreateActivity(t *testing.T, s *gradebook.Store, subjectID, name string, period int) gradebook.Activity {
	act, err := s.CreateActivity(context.Background(), gradebook.NewActivity{Name: name, SubjectID: subjectID, PeriodIndex: period})
	if err != nil {
		t.Fatalf("CreateActivity() failed: %v", err)
	}
	return act
}
