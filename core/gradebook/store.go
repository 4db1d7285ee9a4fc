package gradebook

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/registro/core"
)

var (
	// errors
	ErrNoSnapshot = errors.New("no snapshot saved yet")
)

type (
	// Repository persists the whole State as one snapshot.
	Repository interface {
		// Load returns ErrNoSnapshot when nothing was saved yet.
		Load(ctx context.Context) (State, error)
		Save(ctx context.Context, st State) error
	}

	// FeedbackGenerator writes a short comment about a student's grades.
	// Failures are reported as a readable fallback text, never as an error.
	FeedbackGenerator interface {
		GenerateFeedback(ctx context.Context, studentName, subjectName string, grades []GradeEntry) string
	}

	// Store owns the gradebook State. Every mutation is applied atomically, saved, then published to subscribers.
	Store struct {
		mu    sync.RWMutex
		state State
		seq   uint64 // bumped by every applied transition

		saveMu sync.Mutex // orders saves like the mutations
		repo   Repository
		logger core.Logger

		subsMu    sync.Mutex
		subs      map[int]func(State)
		nextID    int
		published uint64 // seq of the newest published state
	}
)

// NewStore loads the saved snapshot once. A missing snapshot starts from DefaultState;
// an unreadable one is logged and replaced by DefaultState as well.
func NewStore(ctx context.Context, repo Repository, logger core.Logger) *Store {
	st, err := repo.Load(ctx)
	switch {
	case err == nil:
	case errors.Cause(err) == ErrNoSnapshot:
		st = DefaultState()
	default:
		logger.Error("loading snapshot, starting from defaults", errors.Wrap(err, "loading snapshot"))
		st = DefaultState()
	}
	return &Store{
		state:  st.Clone(),
		repo:   repo,
		logger: logger,
		subs:   make(map[int]func(State)),
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Students returns the students in enrollment order.
func (s *Store) Students() []Student {
	return s.State().Students
}

func (s *Store) Subjects() []Subject {
	return s.State().Subjects
}

func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

// Subscribe registers fn to receive a copy of the state after every mutation.
// fn runs without any Store lock held, so it may call back into the Store.
// A state older than one already published is not delivered.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

// apply swaps in the state returned by transition, then saves & publishes it.
// The new state stays in memory even if saving fails; the save error is returned.
func (s *Store) apply(ctx context.Context, transition func(State) (State, error)) error {
	s.saveMu.Lock()

	s.mu.Lock()
	next, err := transition(s.state)
	if err != nil {
		s.mu.Unlock()
		s.saveMu.Unlock()
		return err
	}
	s.state = next
	s.seq++
	seq := s.seq
	snapshot := next.Clone()
	s.mu.Unlock()

	var saveErr error
	if err := s.repo.Save(ctx, snapshot); err != nil {
		saveErr = errors.Wrap(err, "saving snapshot")
		s.logger.Error("could not save snapshot", saveErr)
	}
	s.saveMu.Unlock()

	s.publish(seq, snapshot)
	return saveErr
}

func (s *Store) publish(seq uint64, st State) {
	s.subsMu.Lock()
	if seq <= s.published {
		s.subsMu.Unlock()
		return
	}
	s.published = seq
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range subs {
		if s.stale(seq) {
			return
		}
		fn(st.Clone())
	}
}

// stale reports whether a newer state than seq was published meanwhile.
func (s *Store) stale(seq uint64) bool {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return s.published > seq
}

func (s *Store) AddStudent(ctx context.Context, st Student) error {
	return s.apply(ctx, func(cur State) (State, error) { return cur.AddStudent(st), nil })
}

// RemoveStudent leaves the student's grades in place.
func (s *Store) RemoveStudent(ctx context.Context, id string) error {
	return s.apply(ctx, func(cur State) (State, error) { return cur.RemoveStudent(id), nil })
}

func (s *Store) AddSubject(ctx context.Context, sub Subject) error {
	return s.apply(ctx, func(cur State) (State, error) { return cur.AddSubject(sub), nil })
}

// RemoveSubject cascades to the subject's activities and their grades.
func (s *Store) RemoveSubject(ctx context.Context, id string) error {
	return s.apply(ctx, func(cur State) (State, error) { return cur.RemoveSubject(id), nil })
}

func (s *Store) AddActivity(ctx context.Context, act Activity) error {
	return s.apply(ctx, func(cur State) (State, error) { return cur.AddActivity(act) })
}

// RemoveActivity cascades to the activity's grades.
func (s *Store) RemoveActivity(ctx context.Context, id string) error {
	return s.apply(ctx, func(cur State) (State, error) { return cur.RemoveActivity(id), nil })
}

func (s *Store) UpsertGrade(ctx context.Context, studentID, activityID string, value GradeValue) error {
	return s.apply(ctx, func(cur State) (State, error) { return cur.UpsertGrade(studentID, activityID, value) })
}

// UpdateSettings replaces the settings wholesale. Weights that are not strictly decreasing are kept but logged.
func (s *Store) UpdateSettings(ctx context.Context, settings Settings) error {
	if !settings.Weights.IsDescending() {
		s.logger.Warn("weights are not strictly decreasing, averages may band unexpectedly",
			map[string]interface{}{"weights": settings.Weights})
	}
	return s.apply(ctx, func(cur State) (State, error) { return cur.UpdateSettings(settings), nil })
}

// CreateStudent adds a Student built from an already validated NewStudent.
func (s *Store) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	st := ns.student()
	return st, s.AddStudent(ctx, st)
}

// CreateSubject adds a Subject built from an already validated NewSubject.
func (s *Store) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	sub := ns.subject()
	return sub, s.AddSubject(ctx, sub)
}

// CreateActivity adds an Activity dated now, built from an already validated NewActivity.
func (s *Store) CreateActivity(ctx context.Context, na NewActivity) (Activity, error) {
	act := na.activity()
	if err := s.AddActivity(ctx, act); err != nil {
		if _, ok := err.(*core.ValidationError); ok {
			return Activity{}, err
		}
		return act, err
	}
	return act, nil
}

// Report is State.Report on the current state.
func (s *Store) Report(studentID, subjectID string) Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Report(studentID, subjectID)
}

// Average is State.Average on the current state.
func (s *Store) Average(studentID, subjectID string) (Average, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Average(studentID, subjectID)
}
