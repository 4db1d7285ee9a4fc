package gradebook

import (
	"fmt"

	"github.com/trezcool/registro/core"
)

const (
	DefaultPeriodType = Bimester
	DefaultPassword   = "1234"
)

// DefaultWeights are the initial letter weights. They are configurable, not constants of the model.
var DefaultWeights = Weights{AD: 20, A: 17, B: 13, C: 8}

func DefaultSettings() Settings {
	return Settings{
		PeriodType: DefaultPeriodType,
		Weights:    DefaultWeights,
		Password:   DefaultPassword,
	}
}

// State is the whole gradebook: the four collections plus the settings.
// Transitions never modify a State in place; they return a new one sharing no mutated backing array.
type State struct {
	Students   []Student  `json:"students"`
	Subjects   []Subject  `json:"subjects"`
	Activities []Activity `json:"activities"`
	Grades     []Grade    `json:"grades"`
	Settings   Settings   `json:"settings"`
}

func DefaultState() State {
	return State{
		Students:   []Student{},
		Subjects:   []Subject{},
		Activities: []Activity{},
		Grades:     []Grade{},
		Settings:   DefaultSettings(),
	}
}

// Clone returns a deep copy of st. Nil collections become empty ones.
func (st State) Clone() State {
	return State{
		Students:   append(make([]Student, 0, len(st.Students)), st.Students...),
		Subjects:   append(make([]Subject, 0, len(st.Subjects)), st.Subjects...),
		Activities: append(make([]Activity, 0, len(st.Activities)), st.Activities...),
		Grades:     append(make([]Grade, 0, len(st.Grades)), st.Grades...),
		Settings:   st.Settings,
	}
}

func (st State) AddStudent(s Student) State {
	next := st.Clone()
	next.Students = append(next.Students, s)
	return next
}

// RemoveStudent does not cascade: grades of the student stay, orphaned, and are never displayed again.
func (st State) RemoveStudent(id string) State {
	next := st.Clone()
	next.Students = filter(next.Students, func(s Student) bool { return s.ID != id })
	return next
}

func (st State) AddSubject(s Subject) State {
	next := st.Clone()
	next.Subjects = append(next.Subjects, s)
	return next
}

// RemoveSubject removes the subject, its activities and the grades of those activities in one step.
func (st State) RemoveSubject(id string) State {
	removed := make(map[string]struct{})
	for _, act := range st.Activities {
		if act.SubjectID == id {
			removed[act.ID] = struct{}{}
		}
	}

	next := st.Clone()
	next.Subjects = filter(next.Subjects, func(s Subject) bool { return s.ID != id })
	next.Activities = filter(next.Activities, func(a Activity) bool { return a.SubjectID != id })
	next.Grades = filter(next.Grades, func(g Grade) bool {
		_, gone := removed[g.ActivityID]
		return !gone
	})
	return next
}

// AddActivity appends an activity. Its period index must fit the current period scheme;
// the subject is not checked.
func (st State) AddActivity(a Activity) (State, error) {
	if !st.Settings.PeriodType.ContainsPeriod(a.PeriodIndex) {
		return st, core.NewValidationError(nil, core.FieldError{
			Field: "periodIndex",
			Error: fmt.Sprintf("period must be between 1 and %d", st.Settings.PeriodType.PeriodCount()),
		})
	}
	next := st.Clone()
	next.Activities = append(next.Activities, a)
	return next, nil
}

// RemoveActivity removes the activity and every grade given for it.
func (st State) RemoveActivity(id string) State {
	next := st.Clone()
	next.Activities = filter(next.Activities, func(a Activity) bool { return a.ID != id })
	next.Grades = filter(next.Grades, func(g Grade) bool { return g.ActivityID != id })
	return next
}

// UpsertGrade replaces the value of the (studentID, activityID) grade in place, or appends it.
func (st State) UpsertGrade(studentID, activityID string, value GradeValue) (State, error) {
	if !value.IsValid() {
		return st, core.NewValidationError(nil, core.FieldError{
			Field: "value",
			Error: fmt.Sprintf("invalid grade %q", string(value)),
		})
	}
	next := st.Clone()
	g := Grade{StudentID: studentID, ActivityID: activityID, Value: value}
	if idx := next.gradeIndex(studentID, activityID); idx >= 0 {
		next.Grades[idx] = g
	} else {
		next.Grades = append(next.Grades, g)
	}
	return next, nil
}

// UpdateSettings replaces the settings wholesale; callers merge partial changes beforehand.
func (st State) UpdateSettings(s Settings) State {
	next := st.Clone()
	next.Settings = s
	return next
}

func (st State) gradeIndex(studentID, activityID string) int {
	for i, g := range st.Grades {
		if g.StudentID == studentID && g.ActivityID == activityID {
			return i
		}
	}
	return -1
}

func filter[T any](items []T, keep func(T) bool) []T {
	kept := items[:0]
	for _, item := range items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	return kept
}
