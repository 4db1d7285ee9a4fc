package gradebook

// Fallback names used when a report refers to a deleted entity.
const (
	UnknownStudent  = "Student"
	UnknownSubject  = "Subject"
	UnknownActivity = "Activity"
)

// GradeEntry is one "activity: letter" line of a report.
type GradeEntry struct {
	Name  string     `json:"name"`
	Value GradeValue `json:"value"`
}

// Report summarizes a student's grades in a subject.
type Report struct {
	Student    Student      `json:"student"`
	Subject    Subject      `json:"subject"`
	Grades     []GradeEntry `json:"grades"`
	Average    Average      `json:"average"`
	HasAverage bool         `json:"hasAverage"`
}

func (st State) FindStudent(id string) (Student, bool) {
	for _, s := range st.Students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

func (st State) FindSubject(id string) (Subject, bool) {
	for _, s := range st.Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

func (st State) FindActivity(id string) (Activity, bool) {
	for _, a := range st.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

// ActivitiesFor returns the activities of a subject in one period, in creation order.
func (st State) ActivitiesFor(subjectID string, periodIndex int) []Activity {
	var acts []Activity
	for _, a := range st.Activities {
		if a.SubjectID == subjectID && a.PeriodIndex == periodIndex {
			acts = append(acts, a)
		}
	}
	return acts
}

// GradeOf returns the grade of a student for an activity, GradeNone if ungraded.
func (st State) GradeOf(studentID, activityID string) GradeValue {
	if idx := st.gradeIndex(studentID, activityID); idx >= 0 {
		return st.Grades[idx].Value
	}
	return GradeNone
}

// Average averages a student's grades over a subject with the current weights.
func (st State) Average(studentID, subjectID string) (Average, bool) {
	return CalculateAverage(studentID, subjectID, st.Activities, st.Grades, st.Settings.Weights)
}

// Report lists every letter the student got in the subject, in grade insertion order, plus the average.
func (st State) Report(studentID, subjectID string) Report {
	rep := Report{
		Student: Student{ID: studentID, Name: UnknownStudent},
		Subject: Subject{ID: subjectID, Name: UnknownSubject},
		Grades:  []GradeEntry{},
	}
	if s, ok := st.FindStudent(studentID); ok {
		rep.Student = s
	}
	if s, ok := st.FindSubject(subjectID); ok {
		rep.Subject = s
	}

	names := make(map[string]string)
	for _, a := range st.Activities {
		if a.SubjectID == subjectID {
			names[a.ID] = a.Name
		}
	}
	for _, g := range st.Grades {
		if g.StudentID != studentID || !g.Value.IsLetter() {
			continue
		}
		name, ok := names[g.ActivityID]
		if !ok {
			continue
		}
		if name == "" {
			name = UnknownActivity
		}
		rep.Grades = append(rep.Grades, GradeEntry{Name: name, Value: g.Value})
	}

	rep.Average, rep.HasAverage = st.Average(studentID, subjectID)
	return rep
}
