package gradebook

// bandOffset is how far below a letter's weight its band starts.
const bandOffset = 0.5

// Average is the result of averaging a student's grades in a subject.
type Average struct {
	Letter GradeValue `json:"letter"`
	Mean   float64    `json:"mean"`
	Graded int        `json:"graded"` // number of grades averaged
}

// CalculateAverage averages the grades of a student over every activity of a subject, regardless of period.
// ok is false when there is nothing to average: the subject has no activities or the student has no grade in them.
// Ungraded activities are left out of the divisor.
func CalculateAverage(studentID, subjectID string, activities []Activity, grades []Grade, weights Weights) (avg Average, ok bool) {
	inSubject := make(map[string]struct{})
	for _, act := range activities {
		if act.SubjectID == subjectID {
			inSubject[act.ID] = struct{}{}
		}
	}
	if len(inSubject) == 0 {
		return Average{}, false
	}

	var total float64
	for _, g := range grades {
		if g.StudentID != studentID || !g.Value.IsLetter() {
			continue
		}
		if _, ok := inSubject[g.ActivityID]; !ok {
			continue
		}
		w, _ := weights.Of(g.Value)
		total += w
		avg.Graded++
	}
	if avg.Graded == 0 {
		return Average{}, false
	}

	avg.Mean = total / float64(avg.Graded)
	avg.Letter = Band(avg.Mean, weights)
	return avg, true
}

// Band maps a numeric mean back to a letter, comparing against each weight from AD down.
// Anything below every band is a C.
func Band(mean float64, weights Weights) GradeValue {
	switch {
	case mean >= weights.AD-bandOffset:
		return GradeAD
	case mean >= weights.A-bandOffset:
		return GradeA
	case mean >= weights.B-bandOffset:
		return GradeB
	default:
		return GradeC
	}
}
