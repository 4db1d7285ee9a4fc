package gradebook

import (
	"time"

	"github.com/google/uuid"
)

// Grade letters
const (
	GradeAD GradeValue = "AD" // excellent
	GradeA  GradeValue = "A"  // very good
	GradeB  GradeValue = "B"  // regular
	GradeC  GradeValue = "C"  // needs improvement

	// GradeNone marks an ungraded activity; it is logically absent.
	GradeNone GradeValue = ""
)

// Period types
const (
	Bimester  PeriodType = "Bimestre"
	Trimester PeriodType = "Trimestre"
)

var (
	// Letters lists the grade letters from best to worst.
	Letters     = []GradeValue{GradeAD, GradeA, GradeB, GradeC}
	PeriodTypes = []PeriodType{Bimester, Trimester}

	periodCounts = map[PeriodType]int{
		Bimester:  4,
		Trimester: 3,
	}

	nowFunc = time.Now // mockable
	newID   = func() string { return uuid.New().String() }
)

type GradeValue string

func (g GradeValue) IsLetter() bool {
	switch g {
	case GradeAD, GradeA, GradeB, GradeC:
		return true
	}
	return false
}

func (g GradeValue) IsValid() bool {
	return g == GradeNone || g.IsLetter()
}

func (g GradeValue) String() string {
	if g == GradeNone {
		return "-"
	}
	return string(g)
}

type PeriodType string

func (p PeriodType) IsValid() bool {
	_, ok := periodCounts[p]
	return ok
}

// PeriodCount returns how many periods the academic year is split into.
// Unknown period types count as the default (Bimester).
func (p PeriodType) PeriodCount() int {
	if n, ok := periodCounts[p]; ok {
		return n
	}
	return periodCounts[DefaultPeriodType]
}

// ContainsPeriod reports whether idx is a valid 0-based period index.
func (p PeriodType) ContainsPeriod(idx int) bool {
	return idx >= 0 && idx < p.PeriodCount()
}

type Student struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Grade   string `json:"grade"` // cohort label, eg. "3ro"
	Section string `json:"section"`
}

type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Activity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SubjectID   string    `json:"subjectId"`
	PeriodIndex int       `json:"periodIndex"` // 0-based
	Date        time.Time `json:"date"`
}

type Grade struct {
	StudentID  string     `json:"studentId"`
	ActivityID string     `json:"activityId"`
	Value      GradeValue `json:"value"`
}

// Weights maps every letter to the number used when averaging.
type Weights struct {
	AD float64 `json:"AD"`
	A  float64 `json:"A"`
	B  float64 `json:"B"`
	C  float64 `json:"C"`
}

// Of returns the weight of a letter; ok is false for GradeNone and unknown values.
func (w Weights) Of(g GradeValue) (weight float64, ok bool) {
	switch g {
	case GradeAD:
		return w.AD, true
	case GradeA:
		return w.A, true
	case GradeB:
		return w.B, true
	case GradeC:
		return w.C, true
	}
	return 0, false
}

// Set returns a copy of w with the weight of g replaced.
func (w Weights) Set(g GradeValue, weight float64) Weights {
	switch g {
	case GradeAD:
		w.AD = weight
	case GradeA:
		w.A = weight
	case GradeB:
		w.B = weight
	case GradeC:
		w.C = weight
	}
	return w
}

// IsDescending reports whether AD > A > B > C, which the averaging bands assume.
func (w Weights) IsDescending() bool {
	return w.AD > w.A && w.A > w.B && w.B > w.C
}

type Settings struct {
	PeriodType PeriodType `json:"periodType" validate:"period_type"`
	Weights    Weights    `json:"weights"`
	Password   string     `json:"password" validate:"pwdminlen"`
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name    string `json:"name" validate:"notblank"`
	Grade   string `json:"grade"`
	Section string `json:"section"`
}

func (ns NewStudent) student() Student {
	return Student{ID: newID(), Name: ns.Name, Grade: ns.Grade, Section: ns.Section}
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name string `json:"name" validate:"notblank"`
}

func (ns NewSubject) subject() Subject {
	return Subject{ID: newID(), Name: ns.Name}
}

// NewActivity contains information needed to create a new Activity.
type NewActivity struct {
	Name        string `json:"name" validate:"notblank"`
	SubjectID   string `json:"subjectId" validate:"required"`
	PeriodIndex int    `json:"periodIndex" validate:"min=0"`
}

func (na NewActivity) activity() Activity {
	return Activity{
		ID:          newID(),
		Name:        na.Name,
		SubjectID:   na.SubjectID,
		PeriodIndex: na.PeriodIndex,
		Date:        nowFunc().UTC(),
	}
}
