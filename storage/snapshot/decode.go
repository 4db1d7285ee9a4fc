package snapshot

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/registro/core/gradebook"
)

// Documents written by older versions may lack settings, or part of them.
type (
	rawState struct {
		Students   []gradebook.Student `json:"students"`
		Subjects   []gradebook.Subject `json:"subjects"`
		Activities []rawActivity       `json:"activities"`
		Grades     []gradebook.Grade   `json:"grades"`
		Settings   *rawSettings        `json:"settings"`
	}

	// rawActivity keeps the date undecoded: older documents hold empty, date-only or epoch dates.
	rawActivity struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		SubjectID   string          `json:"subjectId"`
		PeriodIndex int             `json:"periodIndex"`
		Date        json.RawMessage `json:"date"`
	}

	rawSettings struct {
		PeriodType *string     `json:"periodType"`
		Weights    *rawWeights `json:"weights"`
		Password   *string     `json:"password"`
	}

	rawWeights struct {
		AD *float64 `json:"AD"`
		A  *float64 `json:"A"`
		B  *float64 `json:"B"`
		C  *float64 `json:"C"`
	}
)

// accepted activity date layouts, besides epoch milliseconds
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// Decode parses a snapshot, filling every missing collection or setting with its default.
// Activity dates that cannot be read become the zero time.
func Decode(data []byte) (gradebook.State, error) {
	st, _, err := decode(data)
	return st, err
}

// decode also returns the ids of the activities whose date could not be read.
func decode(data []byte) (gradebook.State, []string, error) {
	var raw rawState
	if err := json.Unmarshal(data, &raw); err != nil {
		return gradebook.State{}, nil, errors.Wrap(err, "decoding snapshot")
	}

	var badDates []string
	acts := make([]gradebook.Activity, 0, len(raw.Activities))
	for _, ra := range raw.Activities {
		date, ok := parseDate(ra.Date)
		if !ok {
			badDates = append(badDates, ra.ID)
		}
		acts = append(acts, gradebook.Activity{
			ID:          ra.ID,
			Name:        ra.Name,
			SubjectID:   ra.SubjectID,
			PeriodIndex: ra.PeriodIndex,
			Date:        date,
		})
	}

	st := gradebook.State{
		Students:   raw.Students,
		Subjects:   raw.Subjects,
		Activities: acts,
		Grades:     raw.Grades,
		Settings:   raw.Settings.merge(gradebook.DefaultSettings()),
	}
	return st.Clone(), badDates, nil
}

// parseDate reads an RFC 3339, date-only or epoch milliseconds date. A missing or null date is not an error.
func parseDate(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, true
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(int64(ms)).UTC(), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (rs *rawSettings) merge(s gradebook.Settings) gradebook.Settings {
	if rs == nil {
		return s
	}
	if rs.PeriodType != nil {
		if pt := gradebook.PeriodType(*rs.PeriodType); pt.IsValid() {
			s.PeriodType = pt
		}
	}
	if rs.Password != nil {
		s.Password = *rs.Password
	}
	if w := rs.Weights; w != nil {
		for letter, val := range map[gradebook.GradeValue]*float64{
			gradebook.GradeAD: w.AD,
			gradebook.GradeA:  w.A,
			gradebook.GradeB:  w.B,
			gradebook.GradeC:  w.C,
		} {
			if val != nil {
				s.Weights = s.Weights.Set(letter, *val)
			}
		}
	}
	return s
}
