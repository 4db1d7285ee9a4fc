package gradebook

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/registro/core"
)

var (
	gradeLetterTag  = "grade_letter"
	gradeLetterText = "grade must be one of AD, A, B, C or empty"

	periodTypeTag  = "period_type"
	periodTypeText = fmt.Sprintf("period type must be one of %s or %s", Bimester, Trimester)

	weightsDescTag  = "weights_desc"
	weightsDescText = "weights must decrease strictly from AD to C"

	// password policy
	pwdMinLen     = 4
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)
)

// InitValidators registers the gradebook validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(gradeLetterTag, gradeLetterValidation)
	core.RegisterCustomTranslation(validate, translator, gradeLetterTag, gradeLetterText)

	_ = validate.RegisterValidation(periodTypeTag, periodTypeValidation)
	core.RegisterCustomTranslation(validate, translator, periodTypeTag, periodTypeText)

	_ = validate.RegisterValidation(pwdMinLenTag, pwdMinLenValidation)
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)

	validate.RegisterStructValidation(settingsStructValidation, Settings{})
	core.RegisterCustomTranslation(validate, translator, weightsDescTag, weightsDescText)
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Grade = core.CleanString(ns.Grade)
	ns.Section = core.CleanString(ns.Section)
	return validate.Struct(ns)
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

// Validate checks the activity against the period scheme of the given settings.
func (na *NewActivity) Validate(validate *validator.Validate, settings Settings) error {
	na.Name = core.CleanString(na.Name)
	if err := validate.Struct(na); err != nil {
		return err
	}
	if !settings.PeriodType.ContainsPeriod(na.PeriodIndex) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "periodIndex",
			Error: fmt.Sprintf("period must be between 1 and %d", settings.PeriodType.PeriodCount()),
		})
	}
	return nil
}

func (s Settings) Validate(validate *validator.Validate) error {
	return validate.Struct(s)
}

// Custom Validators

func gradeLetterValidation(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case GradeValue:
		return v.IsValid()
	case string:
		return GradeValue(strings.ToUpper(v)).IsValid()
	}
	return false
}

func periodTypeValidation(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case PeriodType:
		return v.IsValid()
	case string:
		return PeriodType(v).IsValid()
	}
	return false
}

func pwdMinLenValidation(fl validator.FieldLevel) bool {
	return len([]rune(fl.Field().String())) >= pwdMinLen
}

// settingsStructValidation rejects weights the averaging bands cannot order.
func settingsStructValidation(sl validator.StructLevel) {
	if s, ok := sl.Current().Interface().(Settings); ok {
		if !s.Weights.IsDescending() {
			sl.ReportError(s.Weights, "weights", "Weights", weightsDescTag, "")
		}
	}
}
