package domain

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so callers see the same keys they sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("riskprofile", func(fl validator.FieldLevel) bool {
		return RiskProfile(fl.Field().String()).IsValid()
	})
	return v
}

// ValidateGoal checks a goal against the documented input bounds and the
// configured horizon limits. The returned error is always a *ValidationError.
func ValidateGoal(goal GoalSpec, thresholds ThresholdConfig) error {
	var fields []FieldError

	if err := validate.Struct(goal); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &ValidationError{
				Operation: "validate_goal",
				Fields:    []FieldError{{Field: "", Code: "ERR_UNKNOWN", Message: err.Error()}},
			}
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Code:    "ERR_" + strings.ToUpper(fe.Tag()),
				Message: fieldMessage(fe),
			})
		}
	}

	for name, v := range map[string]float64{
		"currentWealth":       goal.CurrentWealth,
		"targetWealth":        goal.TargetWealth,
		"monthlyContribution": goal.MonthlyContribution,
		"monthlyIncome":       goal.Income(),
	} {
		if math.IsInf(v, 0) {
			fields = append(fields, FieldError{Field: name, Code: "ERR_FINITE", Message: name + " must be finite"})
		}
	}

	if goal.YearsToGoal >= 1 && goal.YearsToGoal <= 50 &&
		(goal.YearsToGoal < thresholds.MinHorizonYears || goal.YearsToGoal > thresholds.MaxHorizonYears) {
		fields = append(fields, FieldError{
			Field: "yearsToGoal",
			Code:  "ERR_HORIZON",
			Message: fmt.Sprintf("yearsToGoal must be between %d and %d",
				thresholds.MinHorizonYears, thresholds.MaxHorizonYears),
		})
	}

	if len(fields) == 0 {
		return nil
	}
	sortFieldErrors(fields)
	return &ValidationError{Operation: "validate_goal", Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "riskprofile":
		names := make([]string, 0, len(RiskProfiles))
		for _, p := range RiskProfiles {
			names = append(names, string(p))
		}
		return fmt.Sprintf("%s %q is not one of: %s", field, fe.Value(), strings.Join(names, ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// sortFieldErrors keeps output stable; the finite-value checks iterate a map.
func sortFieldErrors(fields []FieldError) {
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
}
