package params

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/axcelerate-go/internal/domain"
)

// Validation rule names carried on domain.ValidationError.
const (
	RuleRequired        = "required"
	RuleCourseType      = "invalid_course_type"
	RuleDateFormat      = "invalid_date_format"
	RuleWorkshopOnly    = "workshop_only"
	RuleEnrolmentType   = "enrolment_type"
	RulePositiveInteger = "positive_integer"
	RuleInvalidBody     = "invalid_body"
	RuleInvalidPath     = "invalid_path"
)

// lmsDatePattern accepts YYYY-MM-DD with an optional " hh:mm". It checks shape
// only; 2023-13-01 99:99 passes.
var lmsDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}( \d{2}:\d{2})?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	if err := v.RegisterValidation("lmsdate", func(fl validator.FieldLevel) bool {
		return lmsDatePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("params: registering lmsdate validation: %v", err))
	}

	return v
}

// Filter keeps the entries of input whose name is in allowed, in input order.
// Unknown names are dropped silently.
func Filter(input Params, allowed []string) Params {
	out := make(Params, 0, len(input))
	for _, param := range input {
		if slices.Contains(allowed, param.Name) {
			out = append(out, param)
		}
	}

	return out
}

// ValidateCourseType checks value against the activity types w, p and el.
// allowAll additionally accepts "all", which only the course listing supports.
func ValidateCourseType(field string, value any, allowAll bool) error {
	types := []string{
		string(domain.CourseTypeWorkshop),
		string(domain.CourseTypeProgram),
		string(domain.CourseTypeELearning),
	}
	if allowAll {
		types = append(types, string(domain.CourseTypeAll))
	}

	s, _ := Scalar(value)
	if validate.Var(s, "required,oneof="+strings.Join(types, " ")) == nil {
		return nil
	}

	msg := fmt.Sprintf("Invalid course type '%s'. Must be one of: w (workshop), p (program), el (e-learning)", s)
	if allowAll {
		msg += ", all (all types)"
	}

	return domain.NewValidationErrorWithValue(field, RuleCourseType, msg, value)
}

// ValidateRequiredFields fails on the first field, in order, that is absent,
// nil, or whose scalar form is empty. Composite values count as present.
func ValidateRequiredFields(data Params, fields ...string) error {
	for _, field := range fields {
		value, ok := data.Get(field)
		if ok && value != nil {
			s, scalar := Scalar(value)
			if !scalar || validate.Var(s, "required") == nil {
				continue
			}
		}

		return domain.NewValidationErrorWithValue(field, RuleRequired,
			fmt.Sprintf("Required field '%s' is missing or empty", field), value)
	}

	return nil
}

// NormalizeBooleanParameter renders value as the literal "true" or "false".
// Booleans map directly. Strings true/1/yes/on and false/0/no/off map
// case-insensitively. Anything else falls back to truthiness, so "maybe" is
// "true" and 0 is "false".
func NormalizeBooleanParameter(value any) string {
	if b, ok := value.(bool); ok {
		return formatBool(b)
	}

	if s, ok := value.(string); ok {
		switch strings.ToLower(s) {
		case "true", "1", "yes", "on":
			return "true"
		case "false", "0", "no", "off":
			return "false"
		}
	}

	return formatBool(truthy(value))
}

// ValidateDateFormat checks that value looks like YYYY-MM-DD or
// YYYY-MM-DD hh:mm. It does not check that the date exists.
func ValidateDateFormat(field string, value any) error {
	s, ok := Scalar(value)
	if ok && validate.Var(s, "lmsdate") == nil {
		return nil
	}

	return domain.NewValidationErrorWithValue(field, RuleDateFormat,
		fmt.Sprintf("Field '%s' must be in format 'YYYY-MM-DD' or 'YYYY-MM-DD hh:mm'", field), value)
}

// ValidateInstanceID checks an instance ID used as a path segment.
func ValidateInstanceID(id int) error {
	if validate.Var(id, "gt=0") == nil {
		return nil
	}

	return domain.NewValidationErrorWithValue("instanceID", RulePositiveInteger,
		fmt.Sprintf("Field 'instanceID' must be a positive integer, got %d", id), id)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}

	return "false"
}

// truthy mirrors form-value truthiness: nil, false, zero numbers, "", "0"
// and empty collections are false.
func truthy(value any) bool {
	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.Invalid:
		return false
	case reflect.String:
		s := v.String()
		return s != "" && s != "0"
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() > 0
	case reflect.Pointer:
		return !v.IsNil()
	default:
		return true
	}
}
