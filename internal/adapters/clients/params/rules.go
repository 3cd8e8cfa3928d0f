package params

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen/axcelerate-go/internal/domain"
)

// Kind selects how a Check treats its field.
type Kind int

// Check kinds.
const (
	// KindCourseType accepts w, p or el.
	KindCourseType Kind = iota

	// KindCourseTypeOrAll accepts w, p, el or all.
	KindCourseTypeOrAll

	// KindBoolean rewrites the field to "true" or "false".
	KindBoolean

	// KindDate requires YYYY-MM-DD or YYYY-MM-DD hh:mm.
	KindDate

	// KindOneOf accepts only Check.Values and fails with Check.Rule and
	// Check.Message (a format string receiving the rejected value).
	KindOneOf
)

// Check binds one parameter to one constraint. Checks other than required
// fields only run when the parameter is set.
type Check struct {
	Field   string
	Kind    Kind
	Values  []string
	Rule    string
	Message string
}

// RuleSet is the static validation table for one endpoint.
type RuleSet struct {
	// Allowed is the allow-list applied before any check. Nil passes every
	// parameter through unchanged.
	Allowed []string

	// Required lists fields checked first, fail-fast, in order.
	Required []string

	// Checks run in declaration order after the required fields.
	Checks []Check
}

// Apply filters input by the allow-list and runs every check, returning the
// parameters ready to send with boolean fields normalized.
func (r RuleSet) Apply(input Params) (Params, error) {
	out := input
	if r.Allowed != nil {
		out = Filter(input, r.Allowed)
	}

	if err := ValidateRequiredFields(out, r.Required...); err != nil {
		return nil, err
	}

	for _, check := range r.Checks {
		if !out.IsSet(check.Field) {
			continue
		}

		value, _ := out.Get(check.Field)

		switch check.Kind {
		case KindCourseType:
			if err := ValidateCourseType(check.Field, value, false); err != nil {
				return nil, err
			}
		case KindCourseTypeOrAll:
			if err := ValidateCourseType(check.Field, value, true); err != nil {
				return nil, err
			}
		case KindBoolean:
			out = out.With(check.Field, NormalizeBooleanParameter(value))
		case KindDate:
			if err := ValidateDateFormat(check.Field, value); err != nil {
				return nil, err
			}
		case KindOneOf:
			if err := check.oneOf(value); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("params: unknown check kind %d for %q", check.Kind, check.Field)
		}
	}

	return out, nil
}

func (c Check) oneOf(value any) error {
	s, _ := Scalar(value)
	if validate.Var(s, "required,oneof="+strings.Join(c.Values, " ")) == nil {
		return nil
	}

	msg := c.Message
	if strings.Contains(msg, "%") {
		msg = fmt.Sprintf(msg, s)
	}

	return domain.NewValidationErrorWithValue(c.Field, c.Rule, msg, value)
}
