package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/axcelerate-go/internal/domain"
)

func TestFilter_PreservesOrderAndDropsUnknown(t *testing.T) {
	input := Of("a", 1, "b", 2, "c", 3)

	out := Filter(input, []string{"c", "a"})

	assert.Equal(t, Of("a", 1, "c", 3), out)
}

func TestFilter_EmptyAllowList(t *testing.T) {
	assert.Empty(t, Filter(Of("a", 1), nil))
}

func TestValidateCourseType(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		allowAll bool
		wantErr  bool
	}{
		{"workshop", "w", false, false},
		{"program", "p", false, false},
		{"e-learning", "el", false, false},
		{"typed constant", domain.CourseTypeWorkshop, false, false},
		{"all rejected by default", "all", false, true},
		{"all accepted for listings", "all", true, false},
		{"unknown", "x", false, true},
		{"uppercase", "W", false, true},
		{"empty", "", true, true},
		{"number", 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCourseType("type", tt.value, tt.allowAll)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var valErr *domain.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, "type", valErr.Field)
			assert.Equal(t, RuleCourseType, valErr.Rule)
		})
	}
}

func TestValidateCourseType_Message(t *testing.T) {
	err := ValidateCourseType("type", "x", false)
	assert.EqualError(t, err, "Invalid course type 'x'. Must be one of: w (workshop), p (program), el (e-learning)")

	err = ValidateCourseType("type", "x", true)
	assert.EqualError(t, err, "Invalid course type 'x'. Must be one of: w (workshop), p (program), el (e-learning), all (all types)")
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		data      Params
		fields    []string
		wantField string
	}{
		{
			name:   "all present",
			data:   Of("contactID", 1, "type", "w", "instanceID", 2),
			fields: []string{"contactID", "type", "instanceID"},
		},
		{
			name:      "absent",
			data:      Of("type", "w"),
			fields:    []string{"contactID", "type"},
			wantField: "contactID",
		},
		{
			name:      "empty string",
			data:      Of("contactID", 1, "type", ""),
			fields:    []string{"contactID", "type"},
			wantField: "type",
		},
		{
			name:      "nil value",
			data:      Of("contactID", nil),
			fields:    []string{"contactID"},
			wantField: "contactID",
		},
		{
			name:      "false coerces to empty",
			data:      Of("message", false),
			fields:    []string{"message"},
			wantField: "message",
		},
		{
			name:   "zero is present",
			data:   Of("contactID", 0),
			fields: []string{"contactID"},
		},
		{
			name:   "composite values are present",
			data:   Of("students", []any{}),
			fields: []string{"students"},
		},
		{
			name:      "fails on first violation in field order",
			data:      Of("a", "", "b", ""),
			fields:    []string{"b", "a"},
			wantField: "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequiredFields(tt.data, tt.fields...)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var valErr *domain.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.wantField, valErr.Field)
			assert.Equal(t, RuleRequired, valErr.Rule)
			assert.Equal(t, "Required field '"+tt.wantField+"' is missing or empty", valErr.Message)
		})
	}
}

func TestNormalizeBooleanParameter(t *testing.T) {
	tests := []struct {
		input    any
		expected string
	}{
		{true, "true"},
		{"true", "true"},
		{"1", "true"},
		{"yes", "true"},
		{"on", "true"},
		{"TRUE", "true"},
		{"Yes", "true"},
		{1, "true"},
		{false, "false"},
		{"false", "false"},
		{"0", "false"},
		{"no", "false"},
		{"off", "false"},
		{"OFF", "false"},
		{0, "false"},
		{0.0, "false"},
		{"", "false"},
		{nil, "false"},
		{"maybe", "true"},
		{2, "true"},
		{[]int{}, "false"},
		{[]int{1}, "true"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeBooleanParameter(tt.input), "input %#v", tt.input)
	}
}

func TestValidateDateFormat(t *testing.T) {
	tests := []struct {
		value   any
		wantErr bool
	}{
		{"2023-12-01", false},
		{"2023-12-31 23:59", false},
		{"2023-13-01 99:99", false},
		{"invalid-date", true},
		{"2023-12-01T10:00", true},
		{"2023-12-01 10:00:00", true},
		{"23-12-01", true},
		{"", true},
		{20231201, true},
	}

	for _, tt := range tests {
		err := ValidateDateFormat("updatedAfter", tt.value)
		if !tt.wantErr {
			assert.NoError(t, err, "value %#v", tt.value)
			continue
		}

		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr, "value %#v", tt.value)
		assert.Equal(t, RuleDateFormat, valErr.Rule)
		assert.Equal(t, "Field 'updatedAfter' must be in format 'YYYY-MM-DD' or 'YYYY-MM-DD hh:mm'", valErr.Message)
	}
}

func TestNewValidator_RegistersLMSDate(t *testing.T) {
	require.NotPanics(t, func() {
		v := newValidator()
		assert.NoError(t, v.Var("2024-01-01 09:30", "lmsdate"))
		assert.Error(t, v.Var("01/01/2024", "lmsdate"))
	})
}

func TestValidateInstanceID(t *testing.T) {
	assert.NoError(t, ValidateInstanceID(1))

	for _, id := range []int{0, -4} {
		err := ValidateInstanceID(id)
		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, RulePositiveInteger, valErr.Rule)
		assert.Equal(t, id, valErr.Value)
	}
}
