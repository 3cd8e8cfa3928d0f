package domain

// CourseType is the LMS activity type code sent as the "type" parameter.
type CourseType string

// Activity types understood by the LMS.
const (
	CourseTypeWorkshop  CourseType = "w"
	CourseTypeProgram   CourseType = "p"
	CourseTypeELearning CourseType = "el"

	// CourseTypeAll is accepted only by the course listing.
	CourseTypeAll CourseType = "all"
)

// CourseTypes lists the activity types accepted by instance-level endpoints.
func CourseTypes() []CourseType {
	return []CourseType{CourseTypeWorkshop, CourseTypeProgram, CourseTypeELearning}
}

// Valid reports whether t is a concrete activity type (w, p or el).
func (t CourseType) Valid() bool {
	switch t {
	case CourseTypeWorkshop, CourseTypeProgram, CourseTypeELearning:
		return true
	default:
		return false
	}
}

// Label returns the human-readable name of t.
func (t CourseType) Label() string {
	switch t {
	case CourseTypeWorkshop:
		return "workshop"
	case CourseTypeProgram:
		return "program"
	case CourseTypeELearning:
		return "e-learning"
	case CourseTypeAll:
		return "all"
	default:
		return string(t)
	}
}
