package acl

import "github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/params"

// Endpoint paths, relative to {base}/api/.
const (
	PathCourses           = "courses/"
	PathCourseDetail      = "course/detail"
	PathCourse            = "course/"
	PathInstances         = "course/instances"
	PathInstanceDetail    = "course/instance/detail"
	PathInstance          = "course/instance/"
	PathInstanceSearch    = "course/instance/search"
	PathEnrol             = "course/enrol"
	PathEnrolMultiple     = "course/enrolMultiple"
	PathEnrolments        = "course/enrolments"
	PathEnrolment         = "course/enrolment"
	PathDiscounts         = "course/discounts"
	PathEnquire           = "course/enquire"
	PathCalendar          = "course/calendar"
	PathLocations         = "course/locations"
	PathResources         = "course/resources"
	PathAttendance        = "course/instance/attendance"
	PathComplexDatePrefix = "course/instance/complexdate/"
	PathExtraTrainer      = "course/instance/extratrainer/"
)

var courseTypeCheck = params.Check{Field: "type", Kind: params.KindCourseType}

var (
	coursesRules = params.RuleSet{
		Allowed: []string{"ID", "type", "current", "public", "lastUpdated_min", "lastUpdated_max", "IsActive"},
		Checks: []params.Check{
			{Field: "type", Kind: params.KindCourseTypeOrAll},
			{Field: "current", Kind: params.KindBoolean},
			{Field: "public", Kind: params.KindBoolean},
			{Field: "IsActive", Kind: params.KindBoolean},
			{Field: "lastUpdated_min", Kind: params.KindDate},
			{Field: "lastUpdated_max", Kind: params.KindDate},
		},
	}

	detailRules = params.RuleSet{
		Allowed: []string{"type", "id"},
		Checks:  []params.Check{courseTypeCheck},
	}

	instancesRules = params.RuleSet{
		Allowed: []string{"type", "id", "public", "current", "active", "updatedAfter", "updatedBefore"},
		Checks: []params.Check{
			courseTypeCheck,
			{Field: "public", Kind: params.KindBoolean},
			{Field: "current", Kind: params.KindBoolean},
			{Field: "active", Kind: params.KindBoolean},
			{Field: "updatedAfter", Kind: params.KindDate},
			{Field: "updatedBefore", Kind: params.KindDate},
		},
	}

	instanceDetailRules = params.RuleSet{
		Allowed: []string{"type", "instanceID"},
		Checks:  []params.Check{courseTypeCheck},
	}

	enrolRules = params.RuleSet{
		Required: []string{"contactID", "type", "instanceID"},
		Checks:   []params.Check{courseTypeCheck},
	}

	enrolMultipleRules = params.RuleSet{
		Required: []string{"payerContactID", "type", "instanceID", "students"},
		Checks: []params.Check{{
			Field:   "type",
			Kind:    params.KindOneOf,
			Values:  []string{"w"},
			Rule:    params.RuleWorkshopOnly,
			Message: "Multiple enrollment is only allowed for workshop type (w)",
		}},
	}

	enrolmentsRules = params.RuleSet{
		Allowed: []string{"type", "instanceID", "includeStatus"},
		Checks: []params.Check{{
			Field:   "type",
			Kind:    params.KindOneOf,
			Values:  []string{"p", "w"},
			Rule:    params.RuleEnrolmentType,
			Message: "Enrollment operations are not allowed for course type '%s'",
		}},
	}

	updateEnrolmentRules = params.RuleSet{
		Required: []string{"type", "instanceID", "contactID"},
		Checks:   []params.Check{courseTypeCheck},
	}

	discountsRules = params.RuleSet{
		Allowed: []string{"type", "instanceID", "originalPrice", "contactID", "groupSize", "promoCode", "discountIDs"},
		Checks:  []params.Check{courseTypeCheck},
	}

	enquireRules = params.RuleSet{
		Required: []string{"contactID", "message"},
		Checks:   []params.Check{courseTypeCheck},
	}

	calendarRules = params.RuleSet{
		Allowed: []string{"locationID", "start", "end", "type", "trainerID"},
	}

	resourcesRules = params.RuleSet{
		Allowed: []string{"type", "id", "instanceID"},
		Checks:  []params.Check{courseTypeCheck},
	}

	attendanceRules = params.RuleSet{
		Allowed: []string{"type", "instanceID", "contactID"},
		Checks:  []params.Check{courseTypeCheck},
	}

	setAttendanceRules = params.RuleSet{
		Required: []string{"type", "instanceID"},
		Checks:   []params.Check{courseTypeCheck},
	}

	// passthrough sends every parameter unchanged.
	passthrough = params.RuleSet{}
)
