// Package app contains the LMS facade that callers and the CLI use.
// It depends on port interfaces, not on the HTTP adapters directly.
package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/params"
	"github.com/jsamuelsen/axcelerate-go/internal/ports"
)

// HealthCheckName is the name the facade registers under in a health registry.
const HealthCheckName = "axcelerate"

// defaultInstanceConcurrency bounds InstancesForCourses fan-out.
const defaultInstanceConcurrency = 4

// LMSService is the single entry point to the LMS API. It forwards each call
// to the endpoint client that owns it and never reinterprets errors.
type LMSService struct {
	requester   ports.Requester
	courses     ports.CourseCatalog
	course      ports.CourseOperations
	concurrency int
	logger      *slog.Logger
}

// LMSServiceConfig contains the dependencies of the facade.
type LMSServiceConfig struct {
	Requester ports.Requester
	Courses   ports.CourseCatalog
	Course    ports.CourseOperations

	// Concurrency bounds InstancesForCourses. Zero uses a small default.
	Concurrency int

	Logger *slog.Logger
}

// NewLMSService creates the facade. It panics when a dependency is missing.
func NewLMSService(cfg LMSServiceConfig) *LMSService {
	if cfg.Requester == nil || cfg.Courses == nil || cfg.Course == nil {
		panic("app: requester, courses and course clients are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultInstanceConcurrency
	}

	return &LMSService{
		requester:   cfg.Requester,
		courses:     cfg.Courses,
		course:      cfg.Course,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Courses returns the catalog client.
func (s *LMSService) Courses() ports.CourseCatalog {
	return s.courses
}

// Course returns the course operations client.
func (s *LMSService) Course() ports.CourseOperations {
	return s.course
}

// TestConnection calls the API root ({base}/api/) and returns its response.
func (s *LMSService) TestConnection(ctx context.Context) (*clients.Response, error) {
	resp, err := s.requester.Get(ctx, "", nil)
	if err != nil {
		s.logger.WarnContext(ctx, "LMS connection test failed", slog.Any("error", err))
		return nil, err
	}

	return resp, nil
}

// Name implements ports.HealthChecker.
func (s *LMSService) Name() string {
	return HealthCheckName
}

// Check implements ports.HealthChecker by running TestConnection.
func (s *LMSService) Check(ctx context.Context) error {
	_, err := s.TestConnection(ctx)
	return err
}

// Overview is a small connectivity report: how many courses and locations
// the tenant returns.
type Overview struct {
	Courses   int `json:"courses"`
	Locations int `json:"locations"`
}

// Overview fetches the course list and the location list concurrently.
func (s *LMSService) Overview(ctx context.Context) (*Overview, error) {
	courses, locations, err := Parallel2(ctx,
		func(ctx context.Context) (*clients.Response, error) {
			return s.courses.GetCourses(ctx, params.Of("type", "all"))
		},
		func(ctx context.Context) (*clients.Response, error) {
			return s.course.GetLocations(ctx, nil)
		},
	)
	if err != nil {
		return nil, err
	}

	courseList, err := courses.List()
	if err != nil {
		return nil, err
	}

	locationList, err := locations.List()
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "LMS overview",
		slog.Int("courses", len(courseList)),
		slog.Int("locations", len(locationList)),
	)

	return &Overview{Courses: len(courseList), Locations: len(locationList)}, nil
}

// InstancesForCourses fetches the instances of several courses of one type
// with bounded concurrency. Results keep the order of courseIDs; the first
// failure cancels the rest.
func (s *LMSService) InstancesForCourses(ctx context.Context, courseType string, courseIDs []int, filters params.Params) ([]*clients.Response, error) {
	fns := make([]func(context.Context) (*clients.Response, error), 0, len(courseIDs))
	for _, id := range courseIDs {
		query := filters.With("type", courseType).With("id", id)
		fns = append(fns, func(ctx context.Context) (*clients.Response, error) {
			return s.course.GetInstances(ctx, query)
		})
	}

	return ParallelLimit(ctx, s.concurrency, fns...)
}

// GetCourses lists courses.
func (s *LMSService) GetCourses(ctx context.Context, p params.Params) (*clients.Response, error) {
	return s.courses.GetCourses(ctx, p)
}

// GetCourseDetail returns one course.
func (s *LMSService) GetCourseDetail(ctx context.Context, p params.Params) (*clients.Response, error) {
	return s.course.GetDetail(ctx, p)
}

// CreateCourse creates a course.
func (s *LMSService) CreateCourse(ctx context.Context, data params.Params) (*clients.Response, error) {
	return s.course.Create(ctx, data)
}

// GetCourseInstances lists course instances.
func (s *LMSService) GetCourseInstances(ctx context.Context, p params.Params) (*clients.Response, error) {
	return s.course.GetInstances(ctx, p)
}

// GetCourseInstanceDetail returns one course instance.
func (s *LMSService) GetCourseInstanceDetail(ctx context.Context, p params.Params) (*clients.Response, error) {
	return s.course.GetInstanceDetail(ctx, p)
}

// CreateCourseInstance creates a course instance.
func (s *LMSService) CreateCourseInstance(ctx context.Context, data params.Params) (*clients.Response, error) {
	return s.course.CreateInstance(ctx, data)
}

// UpdateCourseInstance updates a course instance.
func (s *LMSService) UpdateCourseInstance(ctx context.Context, data params.Params) (*clients.Response, error) {
	return s.course.UpdateInstance(ctx, data)
}

// SearchCourseInstances runs an instance search.
func (s *LMSService) SearchCourseInstances(ctx context.Context, data params.Params) (*clients.Response, error) {
	return s.course.SearchInstances(ctx, data)
}

// EnrolInCourse enrols one contact.
func (s *LMSService) EnrolInCourse(ctx context.Context, data params.Params) (*clients.Response, error) {
	return s.course.Enrol(ctx, data)
}

// EnrolMultipleInCourse enrols several students in a workshop.
func (s *LMSService) EnrolMultipleInCourse(ctx context.Context, data params.Params) (*clients.Response, error) {
	return s.course.EnrolMultiple(ctx, data)
}

// GetCourseEnrolments lists enrolments of a program or workshop.
func (s *LMSService) GetCourseEnrolments(ctx context.Context, p params.Params) (*clients.Response, error) {
	return s.course.GetEnrolments(ctx, p)
}

// UpdateCourseEnrolment updates one enrolment.
func (s *LMSService) UpdateCourseEnrolment(ctx context.Context, data params.Params) (*clients.Response, error) {
	return s.course.UpdateEnrolment(ctx, data)
}

// GetCourseDiscounts lists applicable discounts.
func (s *LMSService) GetCourseDiscounts(ctx context.Context, p params.Params) (*clients.Response, error) {
	return s.course.GetDiscounts(ctx, p)
}

// EnquireAboutCourse records a course enquiry.
func (s *LMSService) EnquireAboutCourse(ctx context.Context, data params.Params) (*clients.Response, error) {
	return s.course.Enquire(ctx, data)
}

// GetCourseCalendar returns the course calendar.
func (s *LMSService) GetCourseCalendar(ctx context.Context, p params.Params) (*clients.Response, error) {
	return s.course.GetCalendar(ctx, p)
}

// GetCourseLocations lists course locations.
func (s *LMSService) GetCourseLocations(ctx context.Context, p params.Params) (*clients.Response, error) {
	return s.course.GetLocations(ctx, p)
}

// GetCourseResources lists course resources.
func (s *LMSService) GetCourseResources(ctx context.Context, p params.Params) (*clients.Response, error) {
	return s.course.GetResources(ctx, p)
}

// GetCourseAttendance returns attendance records.
func (s *LMSService) GetCourseAttendance(ctx context.Context, p params.Params) (*clients.Response, error) {
	return s.course.GetAttendance(ctx, p)
}

// SetCourseAttendance updates attendance records.
func (s *LMSService) SetCourseAttendance(ctx context.Context, data params.Params) (*clients.Response, error) {
	return s.course.SetAttendance(ctx, data)
}

// GetCourseComplexDates lists the complex dates of an instance.
func (s *LMSService) GetCourseComplexDates(ctx context.Context, instanceID int) (*clients.Response, error) {
	return s.course.GetComplexDates(ctx, instanceID)
}

// SetCourseComplexDate adds a complex date to an instance.
func (s *LMSService) SetCourseComplexDate(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error) {
	return s.course.SetComplexDate(ctx, instanceID, data)
}

// GetCourseExtraTrainer lists extra trainers of an instance.
func (s *LMSService) GetCourseExtraTrainer(ctx context.Context, instanceID int) (*clients.Response, error) {
	return s.course.GetExtraTrainer(ctx, instanceID)
}

// AddCourseExtraTrainer adds an extra trainer to an instance.
func (s *LMSService) AddCourseExtraTrainer(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error) {
	return s.course.AddExtraTrainer(ctx, instanceID, data)
}

// UpdateCourseExtraTrainer updates an extra trainer of an instance.
func (s *LMSService) UpdateCourseExtraTrainer(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error) {
	return s.course.UpdateExtraTrainer(ctx, instanceID, data)
}

// DeleteCourseExtraTrainer removes an extra trainer from an instance.
func (s *LMSService) DeleteCourseExtraTrainer(ctx context.Context, instanceID int) (*clients.Response, error) {
	return s.course.DeleteExtraTrainer(ctx, instanceID)
}
