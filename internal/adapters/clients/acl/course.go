package acl

import (
	"context"
	"net/http"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/params"
)

// CourseClient covers course detail, instances, enrolments, attendance and
// scheduling.
type CourseClient struct {
	BaseAdapter
}

// NewCourseClient creates a course client on top of the pipeline.
func NewCourseClient(requester Requester) *CourseClient {
	return &CourseClient{BaseAdapter: NewBaseAdapter(requester)}
}

// GetDetail calls GET course/detail with type and id.
func (c *CourseClient) GetDetail(ctx context.Context, p params.Params) (*clients.Response, error) {
	return c.Query(ctx, PathCourseDetail, detailRules, p)
}

// Create calls POST course/ with data unchanged.
func (c *CourseClient) Create(ctx context.Context, data params.Params) (*clients.Response, error) {
	return c.Send(ctx, http.MethodPost, PathCourse, passthrough, data)
}

// GetInstances calls GET course/instances. Boolean filters are normalized and
// updatedAfter/updatedBefore must be LMS dates.
func (c *CourseClient) GetInstances(ctx context.Context, p params.Params) (*clients.Response, error) {
	return c.Query(ctx, PathInstances, instancesRules, p)
}

// GetInstanceDetail calls GET course/instance/detail with type and instanceID.
func (c *CourseClient) GetInstanceDetail(ctx context.Context, p params.Params) (*clients.Response, error) {
	return c.Query(ctx, PathInstanceDetail, instanceDetailRules, p)
}

// CreateInstance calls POST course/instance/ with data unchanged.
func (c *CourseClient) CreateInstance(ctx context.Context, data params.Params) (*clients.Response, error) {
	return c.Send(ctx, http.MethodPost, PathInstance, passthrough, data)
}

// UpdateInstance calls PUT course/instance/ with data unchanged.
func (c *CourseClient) UpdateInstance(ctx context.Context, data params.Params) (*clients.Response, error) {
	return c.Send(ctx, http.MethodPut, PathInstance, passthrough, data)
}

// SearchInstances calls POST course/instance/search with data unchanged.
func (c *CourseClient) SearchInstances(ctx context.Context, data params.Params) (*clients.Response, error) {
	return c.Send(ctx, http.MethodPost, PathInstanceSearch, passthrough, data)
}

// Enrol calls POST course/enrol. contactID, type and instanceID are required.
func (c *CourseClient) Enrol(ctx context.Context, data params.Params) (*clients.Response, error) {
	return c.Send(ctx, http.MethodPost, PathEnrol, enrolRules, data)
}

// EnrolMultiple calls POST course/enrolMultiple. Only workshops (type w)
// accept multiple enrolment.
func (c *CourseClient) EnrolMultiple(ctx context.Context, data params.Params) (*clients.Response, error) {
	return c.Send(ctx, http.MethodPost, PathEnrolMultiple, enrolMultipleRules, data)
}

// GetEnrolments calls GET course/enrolments. type, when given, must be p or w.
func (c *CourseClient) GetEnrolments(ctx context.Context, p params.Params) (*clients.Response, error) {
	return c.Query(ctx, PathEnrolments, enrolmentsRules, p)
}

// UpdateEnrolment calls PUT course/enrolment. type, instanceID and contactID
// are required.
func (c *CourseClient) UpdateEnrolment(ctx context.Context, data params.Params) (*clients.Response, error) {
	return c.Send(ctx, http.MethodPut, PathEnrolment, updateEnrolmentRules, data)
}

// GetDiscounts calls GET course/discounts.
func (c *CourseClient) GetDiscounts(ctx context.Context, p params.Params) (*clients.Response, error) {
	return c.Query(ctx, PathDiscounts, discountsRules, p)
}

// Enquire calls POST course/enquire. contactID and message are required.
func (c *CourseClient) Enquire(ctx context.Context, data params.Params) (*clients.Response, error) {
	return c.Send(ctx, http.MethodPost, PathEnquire, enquireRules, data)
}

// GetCalendar calls GET course/calendar.
func (c *CourseClient) GetCalendar(ctx context.Context, p params.Params) (*clients.Response, error) {
	return c.Query(ctx, PathCalendar, calendarRules, p)
}

// GetLocations calls GET course/locations with p unchanged.
func (c *CourseClient) GetLocations(ctx context.Context, p params.Params) (*clients.Response, error) {
	return c.Query(ctx, PathLocations, passthrough, p)
}

// GetResources calls GET course/resources.
func (c *CourseClient) GetResources(ctx context.Context, p params.Params) (*clients.Response, error) {
	return c.Query(ctx, PathResources, resourcesRules, p)
}

// GetAttendance calls GET course/instance/attendance.
func (c *CourseClient) GetAttendance(ctx context.Context, p params.Params) (*clients.Response, error) {
	return c.Query(ctx, PathAttendance, attendanceRules, p)
}

// SetAttendance calls PUT course/instance/attendance. type and instanceID
// are required.
func (c *CourseClient) SetAttendance(ctx context.Context, data params.Params) (*clients.Response, error) {
	return c.Send(ctx, http.MethodPut, PathAttendance, setAttendanceRules, data)
}

// GetComplexDates calls GET course/instance/complexdate/{instanceID}.
func (c *CourseClient) GetComplexDates(ctx context.Context, instanceID int) (*clients.Response, error) {
	return c.Instance(ctx, http.MethodGet, PathComplexDatePrefix, instanceID, nil)
}

// SetComplexDate calls POST course/instance/complexdate/{instanceID}.
func (c *CourseClient) SetComplexDate(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error) {
	return c.Instance(ctx, http.MethodPost, PathComplexDatePrefix, instanceID, data)
}

// GetExtraTrainer calls GET course/instance/extratrainer/{instanceID}.
func (c *CourseClient) GetExtraTrainer(ctx context.Context, instanceID int) (*clients.Response, error) {
	return c.Instance(ctx, http.MethodGet, PathExtraTrainer, instanceID, nil)
}

// AddExtraTrainer calls POST course/instance/extratrainer/{instanceID}.
func (c *CourseClient) AddExtraTrainer(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error) {
	return c.Instance(ctx, http.MethodPost, PathExtraTrainer, instanceID, data)
}

// UpdateExtraTrainer calls PUT course/instance/extratrainer/{instanceID}.
func (c *CourseClient) UpdateExtraTrainer(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error) {
	return c.Instance(ctx, http.MethodPut, PathExtraTrainer, instanceID, data)
}

// DeleteExtraTrainer calls DELETE course/instance/extratrainer/{instanceID}.
func (c *CourseClient) DeleteExtraTrainer(ctx context.Context, instanceID int) (*clients.Response, error) {
	return c.Instance(ctx, http.MethodDelete, PathExtraTrainer, instanceID, nil)
}
