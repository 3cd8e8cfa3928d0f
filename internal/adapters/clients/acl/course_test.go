package acl

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/params"
	"github.com/jsamuelsen/axcelerate-go/internal/domain"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeLMS struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeLMS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(body),
	})
	status, respBody := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if respBody == "" {
		respBody = `{"ok":true}`
	}

	w.WriteHeader(status)
	_, _ = w.Write([]byte(respBody))
}

func (f *fakeLMS) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]recordedRequest(nil), f.requests...)
}

func setupCourseClients(t *testing.T) (*CoursesClient, *CourseClient, *fakeLMS) {
	t.Helper()

	lms := &fakeLMS{}
	server := httptest.NewServer(lms)
	t.Cleanup(server.Close)

	retries := 0
	pipeline, err := clients.New(&clients.Config{
		BaseURL:       server.URL,
		WSToken:       "ws",
		APIToken:      "api",
		Timeout:       5 * time.Second,
		RetryAttempts: &retries,
	})
	require.NoError(t, err)

	return NewCoursesClient(pipeline), NewCourseClient(pipeline), lms
}

func TestCoursesClient_GetCourses(t *testing.T) {
	courses, _, lms := setupCourseClients(t)

	_, err := courses.GetCourses(context.Background(), params.Of(
		"type", "all",
		"current", "yes",
		"unknown", "dropped",
		"lastUpdated_min", "2023-12-01 10:00",
		"IsActive", 0,
	))
	require.NoError(t, err)

	reqs := lms.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/api/courses/", reqs[0].Path)
	assert.Equal(t, "type=all&current=true&lastUpdated_min=2023-12-01+10%3A00&IsActive=false", reqs[0].Query)
}

func TestCoursesClient_GetCourses_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input params.Params
		field string
		rule  string
	}{
		{"bad type", params.Of("type", "x"), "type", params.RuleCourseType},
		{"bad min date", params.Of("lastUpdated_min", "yesterday"), "lastUpdated_min", params.RuleDateFormat},
		{"bad max date", params.Of("lastUpdated_max", "2023/01/01"), "lastUpdated_max", params.RuleDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, _, lms := setupCourseClients(t)

			_, err := courses.GetCourses(context.Background(), tt.input)

			var valErr *domain.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
			assert.Equal(t, tt.rule, valErr.Rule)
			assert.Empty(t, lms.Requests(), "validation must fail before any network call")
		})
	}
}

func TestCourseClient_Routes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func(c *CourseClient) (*clients.Response, error)
		method string
		path   string
		query  string
		body   string
	}{
		{
			name:   "GetDetail",
			call:   func(c *CourseClient) (*clients.Response, error) { return c.GetDetail(ctx, params.Of("type", "w", "id", 123, "x", 1)) },
			method: http.MethodGet, path: "/api/course/detail", query: "type=w&id=123",
		},
		{
			name:   "Create",
			call:   func(c *CourseClient) (*clients.Response, error) { return c.Create(ctx, params.Of("name", "First Aid", "extra", 1)) },
			method: http.MethodPost, path: "/api/course/", body: `{"name":"First Aid","extra":1}`,
		},
		{
			name: "GetInstances",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.GetInstances(ctx, params.Of("id", 5, "public", true, "active", "off", "updatedAfter", "2024-01-01"))
			},
			method: http.MethodGet, path: "/api/course/instances", query: "id=5&public=true&active=false&updatedAfter=2024-01-01",
		},
		{
			name: "GetInstanceDetail",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.GetInstanceDetail(ctx, params.Of("instanceID", 9, "type", "p"))
			},
			method: http.MethodGet, path: "/api/course/instance/detail", query: "instanceID=9&type=p",
		},
		{
			name:   "CreateInstance",
			call:   func(c *CourseClient) (*clients.Response, error) { return c.CreateInstance(ctx, params.Of("ID", 1)) },
			method: http.MethodPost, path: "/api/course/instance/", body: `{"ID":1}`,
		},
		{
			name:   "UpdateInstance",
			call:   func(c *CourseClient) (*clients.Response, error) { return c.UpdateInstance(ctx, params.Of("instanceID", 2)) },
			method: http.MethodPut, path: "/api/course/instance/", body: `{"instanceID":2}`,
		},
		{
			name:   "SearchInstances",
			call:   func(c *CourseClient) (*clients.Response, error) { return c.SearchInstances(ctx, nil) },
			method: http.MethodPost, path: "/api/course/instance/search", body: `{}`,
		},
		{
			name: "Enrol",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.Enrol(ctx, params.Of("contactID", 1, "type", "w", "instanceID", 2, "generateInvoice", true))
			},
			method: http.MethodPost, path: "/api/course/enrol", body: `{"contactID":1,"type":"w","instanceID":2,"generateInvoice":true}`,
		},
		{
			name: "EnrolMultiple",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.EnrolMultiple(ctx, params.Of("payerContactID", 1, "type", "w", "instanceID", 2, "students", []map[string]int{{"contactID": 3}}))
			},
			method: http.MethodPost, path: "/api/course/enrolMultiple", body: `{"payerContactID":1,"type":"w","instanceID":2,"students":[{"contactID":3}]}`,
		},
		{
			name: "GetEnrolments",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.GetEnrolments(ctx, params.Of("type", "p", "instanceID", 4, "includeStatus", "yes"))
			},
			method: http.MethodGet, path: "/api/course/enrolments", query: "type=p&instanceID=4&includeStatus=yes",
		},
		{
			name: "UpdateEnrolment",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.UpdateEnrolment(ctx, params.Of("type", "w", "instanceID", 4, "contactID", 5))
			},
			method: http.MethodPut, path: "/api/course/enrolment", body: `{"type":"w","instanceID":4,"contactID":5}`,
		},
		{
			name: "GetDiscounts",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.GetDiscounts(ctx, params.Of("type", "w", "promoCode", "SAVE10", "discountIDs", []int{1, 2}))
			},
			method: http.MethodGet, path: "/api/course/discounts", query: "type=w&promoCode=SAVE10&discountIDs%5B0%5D=1&discountIDs%5B1%5D=2",
		},
		{
			name: "Enquire",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.Enquire(ctx, params.Of("contactID", 1, "message", "Hello"))
			},
			method: http.MethodPost, path: "/api/course/enquire", body: `{"contactID":1,"message":"Hello"}`,
		},
		{
			name: "GetCalendar",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.GetCalendar(ctx, params.Of("locationID", 3, "type", "anything", "page", 2))
			},
			method: http.MethodGet, path: "/api/course/calendar", query: "locationID=3&type=anything",
		},
		{
			name:   "GetLocations",
			call:   func(c *CourseClient) (*clients.Response, error) { return c.GetLocations(ctx, params.Of("anything", "kept")) },
			method: http.MethodGet, path: "/api/course/locations", query: "anything=kept",
		},
		{
			name:   "GetResources",
			call:   func(c *CourseClient) (*clients.Response, error) { return c.GetResources(ctx, params.Of("type", "el", "id", 8)) },
			method: http.MethodGet, path: "/api/course/resources", query: "type=el&id=8",
		},
		{
			name: "GetAttendance",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.GetAttendance(ctx, params.Of("type", "w", "instanceID", 6))
			},
			method: http.MethodGet, path: "/api/course/instance/attendance", query: "type=w&instanceID=6",
		},
		{
			name: "SetAttendance",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.SetAttendance(ctx, params.Of("type", "w", "instanceID", 6, "attended", 1))
			},
			method: http.MethodPut, path: "/api/course/instance/attendance", body: `{"type":"w","instanceID":6,"attended":1}`,
		},
		{
			name:   "GetComplexDates",
			call:   func(c *CourseClient) (*clients.Response, error) { return c.GetComplexDates(ctx, 11) },
			method: http.MethodGet, path: "/api/course/instance/complexdate/11",
		},
		{
			name: "SetComplexDate",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.SetComplexDate(ctx, 11, params.Of("date", "2024-02-01"))
			},
			method: http.MethodPost, path: "/api/course/instance/complexdate/11", body: `{"date":"2024-02-01"}`,
		},
		{
			name:   "GetExtraTrainer",
			call:   func(c *CourseClient) (*clients.Response, error) { return c.GetExtraTrainer(ctx, 12) },
			method: http.MethodGet, path: "/api/course/instance/extratrainer/12",
		},
		{
			name: "AddExtraTrainer",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.AddExtraTrainer(ctx, 12, params.Of("trainerID", 3))
			},
			method: http.MethodPost, path: "/api/course/instance/extratrainer/12", body: `{"trainerID":3}`,
		},
		{
			name: "UpdateExtraTrainer",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.UpdateExtraTrainer(ctx, 12, params.Of("trainerID", 4))
			},
			method: http.MethodPut, path: "/api/course/instance/extratrainer/12", body: `{"trainerID":4}`,
		},
		{
			name:   "DeleteExtraTrainer",
			call:   func(c *CourseClient) (*clients.Response, error) { return c.DeleteExtraTrainer(ctx, 12) },
			method: http.MethodDelete, path: "/api/course/instance/extratrainer/12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, course, lms := setupCourseClients(t)

			resp, err := tt.call(course)
			require.NoError(t, err)
			assert.JSONEq(t, `{"ok":true}`, string(resp.Body))

			reqs := lms.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, tt.method, reqs[0].Method)
			assert.Equal(t, tt.path, reqs[0].Path)
			assert.Equal(t, tt.query, reqs[0].Query)
			if tt.body == "" {
				assert.Empty(t, reqs[0].Body)
			} else {
				assert.JSONEq(t, tt.body, reqs[0].Body)
			}
		})
	}
}

func TestCourseClient_ValidationBeforeNetwork(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func(c *CourseClient) (*clients.Response, error)
		field   string
		rule    string
		message string
	}{
		{
			name:    "detail bad type",
			call:    func(c *CourseClient) (*clients.Response, error) { return c.GetDetail(ctx, params.Of("type", "x")) },
			field:   "type",
			rule:    params.RuleCourseType,
			message: "Invalid course type 'x'. Must be one of: w (workshop), p (program), el (e-learning)",
		},
		{
			name:  "detail rejects all",
			call:  func(c *CourseClient) (*clients.Response, error) { return c.GetDetail(ctx, params.Of("type", "all")) },
			field: "type",
			rule:  params.RuleCourseType,
		},
		{
			name:    "instances bad date",
			call:    func(c *CourseClient) (*clients.Response, error) { return c.GetInstances(ctx, params.Of("updatedBefore", "invalid-date")) },
			field:   "updatedBefore",
			rule:    params.RuleDateFormat,
			message: "Field 'updatedBefore' must be in format 'YYYY-MM-DD' or 'YYYY-MM-DD hh:mm'",
		},
		{
			name:    "enrol missing contact",
			call:    func(c *CourseClient) (*clients.Response, error) { return c.Enrol(ctx, params.Of("type", "w", "instanceID", 2)) },
			field:   "contactID",
			rule:    params.RuleRequired,
			message: "Required field 'contactID' is missing or empty",
		},
		{
			name: "enrol bad type",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.Enrol(ctx, params.Of("contactID", 1, "type", "x", "instanceID", 2))
			},
			field: "type",
			rule:  params.RuleCourseType,
		},
		{
			name: "enrol multiple program",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.EnrolMultiple(ctx, params.Of("payerContactID", 1, "type", "p", "instanceID", 2, "students", []any{}))
			},
			field:   "type",
			rule:    params.RuleWorkshopOnly,
			message: "Multiple enrollment is only allowed for workshop type (w)",
		},
		{
			name: "enrol multiple missing students",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.EnrolMultiple(ctx, params.Of("payerContactID", 1, "type", "w", "instanceID", 2))
			},
			field: "students",
			rule:  params.RuleRequired,
		},
		{
			name:    "enrolments e-learning",
			call:    func(c *CourseClient) (*clients.Response, error) { return c.GetEnrolments(ctx, params.Of("type", "el")) },
			field:   "type",
			rule:    params.RuleEnrolmentType,
			message: "Enrollment operations are not allowed for course type 'el'",
		},
		{
			name: "update enrolment empty contact",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.UpdateEnrolment(ctx, params.Of("type", "w", "instanceID", 1, "contactID", ""))
			},
			field: "contactID",
			rule:  params.RuleRequired,
		},
		{
			name:  "enquire empty message",
			call:  func(c *CourseClient) (*clients.Response, error) { return c.Enquire(ctx, params.Of("contactID", 1, "message", "")) },
			field: "message",
			rule:  params.RuleRequired,
		},
		{
			name: "enquire bad type",
			call: func(c *CourseClient) (*clients.Response, error) {
				return c.Enquire(ctx, params.Of("contactID", 1, "message", "hi", "type", "zz"))
			},
			field: "type",
			rule:  params.RuleCourseType,
		},
		{
			name:  "set attendance missing instance",
			call:  func(c *CourseClient) (*clients.Response, error) { return c.SetAttendance(ctx, params.Of("type", "w")) },
			field: "instanceID",
			rule:  params.RuleRequired,
		},
		{
			name:  "discounts bad type",
			call:  func(c *CourseClient) (*clients.Response, error) { return c.GetDiscounts(ctx, params.Of("type", "q")) },
			field: "type",
			rule:  params.RuleCourseType,
		},
		{
			name:  "complex dates zero id",
			call:  func(c *CourseClient) (*clients.Response, error) { return c.GetComplexDates(ctx, 0) },
			field: "instanceID",
			rule:  params.RulePositiveInteger,
		},
		{
			name:  "delete trainer negative id",
			call:  func(c *CourseClient) (*clients.Response, error) { return c.DeleteExtraTrainer(ctx, -3) },
			field: "instanceID",
			rule:  params.RulePositiveInteger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, course, lms := setupCourseClients(t)

			resp, err := tt.call(course)
			assert.Nil(t, resp)

			var valErr *domain.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
			assert.Equal(t, tt.rule, valErr.Rule)
			if tt.message != "" {
				assert.Equal(t, tt.message, valErr.Message)
			}
			assert.Empty(t, lms.Requests())
		})
	}
}

func TestCourseClient_PropagatesPipelineErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"message":"Course not found"}`,
			check: func(t *testing.T, err error) {
				var apiErr *domain.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
				assert.Equal(t, "API request failed with status 404: Course not found", apiErr.Message)
			},
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsAuthentication(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, course, lms := setupCourseClients(t)
			lms.status = tt.status
			lms.body = tt.body

			_, err := course.GetDetail(context.Background(), params.Of("type", "w", "id", 999))
			tt.check(t, err)
		})
	}
}

func TestNewBaseAdapter_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewBaseAdapter(nil) })
}
