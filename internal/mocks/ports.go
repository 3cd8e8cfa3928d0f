// Package mocks provides testify mocks for the interfaces in internal/ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/params"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func response(ret mock.Arguments) (*clients.Response, error) {
	var resp *clients.Response
	if r := ret.Get(0); r != nil {
		resp = r.(*clients.Response)
	}

	return resp, ret.Error(1)
}

// MockRequester is a mock of ports.Requester.
type MockRequester struct {
	mock.Mock
}

// NewMockRequester creates a MockRequester that asserts its expectations on cleanup.
func NewMockRequester(t testingT) *MockRequester {
	m := &MockRequester{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Get mocks ports.Requester.Get.
func (m *MockRequester) Get(ctx context.Context, path string, query params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, path, query))
}

// MockCourseCatalog is a mock of ports.CourseCatalog.
type MockCourseCatalog struct {
	mock.Mock
}

// NewMockCourseCatalog creates a MockCourseCatalog that asserts its expectations on cleanup.
func NewMockCourseCatalog(t testingT) *MockCourseCatalog {
	m := &MockCourseCatalog{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// GetCourses mocks ports.CourseCatalog.GetCourses.
func (m *MockCourseCatalog) GetCourses(ctx context.Context, p params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, p))
}

// MockCourseOperations is a mock of ports.CourseOperations.
type MockCourseOperations struct {
	mock.Mock
}

// NewMockCourseOperations creates a MockCourseOperations that asserts its expectations on cleanup.
func NewMockCourseOperations(t testingT) *MockCourseOperations {
	m := &MockCourseOperations{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// GetDetail mocks ports.CourseOperations.GetDetail.
func (m *MockCourseOperations) GetDetail(ctx context.Context, p params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, p))
}

// Create mocks ports.CourseOperations.Create.
func (m *MockCourseOperations) Create(ctx context.Context, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, data))
}

// GetInstances mocks ports.CourseOperations.GetInstances.
func (m *MockCourseOperations) GetInstances(ctx context.Context, p params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, p))
}

// GetInstanceDetail mocks ports.CourseOperations.GetInstanceDetail.
func (m *MockCourseOperations) GetInstanceDetail(ctx context.Context, p params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, p))
}

// CreateInstance mocks ports.CourseOperations.CreateInstance.
func (m *MockCourseOperations) CreateInstance(ctx context.Context, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, data))
}

// UpdateInstance mocks ports.CourseOperations.UpdateInstance.
func (m *MockCourseOperations) UpdateInstance(ctx context.Context, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, data))
}

// SearchInstances mocks ports.CourseOperations.SearchInstances.
func (m *MockCourseOperations) SearchInstances(ctx context.Context, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, data))
}

// Enrol mocks ports.CourseOperations.Enrol.
func (m *MockCourseOperations) Enrol(ctx context.Context, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, data))
}

// EnrolMultiple mocks ports.CourseOperations.EnrolMultiple.
func (m *MockCourseOperations) EnrolMultiple(ctx context.Context, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, data))
}

// GetEnrolments mocks ports.CourseOperations.GetEnrolments.
func (m *MockCourseOperations) GetEnrolments(ctx context.Context, p params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, p))
}

// UpdateEnrolment mocks ports.CourseOperations.UpdateEnrolment.
func (m *MockCourseOperations) UpdateEnrolment(ctx context.Context, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, data))
}

// GetDiscounts mocks ports.CourseOperations.GetDiscounts.
func (m *MockCourseOperations) GetDiscounts(ctx context.Context, p params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, p))
}

// Enquire mocks ports.CourseOperations.Enquire.
func (m *MockCourseOperations) Enquire(ctx context.Context, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, data))
}

// GetCalendar mocks ports.CourseOperations.GetCalendar.
func (m *MockCourseOperations) GetCalendar(ctx context.Context, p params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, p))
}

// GetLocations mocks ports.CourseOperations.GetLocations.
func (m *MockCourseOperations) GetLocations(ctx context.Context, p params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, p))
}

// GetResources mocks ports.CourseOperations.GetResources.
func (m *MockCourseOperations) GetResources(ctx context.Context, p params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, p))
}

// GetAttendance mocks ports.CourseOperations.GetAttendance.
func (m *MockCourseOperations) GetAttendance(ctx context.Context, p params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, p))
}

// SetAttendance mocks ports.CourseOperations.SetAttendance.
func (m *MockCourseOperations) SetAttendance(ctx context.Context, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, data))
}

// GetComplexDates mocks ports.CourseOperations.GetComplexDates.
func (m *MockCourseOperations) GetComplexDates(ctx context.Context, instanceID int) (*clients.Response, error) {
	return response(m.Called(ctx, instanceID))
}

// SetComplexDate mocks ports.CourseOperations.SetComplexDate.
func (m *MockCourseOperations) SetComplexDate(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, instanceID, data))
}

// GetExtraTrainer mocks ports.CourseOperations.GetExtraTrainer.
func (m *MockCourseOperations) GetExtraTrainer(ctx context.Context, instanceID int) (*clients.Response, error) {
	return response(m.Called(ctx, instanceID))
}

// AddExtraTrainer mocks ports.CourseOperations.AddExtraTrainer.
func (m *MockCourseOperations) AddExtraTrainer(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, instanceID, data))
}

// UpdateExtraTrainer mocks ports.CourseOperations.UpdateExtraTrainer.
func (m *MockCourseOperations) UpdateExtraTrainer(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error) {
	return response(m.Called(ctx, instanceID, data))
}

// DeleteExtraTrainer mocks ports.CourseOperations.DeleteExtraTrainer.
func (m *MockCourseOperations) DeleteExtraTrainer(ctx context.Context, instanceID int) (*clients.Response, error) {
	return response(m.Called(ctx, instanceID))
}
