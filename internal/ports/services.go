// Package ports defines the contracts the application layer depends on.
// Adapters in internal/adapters implement them against the LMS.
//
// Every method takes a context first and returns the raw decoded LMS
// response or one domain error (see internal/domain).
package ports

import (
	"context"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/params"
)

// Requester sends raw calls to the LMS API root. TestConnection uses it.
type Requester interface {
	Get(ctx context.Context, path string, query params.Params) (*clients.Response, error)
}

// CourseCatalog lists courses.
type CourseCatalog interface {
	GetCourses(ctx context.Context, p params.Params) (*clients.Response, error)
}

// CourseOperations covers one course and its instances.
type CourseOperations interface {
	GetDetail(ctx context.Context, p params.Params) (*clients.Response, error)
	Create(ctx context.Context, data params.Params) (*clients.Response, error)

	GetInstances(ctx context.Context, p params.Params) (*clients.Response, error)
	GetInstanceDetail(ctx context.Context, p params.Params) (*clients.Response, error)
	CreateInstance(ctx context.Context, data params.Params) (*clients.Response, error)
	UpdateInstance(ctx context.Context, data params.Params) (*clients.Response, error)
	SearchInstances(ctx context.Context, data params.Params) (*clients.Response, error)

	Enrol(ctx context.Context, data params.Params) (*clients.Response, error)
	EnrolMultiple(ctx context.Context, data params.Params) (*clients.Response, error)
	GetEnrolments(ctx context.Context, p params.Params) (*clients.Response, error)
	UpdateEnrolment(ctx context.Context, data params.Params) (*clients.Response, error)

	GetDiscounts(ctx context.Context, p params.Params) (*clients.Response, error)
	Enquire(ctx context.Context, data params.Params) (*clients.Response, error)
	GetCalendar(ctx context.Context, p params.Params) (*clients.Response, error)
	GetLocations(ctx context.Context, p params.Params) (*clients.Response, error)
	GetResources(ctx context.Context, p params.Params) (*clients.Response, error)

	GetAttendance(ctx context.Context, p params.Params) (*clients.Response, error)
	SetAttendance(ctx context.Context, data params.Params) (*clients.Response, error)

	GetComplexDates(ctx context.Context, instanceID int) (*clients.Response, error)
	SetComplexDate(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error)

	GetExtraTrainer(ctx context.Context, instanceID int) (*clients.Response, error)
	AddExtraTrainer(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error)
	UpdateExtraTrainer(ctx context.Context, instanceID int, data params.Params) (*clients.Response, error)
	DeleteExtraTrainer(ctx context.Context, instanceID int) (*clients.Response, error)
}
