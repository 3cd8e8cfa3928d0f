package acl

import (
	"context"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/params"
)

// CoursesClient lists the course catalog.
type CoursesClient struct {
	BaseAdapter
}

// NewCoursesClient creates a courses client on top of the pipeline.
func NewCoursesClient(requester Requester) *CoursesClient {
	return &CoursesClient{BaseAdapter: NewBaseAdapter(requester)}
}

// GetCourses calls GET courses/. Accepted filters are ID, type (w, p, el or
// all), current, public and IsActive (normalized to "true"/"false"), and
// lastUpdated_min/lastUpdated_max (YYYY-MM-DD[ hh:mm]).
func (c *CoursesClient) GetCourses(ctx context.Context, p params.Params) (*clients.Response, error) {
	return c.Query(ctx, PathCourses, coursesRules, p)
}
