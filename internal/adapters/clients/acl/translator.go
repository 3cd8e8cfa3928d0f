package acl

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/params"
)

// Requester is the slice of the request pipeline adapters depend on.
// *clients.Client implements it.
type Requester interface {
	Get(ctx context.Context, path string, query params.Params) (*clients.Response, error)
	Post(ctx context.Context, path string, body any) (*clients.Response, error)
	Put(ctx context.Context, path string, body any) (*clients.Response, error)
	Delete(ctx context.Context, path string) (*clients.Response, error)
}

// BaseAdapter provides the shared translation steps for endpoint clients.
// Embed it in endpoint-group adapters.
type BaseAdapter struct {
	requester Requester
}

// NewBaseAdapter creates a base adapter. It panics when requester is nil.
func NewBaseAdapter(requester Requester) BaseAdapter {
	if requester == nil {
		panic("acl: requester is required")
	}

	return BaseAdapter{requester: requester}
}

// Requester returns the underlying pipeline.
func (a *BaseAdapter) Requester() Requester {
	return a.requester
}

// Query applies rules to input and sends the result as a GET query string.
func (a *BaseAdapter) Query(ctx context.Context, path string, rules params.RuleSet, input params.Params) (*clients.Response, error) {
	query, err := rules.Apply(input)
	if err != nil {
		return nil, err
	}

	return a.requester.Get(ctx, path, query)
}

// Send applies rules to data and sends the result as a JSON body with the
// given method.
func (a *BaseAdapter) Send(ctx context.Context, method, path string, rules params.RuleSet, data params.Params) (*clients.Response, error) {
	body, err := rules.Apply(data)
	if err != nil {
		return nil, err
	}

	switch method {
	case http.MethodPut:
		return a.requester.Put(ctx, path, body)
	default:
		return a.requester.Post(ctx, path, body)
	}
}

// Instance validates an instance ID and sends a call to prefix/{id}. Data is
// only used for POST and PUT.
func (a *BaseAdapter) Instance(ctx context.Context, method, prefix string, instanceID int, data params.Params) (*clients.Response, error) {
	if err := params.ValidateInstanceID(instanceID); err != nil {
		return nil, err
	}

	path := prefix + strconv.Itoa(instanceID)

	switch method {
	case http.MethodGet:
		return a.requester.Get(ctx, path, nil)
	case http.MethodDelete:
		return a.requester.Delete(ctx, path)
	case http.MethodPut:
		return a.requester.Put(ctx, path, data)
	default:
		return a.requester.Post(ctx, path, data)
	}
}
