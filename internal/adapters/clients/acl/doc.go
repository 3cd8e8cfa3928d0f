// Package acl is the anti-corruption layer between callers and the LMS
// endpoints. Each exported method maps one endpoint: it applies the
// endpoint's static rule table, then hands the cleaned parameters to the
// request pipeline.
//
// # Rule tables
//
// Every endpoint declares a [params.RuleSet] at package level (see
// endpoints.go). A rule set holds:
//
//   - an allow-list: unknown parameter names are dropped silently, order is kept
//   - required fields: checked first, fail-fast, in declaration order
//   - per-field checks: course type, boolean normalization, date shape, or an
//     exact set of values
//
// Read endpoints filter by their allow-list. Write endpoints send the caller's
// whole payload after the required and per-field checks pass. Endpoints
// scoped by an instance ID in the path reject IDs that are not positive.
//
// # Error Handling Strategy
//
// Validation failures are returned as [domain.ValidationError] before any
// network call. Everything else comes from the pipeline already classified:
//
//   - 401/403 → [domain.AuthenticationError]
//   - other 4xx/5xx, or a success body that is not JSON → [domain.APIError]
//   - network failures and timeouts → [domain.TransportError]
//
// Adapters in this package never reinterpret those errors.
//
// # Adding an endpoint
//
//  1. Declare the path and its rule set in endpoints.go
//  2. Add a method that calls [BaseAdapter.Query] or [BaseAdapter.Send]
//  3. Expose it on the facade in internal/app
//
// Example:
//
//	var contactRules = params.RuleSet{
//	    Allowed: []string{"contactID"},
//	}
//
//	func (c *ContactClient) GetContact(ctx context.Context, p params.Params) (*clients.Response, error) {
//	    return c.Query(ctx, "contact/", contactRules, p)
//	}
package acl
