// Package axcelerate is the public entry point of the aXcelerate LMS client.
//
//	client, err := axcelerate.New(&axcelerate.Config{
//		BaseURL:  "https://acme.app.axcelerate.com",
//		WSToken:  os.Getenv("AXCELERATE_WS_TOKEN"),
//		APIToken: os.Getenv("AXCELERATE_API_TOKEN"),
//	})
//	if err != nil {
//		return err
//	}
//	courses, err := client.GetCourses(ctx, axcelerate.P("type", "all", "current", true))
//
// Every method returns *Response or one of the typed errors below.
package axcelerate

import (
	"os"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/acl"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/params"
	"github.com/jsamuelsen/axcelerate-go/internal/app"
	"github.com/jsamuelsen/axcelerate-go/internal/domain"
	"github.com/jsamuelsen/axcelerate-go/internal/platform/config"
)

// Configuration and data types.
type (
	Config          = clients.Config
	BreakerConfig   = clients.BreakerConfig
	TransportConfig = clients.TransportConfig
	CircuitState    = clients.State
	Response        = clients.Response
	Params          = params.Params
	Overview        = app.Overview
)

// Typed errors.
type (
	ConfigurationError  = domain.ConfigurationError
	AuthenticationError = domain.AuthenticationError
	ValidationError     = domain.ValidationError
	APIError            = domain.APIError
	TransportError      = domain.TransportError
)

// Sentinels for errors.Is.
var (
	ErrConfiguration  = domain.ErrConfiguration
	ErrAuthentication = domain.ErrAuthentication
	ErrValidation     = domain.ErrValidation
	ErrAPI            = domain.ErrAPI
	ErrTransport      = domain.ErrTransport
	ErrCircuitOpen    = clients.ErrCircuitOpen
)

// Defaults applied to a zero Config.
const (
	DefaultTimeout       = clients.DefaultTimeout
	DefaultRetryAttempts = clients.DefaultRetryAttempts
	DefaultRetryDelay    = clients.DefaultRetryDelay
)

// Client is the LMS facade: every endpoint method plus TestConnection,
// Overview and InstancesForCourses. It is safe for concurrent use.
type Client struct {
	*app.LMSService

	pipeline *clients.Client
}

// New validates cfg and builds the pipeline, the endpoint clients and the facade.
func New(cfg *Config) (*Client, error) {
	pipeline, err := clients.New(cfg)
	if err != nil {
		return nil, err
	}

	service := app.NewLMSService(app.LMSServiceConfig{
		Requester: pipeline,
		Courses:   acl.NewCoursesClient(pipeline),
		Course:    acl.NewCourseClient(pipeline),
		Logger:    cfg.Logger,
	})

	return &Client{LMSService: service, pipeline: pipeline}, nil
}

// NewFromEnv loads configs/base.yaml, the APP_ENVIRONMENT profile and the
// AXCELERATE_* variables, then calls New.
func NewFromEnv() (*Client, error) {
	cfg, err := config.Load(os.Getenv("APP_ENVIRONMENT"))
	if err != nil {
		return nil, err
	}

	return New(cfg.ClientConfig(nil))
}

// BaseURL returns the normalized tenant URL.
func (c *Client) BaseURL() string {
	return c.pipeline.BaseURL()
}

// CircuitState reports the breaker state; always closed when disabled.
func (c *Client) CircuitState() CircuitState {
	return c.pipeline.CircuitState()
}

// P builds ordered parameters from alternating names and values.
func P(pairs ...any) Params {
	return params.Of(pairs...)
}

// DecodeInto decodes a response body into T.
func DecodeInto[T any](resp *Response) (T, error) {
	return clients.DecodeInto[T](resp)
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool { return domain.IsConfiguration(err) }

// IsAuthentication reports whether err is an AuthenticationError.
func IsAuthentication(err error) bool { return domain.IsAuthentication(err) }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool { return domain.IsValidation(err) }

// IsAPI reports whether err is an APIError.
func IsAPI(err error) bool { return domain.IsAPI(err) }

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool { return domain.IsTransport(err) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int { return domain.StatusCode(err) }
