package sympa

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/dcu/sympa/internal/soap"
)

const (
	defaultTimeout = 30 * time.Second

	// Namespace of the Sympa SOAP operations.
	Namespace = "urn:sympasoap"

	sessionCookie = "sympa_session"
)

// Client is a session with a Sympa SOAP service.
//
// A Client is not safe for concurrent use: Login sends the credentials, reads
// the token and confirms it with a second call before committing it. Guard
// Login and Logout with a lock if a Client is shared, and never share one
// Client between identities.
type Client struct {
	soap    soap.ClientIface
	logger  *slog.Logger
	metrics *Metrics

	cookie   string
	identity string
}

// New creates a client for the Sympa SOAP service at baseURL, for example
// https://lists.example.org/sympasoap. The service description is read from
// <baseURL>/wsdl.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if baseURL == "" {
		return nil, ErrNoBaseURL
	}

	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}

	transport, err := soap.New(baseURL, soap.ClientOpts{
		Namespace:         Namespace,
		HTTPClient:        cfg.httpClient,
		Timeout:           cfg.timeout,
		UserAgent:         cfg.userAgent,
		Certificate:       cfg.certificate,
		ValidateSignature: cfg.validateSig,
		Strict:            cfg.strict,
		Debug:             cfg.debug,
		Logger:            cfg.logger,
	})
	if err != nil {
		return nil, err
	}

	return newClient(transport, cfg), nil
}

func newClient(transport soap.ClientIface, cfg *clientConfig) *Client {
	return &Client{
		soap:    transport,
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}
}

// Identity returns the email address of the logged in user, or "" when
// logged out.
func (c *Client) Identity() string {
	return c.identity
}

// LoggedIn reports whether a confirmed session is active.
func (c *Client) LoggedIn() bool {
	return c.cookie != "" && c.identity != ""
}

// Login authenticates with the service. The returned session token is only
// kept if the service maps it back to email; otherwise the client is left
// logged out and an *AuthenticationError is returned.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if email == "" {
		return &ArgumentError{Argument: "email", Reason: "must not be empty"}
	}
	if password == "" {
		return &ArgumentError{Argument: "password", Reason: "must not be empty"}
	}

	resp, err := c.call(ctx, "login", param("email", email), param("password", password))
	if err != nil {
		c.Logout()
		return &AuthenticationError{Email: email, Err: err}
	}

	token := resp.Text()
	if token == "" {
		c.Logout()
		return &AuthenticationError{Email: email, Err: errors.New("empty session token")}
	}

	c.cookie = token
	c.soap.SetHeader("Cookie", sessionCookie+"="+token)

	identity, err := c.CheckSession(ctx)
	if err != nil || identity != email {
		c.Logout()
		return &AuthenticationError{Email: email, Identity: identity, Err: err}
	}

	c.identity = email
	c.logger.InfoContext(ctx, "authenticated with sympa", "email", email)

	return nil
}

// Logout forgets the session. It does not contact the service.
func (c *Client) Logout() {
	c.cookie = ""
	c.identity = ""
	c.soap.ClearHeaders()
}

// CheckSession returns the email address the service associates with the
// current session token. Without a session the service's answer, fault or
// empty identity, is returned as is.
func (c *Client) CheckSession(ctx context.Context) (string, error) {
	resp, err := c.call(ctx, "checkCookie")
	if err != nil {
		return "", err
	}

	return resp.Text(), nil
}

// Operations returns the operation names advertised by the service WSDL.
func (c *Client) Operations(ctx context.Context) ([]string, error) {
	return c.soap.Operations(ctx)
}

func (c *Client) call(ctx context.Context, operation string, params ...soap.Param) (*soap.Response, error) {
	start := time.Now()

	resp, err := c.soap.Query(ctx, soap.Operation{Name: operation, Params: params})
	c.metrics.observeCall(operation, start, err)

	if err != nil {
		c.logger.DebugContext(ctx, "sympa call failed", "operation", operation, "error", err)
		return nil, err
	}

	return resp, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func param(name string, value interface{}) soap.Param {
	return soap.Param{Name: name, Value: value}
}

// soapBool reads a boolean result. Only the literal "true" is true.
func soapBool(text string) bool {
	return text == "true"
}
