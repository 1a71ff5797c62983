package sympa

import (
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	httpClient  *http.Client
	timeout     time.Duration
	userAgent   string
	logger      *slog.Logger
	metrics     *Metrics
	strict      bool
	certificate *tls.Certificate
	validateSig bool
	debug       bool
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the default request timeout.
// Note: This option is ignored when WithHTTPClient is used;
// set the timeout directly on the provided client instead.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger for login notices, schema drift warnings and
// debug output. Nothing is logged by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics records call and schema drift metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *clientConfig) {
		c.metrics = m
	}
}

// WithStrictWSDL rejects calls to operations the service WSDL does not
// describe. The WSDL is fetched once, on the first call. By default calls
// are sent without checking the WSDL, which tolerates imperfect service
// descriptions.
func WithStrictWSDL() Option {
	return func(c *clientConfig) {
		c.strict = true
	}
}

// WithClientCertificate signs every envelope with WS-Security and presents
// the certificate for mutual TLS.
func WithClientCertificate(cert tls.Certificate) Option {
	return func(c *clientConfig) {
		c.certificate = &cert
	}
}

// WithSignatureValidation checks the references of every signed envelope
// before it is sent. It only has an effect with WithClientCertificate.
func WithSignatureValidation() Option {
	return func(c *clientConfig) {
		c.validateSig = true
	}
}

// WithDebug logs every request and response envelope at debug level.
// Envelopes contain credentials; use it only for development.
func WithDebug() Option {
	return func(c *clientConfig) {
		c.debug = true
	}
}
