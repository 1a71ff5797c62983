// Package soap is a small SOAP 1.1 RPC client: it encodes operations into
// envelopes, posts them to a single endpoint and hands back the parsed body.
package soap

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/ma314smith/signedxml"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxBodySize = 10 * 1024 * 1024 // 10MB
	maxErrorBody       = 512
)

// ErrUnknownOperation is returned in strict mode for operations the WSDL
// does not advertise.
var ErrUnknownOperation = errors.New("soap: operation not described by the WSDL")

// Client is not safe for concurrent use while headers are being changed.
type Client struct {
	url        string
	opts       ClientOpts
	httpClient *http.Client
	headers    http.Header

	mu         sync.Mutex
	operations map[string]bool
}

// ClientOpts defines the possible options to pass to a client
type ClientOpts struct {
	// Namespace is the default namespace of operation elements. It is mandatory.
	Namespace string

	// HTTPClient replaces the default client. Certificate is then only used for signing.
	HTTPClient *http.Client

	// Timeout of the default HTTP client.
	Timeout time.Duration

	// UserAgent is sent with every request when set.
	UserAgent string

	// Certificate enables WS-Security signing of the envelopes and mutual TLS.
	Certificate *tls.Certificate

	// ValidateSignature checks the signature references of every signed
	// envelope before sending it.
	ValidateSignature bool

	// Strict rejects operations that the WSDL at <url>/wsdl does not describe.
	Strict bool

	// Debug logs requests and responses. Use it only for development
	Debug bool

	Logger *slog.Logger
}

func (opts ClientOpts) validate() error {
	if opts.Namespace == "" {
		return errors.New("soap: namespace is required")
	}

	if opts.Certificate != nil && len(opts.Certificate.Certificate) == 0 {
		return errors.New("soap: certificate has no data")
	}

	return nil
}

func (opts ClientOpts) getHTTPClient() *http.Client {
	if opts.HTTPClient != nil {
		return opts.HTTPClient
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	client := &http.Client{Timeout: timeout}

	if opts.Certificate != nil {
		client.Transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				Certificates: []tls.Certificate{
					*opts.Certificate,
				},
			},
		}
	}

	return client
}

func (opts ClientOpts) getCertInfo() (string, string, error) {
	pCert, err := x509.ParseCertificate(opts.Certificate.Certificate[0])
	if err != nil {
		return "", "", fmt.Errorf("soap: parsing certificate: %w", err)
	}

	return pCert.Issuer.String(), pCert.SerialNumber.String(), nil
}

// New creates a new Client for the service at url.
func New(rawURL string, opts ClientOpts) (*Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	u, err := url.Parse(strings.TrimSuffix(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("soap: invalid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("soap: invalid URL %q: scheme must be http or https", rawURL)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		url:        u.String(),
		opts:       opts,
		httpClient: opts.getHTTPClient(),
		headers:    make(http.Header),
	}, nil
}

// URL returns the service endpoint.
func (c *Client) URL() string {
	return c.url
}

// SetHeader sets an extra HTTP header sent with every call.
func (c *Client) SetHeader(key, value string) {
	c.headers.Set(key, value)
}

// ClearHeaders removes all extra HTTP headers.
func (c *Client) ClearHeaders() {
	c.headers = make(http.Header)
}

// buildEnvelope builds the envelope for the request
func (c *Client) buildEnvelope(op Operation) (*envelope, error) {
	env := &envelope{
		SoapEnv: envelopeNS,
		Xsi:     xsiNS,
		Xsd:     xsdNS,
		Body:    requestBody{Operation: op},
	}

	if c.opts.Certificate == nil {
		return env, nil
	}

	env.Body.ID = generateID("id")
	env.Body.Wsu = wsuNS

	certIssuerName, certSerialNumber, err := c.opts.getCertInfo()
	if err != nil {
		return nil, err
	}

	env.Header = &header{
		Security: &security{
			Wsse: wsseNS,
			Signature: &signature{
				ID:    generateID("SIG"),
				Xmlns: dsigNS,
				SignedInfo: &signedInfo{
					CanonicalizationMethod: algorithm{Algorithm: excC14N},
					SignatureMethod:        algorithm{Algorithm: dsigNS + "rsa-sha1"},
					Reference: reference{
						URI:          "#" + env.Body.ID,
						Transforms:   []algorithm{{Algorithm: excC14N}},
						DigestMethod: algorithm{Algorithm: dsigNS + "sha1"},
					},
				},
				KeyInfo: &keyInfo{
					ID: generateID("KI"),
					SecurityTokenReference: securityTokenReference{
						X509Data: x509Data{
							IssuerName:   certIssuerName,
							SerialNumber: certSerialNumber,
							Certificate:  base64.StdEncoding.EncodeToString(c.opts.Certificate.Certificate[0]),
						},
					},
				},
			},
		},
	}

	return env, nil
}

// encode marshals and, when a certificate is configured, signs the envelope.
func (c *Client) encode(op Operation) (string, error) {
	env, err := c.buildEnvelope(op)
	if err != nil {
		return "", err
	}

	xmlBytes, err := xml.Marshal(env)
	if err != nil {
		return "", err
	}

	if c.opts.Certificate == nil {
		return xml.Header + string(xmlBytes), nil
	}

	signer, err := signedxml.NewSigner(string(xmlBytes))
	if err != nil {
		return "", err
	}
	signer.SetReferenceIDAttribute("Id")

	signedXML, err := signer.Sign(c.opts.Certificate.PrivateKey)
	if err != nil {
		return "", err
	}

	if c.opts.ValidateSignature {
		validator, err := signedxml.NewValidator(signedXML)
		if err != nil {
			return "", err
		}
		validator.SetReferenceIDAttribute("Id")

		_, err = validator.ValidateReferences()
		if err != nil {
			return "", fmt.Errorf("error validating: %w", err)
		}
	}

	return signedXML, nil
}

// Operations lists all operations described by the service WSDL. Binding
// operations are read when the WSDL has no port type.
func (c *Client) Operations(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/wsdl", nil)
	if err != nil {
		return nil, err
	}

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	err = doc.ReadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("soap: parsing WSDL: %w", err)
	}

	elements := doc.FindElements("//portType/operation")
	if len(elements) == 0 {
		elements = doc.FindElements("//binding/operation")
	}

	result := make([]string, 0, len(elements))
	seen := make(map[string]bool)
	for _, op := range elements {
		name := op.SelectAttrValue("name", "")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}

	return result, nil
}

func (c *Client) checkOperation(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.operations == nil {
		ops, err := c.Operations(ctx)
		if err != nil {
			return err
		}

		c.operations = make(map[string]bool, len(ops))
		for _, op := range ops {
			c.operations[op] = true
		}
	}

	if !c.operations[name] {
		return fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}

	return nil
}

// RawQuery does a query and returns the response body. A non-2xx status is
// reported as *HTTPError together with the body.
func (c *Client) RawQuery(ctx context.Context, op Operation) ([]byte, error) {
	if op.Namespace == "" {
		op.Namespace = c.opts.Namespace
	}

	if c.opts.Strict {
		if err := c.checkOperation(ctx, op.Name); err != nil {
			return nil, err
		}
	}

	payload, err := c.encode(op)
	if err != nil {
		return nil, err
	}

	if c.opts.Debug {
		c.opts.Logger.DebugContext(ctx, "soap request", "operation", op.Name, "body", payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", op.Action())

	data, err := c.do(req)

	if c.opts.Debug {
		c.opts.Logger.DebugContext(ctx, "soap response", "operation", op.Name, "body", string(data))
	}

	return data, err
}

// Query performs the query and returns the parsed response. Faults are
// returned as *Fault.
func (c *Client) Query(ctx context.Context, op Operation) (*Response, error) {
	data, err := c.RawQuery(ctx, op)

	var httpErr *HTTPError
	if err != nil && !errors.As(err, &httpErr) {
		return nil, err
	}

	resp, parseErr := ParseResponse(op.Name, data)

	var fault *Fault
	if errors.As(parseErr, &fault) {
		return nil, fault
	}

	if httpErr != nil {
		return nil, httpErr
	}

	if parseErr != nil {
		return nil, parseErr
	}

	return resp, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("soap: request failed: %w", err)
	}

	defer func() { _ = response.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(response.Body, defaultMaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("soap: reading response body: %w", err)
	}

	if len(data) > defaultMaxBodySize {
		return nil, fmt.Errorf("soap: response too large: exceeds %d bytes", defaultMaxBodySize)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return data, &HTTPError{
			StatusCode: response.StatusCode,
			Body:       truncate(bytes.TrimSpace(data), maxErrorBody),
		}
	}

	return data, nil
}

var _ ClientIface = &Client{}
