package sympa

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dcu/sympa/internal/soap"
	"github.com/dcu/sympa/internal/soap/mocks"
)

func envelope(operation, inner string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"` +
		` xmlns:soapenc="http://schemas.xmlsoap.org/soap/encoding/">` +
		`<soap:Body><` + operation + `Response xmlns="urn:sympasoap">` + inner +
		`</` + operation + `Response></soap:Body></soap:Envelope>`
}

func faultEnvelope(code, message string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<soap:Body><soap:Fault><faultcode>` + code + `</faultcode><faultstring>` + message +
		`</faultstring></soap:Fault></soap:Body></soap:Envelope>`
}

func textResult(operation, text string) string {
	return envelope(operation, `<result xsi:type="xsd:string">`+text+`</result>`)
}

func stringItems(operation string, items ...string) string {
	var b strings.Builder
	b.WriteString(`<return xsi:type="soapenc:Array">`)
	for _, item := range items {
		b.WriteString(`<item xsi:type="xsd:string">` + item + `</item>`)
	}
	b.WriteString(`</return>`)
	return envelope(operation, b.String())
}

// parsed builds the response the transport would return for data.
func parsed(t *testing.T, operation, data string) *soap.Response {
	t.Helper()
	resp, err := soap.ParseResponse(operation, []byte(data))
	require.NoError(t, err)
	return resp
}

func op(name string, params ...soap.Param) soap.Operation {
	return soap.Operation{Name: name, Params: params}
}

// newMockClient returns a client over a mock transport. A call the test did
// not expect fails the test, which is how "no network call" is asserted.
func newMockClient(t *testing.T, opts ...Option) (*Client, *mocks.MockClientIface) {
	t.Helper()
	ctrl := gomock.NewController(t)
	transport := mocks.NewMockClientIface(ctrl)

	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}

	return newClient(transport, cfg), transport
}

// fakeSympa answers SOAP calls by operation name.
type fakeSympa struct {
	t        *testing.T
	mu       sync.Mutex
	handlers map[string]func(r *http.Request, body string) (int, string)
	calls    []string
	cookies  []string
}

func newFakeSympa(t *testing.T) *fakeSympa {
	return &fakeSympa{t: t, handlers: make(map[string]func(*http.Request, string) (int, string))}
}

func (f *fakeSympa) on(operation string, handler func(r *http.Request, body string) (int, string)) {
	f.handlers[operation] = handler
}

func (f *fakeSympa) reply(operation, payload string) {
	f.on(operation, func(*http.Request, string) (int, string) { return http.StatusOK, payload })
}

func (f *fakeSympa) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.Trim(r.Header.Get("SOAPAction"), `"`)
	_, operation, _ := strings.Cut(action, "#")

	body, err := io.ReadAll(r.Body)
	assert.NoError(f.t, err)

	f.mu.Lock()
	f.calls = append(f.calls, operation)
	f.cookies = append(f.cookies, r.Header.Get("Cookie"))
	handler, ok := f.handlers[operation]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, faultEnvelope("soap:Client", "unexpected operation "+operation))
		return
	}

	status, payload := handler(r, string(body))
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, payload)
}

func (f *fakeSympa) start(opts ...Option) *Client {
	f.t.Helper()
	server := httptest.NewServer(f)
	f.t.Cleanup(server.Close)

	client, err := New(server.URL, opts...)
	require.NoError(f.t, err)
	return client
}

func (f *fakeSympa) history() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...), append([]string(nil), f.cookies...)
}

func testCertificate(t *testing.T) tls.Certificate {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(7),
		Subject:      pkix.Name{CommonName: "lists client"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}
