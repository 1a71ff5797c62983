package soap

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/xml"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/ma314smith/signedxml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWSDL = `<?xml version="1.0"?>
<definitions xmlns="http://schemas.xmlsoap.org/wsdl/" xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/" targetNamespace="urn:sympasoap">
<portType name="SympaPort">
<operation name="login"><input message="tns:loginRequest"/></operation>
<operation name="checkCookie"><input message="tns:checkCookieRequest"/></operation>
<operation name="lists"><input message="tns:listsRequest"/></operation>
</portType>
<binding name="SOAP" type="tns:SympaPort">
<operation name="login"><soap:operation soapAction="urn:sympasoap#login"/></operation>
</binding>
</definitions>`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ClientOpts) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if opts.Namespace == "" {
		opts.Namespace = "urn:sympasoap"
	}

	client, err := New(server.URL+"/", opts)
	require.NoError(t, err)

	return client
}

func TestNew(t *testing.T) {
	t.Run("trims trailing slash", func(t *testing.T) {
		client, err := New("https://lists.example.org/sympasoap/", ClientOpts{Namespace: "urn:sympasoap"})
		require.NoError(t, err)
		assert.Equal(t, "https://lists.example.org/sympasoap", client.URL())
	})

	t.Run("namespace is required", func(t *testing.T) {
		_, err := New("https://lists.example.org/sympasoap", ClientOpts{})
		require.Error(t, err)
	})

	t.Run("scheme must be http or https", func(t *testing.T) {
		_, err := New("ftp://lists.example.org/sympasoap", ClientOpts{Namespace: "urn:sympasoap"})
		require.Error(t, err)
	})

	t.Run("empty certificate", func(t *testing.T) {
		_, err := New("https://lists.example.org/sympasoap", ClientOpts{
			Namespace:   "urn:sympasoap",
			Certificate: &tls.Certificate{},
		})
		require.Error(t, err)
	})
}

func TestClientQuery(t *testing.T) {
	t.Run("posts the envelope", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/", r.URL.Path)
			assert.Equal(t, `"urn:sympasoap#login"`, r.Header.Get("SOAPAction"))
			assert.Equal(t, "text/xml; charset=utf-8", r.Header.Get("Content-Type"))
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.Contains(t, string(body), `<ns:login xmlns:ns="urn:sympasoap">`)
			assert.Contains(t, string(body), `<email xsi:type="xsd:string">alice@example.org</email>`)
			assert.NotContains(t, string(body), "Security")

			_, _ = io.WriteString(w, envelopeStart+`<loginResponse><result>token</result></loginResponse>`+envelopeEnd)
		}, ClientOpts{UserAgent: "test-agent"})

		resp, err := client.Query(context.Background(), Operation{
			Name:   "login",
			Params: []Param{{Name: "email", Value: "alice@example.org"}, {Name: "password", Value: "secret"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "token", resp.Text())
	})

	t.Run("extra headers until cleared", func(t *testing.T) {
		var cookies []string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			cookies = append(cookies, r.Header.Get("Cookie"))
			_, _ = io.WriteString(w, envelopeStart+`<checkCookieResponse><result>alice@example.org</result></checkCookieResponse>`+envelopeEnd)
		}, ClientOpts{})

		ctx := context.Background()
		client.SetHeader("Cookie", "sympa_session=abc")
		_, err := client.Query(ctx, Operation{Name: "checkCookie"})
		require.NoError(t, err)

		client.ClearHeaders()
		_, err = client.Query(ctx, Operation{Name: "checkCookie"})
		require.NoError(t, err)

		assert.Equal(t, []string{"sympa_session=abc", ""}, cookies)
	})

	t.Run("fault with error status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, envelopeStart+`<soap:Fault><faultcode>soap:Server</faultcode><faultstring>Not enough privileges</faultstring></soap:Fault>`+envelopeEnd)
		}, ClientOpts{})

		_, err := client.Query(context.Background(), Operation{Name: "createList"})

		var fault *Fault
		require.True(t, errors.As(err, &fault), "got %v", err)
		assert.Equal(t, "soap:Server", fault.Code)
		assert.Equal(t, "Not enough privileges", fault.String)
	})

	t.Run("error status without fault", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, "maintenance")
		}, ClientOpts{})

		_, err := client.Query(context.Background(), Operation{Name: "lists"})

		var httpErr *HTTPError
		require.True(t, errors.As(err, &httpErr), "got %v", err)
		assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
		assert.Equal(t, "maintenance", httpErr.Body)
	})

	t.Run("malformed success response", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "<html></html>")
		}, ClientOpts{})

		_, err := client.Query(context.Background(), Operation{Name: "lists"})
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("context cancellation", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			// The server only notices the client going away once the body is read.
			_, _ = io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
		}, ClientOpts{})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.Query(ctx, Operation{Name: "lists"})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestClientOperations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/wsdl", r.URL.Path)
		_, _ = io.WriteString(w, testWSDL)
	}, ClientOpts{})

	ops, err := client.Operations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"login", "checkCookie", "lists"}, ops)
}

func TestClientOperationsFromBinding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<?xml version="1.0"?>
<wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/" xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/">
<wsdl:binding name="SOAP" type="tns:SympaPort">
<wsdl:operation name="login"><soap:operation soapAction="urn:sympasoap#login"/></wsdl:operation>
<wsdl:operation name="which"><soap:operation soapAction="urn:sympasoap#which"/></wsdl:operation>
</wsdl:binding>
</wsdl:definitions>`)
	}, ClientOpts{})

	ops, err := client.Operations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"login", "which"}, ops)
}

func TestClientStrict(t *testing.T) {
	wsdlFetches := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			wsdlFetches++
			_, _ = io.WriteString(w, testWSDL)
			return
		}
		_, _ = io.WriteString(w, envelopeStart+`<listsResponse/>`+envelopeEnd)
	}, ClientOpts{Strict: true})

	ctx := context.Background()

	_, err := client.Query(ctx, Operation{Name: "lists"})
	require.NoError(t, err)

	_, err = client.Query(ctx, Operation{Name: "complexLists"})
	assert.ErrorIs(t, err, ErrUnknownOperation)

	assert.Equal(t, 1, wsdlFetches)
}

func TestBuildEnvelopeWithCertificate(t *testing.T) {
	cert := selfSignedCertificate(t)

	client, err := New("https://lists.example.org/sympasoap", ClientOpts{
		Namespace:   "urn:sympasoap",
		Certificate: &cert,
	})
	require.NoError(t, err)

	env, err := client.buildEnvelope(Operation{Name: "checkCookie", Namespace: "urn:sympasoap"})
	require.NoError(t, err)

	require.NotNil(t, env.Header)
	sig := env.Header.Security.Signature
	assert.Equal(t, "#"+env.Body.ID, sig.SignedInfo.Reference.URI)
	assert.Equal(t, "CN=sympa test", sig.KeyInfo.SecurityTokenReference.X509Data.IssuerName)
	assert.Equal(t, "42", sig.KeyInfo.SecurityTokenReference.X509Data.SerialNumber)

	data, err := xml.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<wsse:Security xmlns:wsse="`+wsseNS+`">`)
	assert.Contains(t, string(data), `wsu:Id="`+env.Body.ID+`"`)
}

func TestEncodeSigned(t *testing.T) {
	cert := selfSignedCertificate(t)

	for _, validate := range []bool{false, true} {
		client, err := New("https://lists.example.org/sympasoap", ClientOpts{
			Namespace:         "urn:sympasoap",
			Certificate:       &cert,
			ValidateSignature: validate,
		})
		require.NoError(t, err)

		payload, err := client.encode(Operation{
			Name:      "login",
			Namespace: "urn:sympasoap",
			Params:    []Param{{Name: "email", Value: "alice@example.org"}},
		})
		require.NoError(t, err, "validate %v", validate)

		doc := etree.NewDocument()
		require.NoError(t, doc.ReadFromString(payload))

		sig := doc.FindElement("//Security/Signature")
		require.NotNil(t, sig)
		assert.NotEmpty(t, sig.FindElement("SignatureValue").Text())
		assert.NotEmpty(t, sig.FindElement("SignedInfo/Reference/DigestValue").Text())

		body := doc.FindElement("//Body")
		require.NotNil(t, body)
		assert.Equal(t, "#"+body.SelectAttrValue("wsu:Id", ""), sig.FindElement("SignedInfo/Reference").SelectAttrValue("URI", ""))
		assert.NotNil(t, body.FindElement("login/email"))

		validator, err := signedxml.NewValidator(payload)
		require.NoError(t, err)
		validator.SetReferenceIDAttribute("Id")
		_, err = validator.ValidateReferences()
		assert.NoError(t, err)
	}
}

func TestQuerySigned(t *testing.T) {
	cert := selfSignedCertificate(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(body), "<SignatureValue>")
		assert.Contains(t, string(body), "<X509IssuerName>CN=sympa test</X509IssuerName>")

		_, _ = io.WriteString(w, envelopeStart+`<checkCookieResponse><result>alice@example.org</result></checkCookieResponse>`+envelopeEnd)
	}, ClientOpts{Certificate: &cert, ValidateSignature: true})

	resp, err := client.Query(context.Background(), Operation{Name: "checkCookie"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.org", resp.Text())
}

func selfSignedCertificate(t *testing.T) tls.Certificate {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "sympa test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}
