package soap

import (
	"encoding/xml"
	"fmt"
)

const (
	envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	xsiNS      = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNS      = "http://www.w3.org/2001/XMLSchema"
	wsseNS     = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	wsuNS      = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-utility-1.0.xsd"
	dsigNS     = "http://www.w3.org/2000/09/xmldsig#"
	excC14N    = "http://www.w3.org/2001/10/xml-exc-c14n#"
)

type envelope struct {
	XMLName xml.Name    `xml:"soap-env:Envelope"`
	SoapEnv string      `xml:"xmlns:soap-env,attr"`
	Xsi     string      `xml:"xmlns:xsi,attr"`
	Xsd     string      `xml:"xmlns:xsd,attr"`
	Header  *header     `xml:"soap-env:Header"`
	Body    requestBody `xml:"soap-env:Body"`
}

type header struct {
	Security *security `xml:"wsse:Security"`
}

type security struct {
	Wsse      string     `xml:"xmlns:wsse,attr"`
	Signature *signature `xml:"Signature"`
}

type signature struct {
	ID             string      `xml:"Id,attr"`
	Xmlns          string      `xml:"xmlns,attr"`
	SignedInfo     *signedInfo `xml:"SignedInfo"`
	SignatureValue string      `xml:"SignatureValue"`
	KeyInfo        *keyInfo    `xml:"KeyInfo"`
}

type signedInfo struct {
	CanonicalizationMethod algorithm `xml:"CanonicalizationMethod"`
	SignatureMethod        algorithm `xml:"SignatureMethod"`
	Reference              reference `xml:"Reference"`
}

type algorithm struct {
	Algorithm string `xml:"Algorithm,attr"`
}

type reference struct {
	URI          string      `xml:"URI,attr"`
	Transforms   []algorithm `xml:"Transforms>Transform"`
	DigestMethod algorithm   `xml:"DigestMethod"`
	DigestValue  string      `xml:"DigestValue"`
}

type keyInfo struct {
	ID                     string                 `xml:"Id,attr"`
	SecurityTokenReference securityTokenReference `xml:"wsse:SecurityTokenReference"`
}

type securityTokenReference struct {
	X509Data x509Data `xml:"X509Data"`
}

type x509Data struct {
	IssuerName   string `xml:"X509IssuerSerial>X509IssuerName"`
	SerialNumber string `xml:"X509IssuerSerial>X509SerialNumber"`
	Certificate  string `xml:"X509Certificate"`
}

type requestBody struct {
	ID        string `xml:"wsu:Id,attr,omitempty"`
	Wsu       string `xml:"xmlns:wsu,attr,omitempty"`
	Operation Operation
}

// Param is a single named argument of an RPC call.
type Param struct {
	Name string
	// Value is a string or a bool.
	Value interface{}
}

// Operation defines an RPC operation of the SOAP service.
type Operation struct {
	// Name is the name of the operation. It is mandatory.
	Name string
	// Namespace is the namespace of the operation element. The client's
	// namespace is used when empty.
	Namespace string
	// Params are encoded in order; RPC servers may read them positionally.
	Params []Param
}

// Action returns the SOAPAction header value for the operation.
func (op Operation) Action() string {
	return `"` + op.Namespace + "#" + op.Name + `"`
}

func xmlTokensFor(p Param) ([]xml.Token, error) {
	var xsiType, text string

	switch v := p.Value.(type) {
	case string:
		xsiType, text = "xsd:string", v
	case bool:
		// The server evaluates arguments as Perl scalars, where "false" is true.
		xsiType, text = "xsd:boolean", "0"
		if v {
			text = "1"
		}
	default:
		return nil, fmt.Errorf("soap: parameter %q: type %T not supported", p.Name, p.Value)
	}

	start := xml.StartElement{
		Name: xml.Name{Local: p.Name},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xsi:type"}, Value: xsiType}},
	}

	return []xml.Token{start, xml.CharData(text), xml.EndElement{Name: start.Name}}, nil
}

// MarshalXML marshals the Operation in XML. Parameters keep their order.
func (op Operation) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "ns:" + op.Name}
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "xmlns:ns"}, Value: op.Namespace})

	tokens := []xml.Token{start}

	for _, p := range op.Params {
		t, err := xmlTokensFor(p)
		if err != nil {
			return err
		}
		tokens = append(tokens, t...)
	}

	tokens = append(tokens, xml.EndElement{Name: start.Name})

	for _, t := range tokens {
		err := e.EncodeToken(t)
		if err != nil {
			return err
		}
	}

	return e.Flush()
}
