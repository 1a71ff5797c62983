package soap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrMalformedResponse is returned when a response is not a SOAP envelope.
var ErrMalformedResponse = errors.New("soap: malformed response")

// Fault is a SOAP 1.1 fault reported by the service.
type Fault struct {
	Operation string
	Code      string
	String    string
	Actor     string
	Detail    string
}

func (f *Fault) Error() string {
	msg := fmt.Sprintf("soap: %s fault on %s: %s", f.Code, f.Operation, f.String)
	if f.Detail != "" {
		msg += " (" + f.Detail + ")"
	}
	return msg
}

// HTTPError is returned when the service answers with a non-2xx status and
// no fault in the body.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("soap: unexpected HTTP status %d: %s", e.StatusCode, e.Body)
}

// Response wraps the `<operationResponse>` element of a SOAP body.
//
// Services answer in one of three shapes: a single text-bearing result
// element (Text), a flat sequence of items (Items) or a sequence of items
// with nested fields (Items, then each item's ChildElements).
type Response struct {
	Operation string
	Element   *etree.Element
}

// Result returns the first child element of the response, nil if absent.
func (r *Response) Result() *etree.Element {
	if r == nil || r.Element == nil {
		return nil
	}

	children := r.Element.ChildElements()
	if len(children) == 0 {
		return nil
	}

	return children[0]
}

// Text returns the trimmed text of the result element.
func (r *Response) Text() string {
	result := r.Result()
	if result == nil {
		return ""
	}

	return strings.TrimSpace(result.Text())
}

// Items returns the child elements of the result element.
func (r *Response) Items() []*etree.Element {
	result := r.Result()
	if result == nil {
		return nil
	}

	return result.ChildElements()
}

// ParseResponse parses a SOAP envelope. A fault in the body is returned as
// a *Fault error.
func ParseResponse(operation string, data []byte) (*Response, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "Envelope" {
		return nil, fmt.Errorf("%w: no envelope", ErrMalformedResponse)
	}

	body := root.SelectElement("Body")
	if body == nil {
		return nil, fmt.Errorf("%w: no body", ErrMalformedResponse)
	}

	if fault := body.SelectElement("Fault"); fault != nil {
		return nil, parseFault(operation, fault)
	}

	resp := &Response{Operation: operation}

	children := body.ChildElements()
	if len(children) > 0 {
		resp.Element = children[0]
	}

	return resp, nil
}

func parseFault(operation string, el *etree.Element) *Fault {
	f := &Fault{Operation: operation}

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "faultcode":
			f.Code = strings.TrimSpace(child.Text())
		case "faultstring":
			f.String = strings.TrimSpace(child.Text())
		case "faultactor":
			f.Actor = strings.TrimSpace(child.Text())
		case "detail":
			f.Detail = strings.TrimSpace(child.Text())
		}
	}

	return f
}
