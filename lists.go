package sympa

import (
	"context"
	"errors"
	"strings"

	"github.com/dcu/sympa/internal/soap"
)

// mailingListFields maps response keys and tags to MailingList fields.
var mailingListFields = map[string]func(*MailingList, string){
	"listAddress": func(l *MailingList, v string) { l.ListAddress = v },
	"subject":     func(l *MailingList, v string) { l.Subject = v },
	"homepage":    func(l *MailingList, v string) { l.Homepage = v },
}

// Lists returns the lists filed under topic, or under topic/subtopic when
// subtopic is not empty.
func (c *Client) Lists(ctx context.Context, topic, subtopic string) ([]MailingList, error) {
	if err := validateTopic(topic, subtopic); err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, "lists", param("topic", topic), param("subtopic", subtopic))
	if err != nil {
		return nil, err
	}

	return c.parseListLines(ctx, resp), nil
}

// Which returns the lists the logged in user belongs to.
func (c *Client) Which(ctx context.Context) ([]MailingList, error) {
	resp, err := c.call(ctx, "which")
	if err != nil {
		return nil, err
	}

	return c.parseListLines(ctx, resp), nil
}

// AllLists returns every list visible to the session. A field other than
// listAddress, subject or homepage fails the call with a *SchemaError.
func (c *Client) AllLists(ctx context.Context) ([]MailingList, error) {
	resp, err := c.call(ctx, "complexLists")
	if err != nil {
		return nil, err
	}

	items := resp.Items()
	lists := make([]MailingList, 0, len(items))

	for _, item := range items {
		var l MailingList

		for _, field := range item.ChildElements() {
			set, ok := mailingListFields[field.Tag]
			if !ok {
				c.metrics.incSchemaDrift("complexLists", field.Tag)
				return nil, &SchemaError{Operation: "complexLists", Field: field.Tag}
			}
			set(&l, strings.TrimSpace(field.Text()))
		}

		lists = append(lists, l)
	}

	return lists, nil
}

// CreateList creates a list. Faults from the service are returned as
// *CreateListError.
func (c *Client) CreateList(ctx context.Context, req *CreateListRequest) (bool, error) {
	if err := validateCreateList(req); err != nil {
		return false, err
	}

	resp, err := c.call(ctx, "createList",
		param("listname", req.Name),
		param("subject", req.Subject),
		param("template", req.Template),
		param("description", req.Description),
		param("topics", req.Topic),
	)

	var fault *Fault
	if errors.As(err, &fault) {
		return false, &CreateListError{List: req.Name, Err: err}
	}
	if err != nil {
		return false, err
	}

	return soapBool(resp.Text()), nil
}

// CloseList closes a list.
func (c *Client) CloseList(ctx context.Context, list string) (bool, error) {
	resp, err := c.call(ctx, "closeList", param("list", list))
	if err != nil {
		return false, err
	}

	return soapBool(resp.Text()), nil
}

// parseListLines reads items of the form "listAddress=a@b;subject=S;...".
// An absent result yields an empty slice.
func (c *Client) parseListLines(ctx context.Context, resp *soap.Response) []MailingList {
	items := resp.Items()
	lists := make([]MailingList, 0, len(items))

	for _, item := range items {
		line := strings.TrimSpace(item.Text())
		if line == "" {
			continue
		}

		l, unknown := parseListLine(line)
		for _, key := range unknown {
			c.logger.DebugContext(ctx, "ignoring unknown list attribute", "operation", resp.Operation, "key", key)
		}

		lists = append(lists, l)
	}

	return lists
}

// parseListLine splits a list line on ";" and each field on its first "=".
// Keys without a MailingList field are returned separately.
func parseListLine(line string) (MailingList, []string) {
	var (
		l       MailingList
		unknown []string
	)

	for _, field := range strings.Split(line, ";") {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		set, ok := mailingListFields[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		set(&l, value)
	}

	return l, unknown
}
