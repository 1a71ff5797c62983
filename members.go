package sympa

import (
	"context"
	"net/mail"
	"strings"
)

// memberFields maps fullReview tags to Member fields.
var memberFields = map[string]func(*Member, string){
	"gecos":        func(m *Member, v string) { m.Name = v },
	"email":        func(m *Member, v string) { m.Email = v },
	"isSubscriber": func(m *Member, v string) { m.Subscriber = soapBool(v) },
	"isEditor":     func(m *Member, v string) { m.Editor = soapBool(v) },
	"isOwner":      func(m *Member, v string) { m.Owner = soapBool(v) },
}

// IsMember reports whether email holds role in list.
func (c *Client) IsMember(ctx context.Context, email, list string, role Role) (bool, error) {
	if err := validateRole(role); err != nil {
		return false, err
	}

	resp, err := c.call(ctx, "amI", param("list", list), param("function", string(role)), param("user", email))
	if err != nil {
		return false, err
	}

	return soapBool(resp.Text()), nil
}

// SubscriberEmails returns the subscriber addresses of list as sent by the
// service.
func (c *Client) SubscriberEmails(ctx context.Context, list string) ([]string, error) {
	resp, err := c.call(ctx, "review", param("list", list))
	if err != nil {
		return nil, err
	}

	items := resp.Items()
	emails := make([]string, 0, len(items))
	for _, item := range items {
		emails = append(emails, item.Text())
	}

	return emails, nil
}

// Subscribers returns the members of list with their roles. Unknown fields
// are logged and counted as schema drift; the rest of the member is kept.
func (c *Client) Subscribers(ctx context.Context, list string) ([]Member, error) {
	resp, err := c.call(ctx, "fullReview", param("list", list))
	if err != nil {
		return nil, err
	}

	items := resp.Items()
	members := make([]Member, 0, len(items))

	for _, item := range items {
		m := Member{MailingList: list}

		for _, field := range item.ChildElements() {
			set, ok := memberFields[field.Tag]
			if !ok {
				c.metrics.incSchemaDrift("fullReview", field.Tag)
				c.logger.WarnContext(ctx, "unexpected field in sympa response",
					"operation", "fullReview", "field", field.Tag, "list", list)
				continue
			}
			set(&m, strings.TrimSpace(field.Text()))
		}

		members = append(members, m)
	}

	return members, nil
}

// Subscribe subscribes the logged in user to list under name.
func (c *Client) Subscribe(ctx context.Context, list, name string) (bool, error) {
	resp, err := c.call(ctx, "subscribe", param("list", list), param("gecos", name))
	if err != nil {
		return false, err
	}

	return soapBool(resp.Text()), nil
}

// Signoff unsubscribes the logged in user from list.
func (c *Client) Signoff(ctx context.Context, list string) (bool, error) {
	resp, err := c.call(ctx, "signoff", param("list", list))
	if err != nil {
		return false, err
	}

	return soapBool(resp.Text()), nil
}

// AddMember subscribes email to list. With quiet set the new member is not
// sent a welcome message.
func (c *Client) AddMember(ctx context.Context, list, email, name string, quiet bool) (bool, error) {
	if err := validateEmail(email); err != nil {
		return false, err
	}

	resp, err := c.call(ctx, "add", param("list", list), param("email", email), param("gecos", name), param("quiet", quiet))
	if err != nil {
		return false, err
	}

	return soapBool(resp.Text()), nil
}

// DeleteMember unsubscribes email from list.
func (c *Client) DeleteMember(ctx context.Context, list, email string, quiet bool) (bool, error) {
	if err := validateEmail(email); err != nil {
		return false, err
	}

	resp, err := c.call(ctx, "del", param("list", list), param("email", email), param("quiet", quiet))
	if err != nil {
		return false, err
	}

	return soapBool(resp.Text()), nil
}

// validateEmail accepts a bare RFC 5322 address.
func validateEmail(email string) error {
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return &ArgumentError{Argument: "email", Value: email, Reason: "not a bare email address"}
	}
	return nil
}
