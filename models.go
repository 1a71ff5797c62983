package sympa

// MailingList is a list as returned by the list queries.
type MailingList struct {
	ListAddress string `json:"list_address"`
	Subject     string `json:"subject"`
	Homepage    string `json:"homepage,omitempty"`
}

// Member is a member of a mailing list with its role flags. The flags are
// independent of each other.
type Member struct {
	MailingList string `json:"mailing_list"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	Subscriber  bool   `json:"subscriber"`
	Editor      bool   `json:"editor"`
	Owner       bool   `json:"owner"`
}

// Role is the function of a member in a list.
type Role string

// Roles accepted by IsMember.
const (
	RoleSubscriber Role = "subscriber"
	RoleEditor     Role = "editor"
	RoleOwner      Role = "owner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSubscriber, RoleEditor, RoleOwner:
		return true
	default:
		return false
	}
}

// CreateListRequest holds the arguments of CreateList.
type CreateListRequest struct {
	Name        string
	Subject     string
	Template    string
	Description string
	// Topic is a topic or a "topic/subtopic" pair.
	Topic string
	// AllowCustomTemplate skips the check of Template against the known templates.
	AllowCustomTemplate bool
}
