package valueobject

import "fmt"

// Role distinguishes borrowers from lending institutions.
type Role struct {
	value string
}

var (
	RoleUser    = Role{value: "user"}
	RolePartner = Role{value: "partner"}
)

// NewRole parses a role name.
func NewRole(s string) (Role, error) {
	switch s {
	case RoleUser.value:
		return RoleUser, nil
	case RolePartner.value:
		return RolePartner, nil
	}
	return Role{}, fmt.Errorf("invalid role: %q", s)
}

func (r Role) String() string        { return r.value }
func (r Role) IsZero() bool          { return r.value == "" }
func (r Role) Equal(other Role) bool { return r.value == other.value }
