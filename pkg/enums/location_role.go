package enums

import "fmt"

// LocationRole is the location-scoped role carried on a staff assignment.
type LocationRole string

const (
	LocationRoleManager LocationRole = "manager"
	LocationRoleStaff   LocationRole = "staff"
)

var validLocationRoles = []LocationRole{
	LocationRoleManager,
	LocationRoleStaff,
}

// String implements fmt.Stringer.
func (l LocationRole) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LocationRole.
func (l LocationRole) IsValid() bool {
	for _, candidate := range validLocationRoles {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLocationRole converts raw input into a LocationRole.
func ParseLocationRole(value string) (LocationRole, error) {
	for _, candidate := range validLocationRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location role %q", value)
}
