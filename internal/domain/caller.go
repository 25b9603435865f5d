package domain

// Caller is the resolved identity of the user behind a request. Services
// receive it as an explicit parameter; there is no ambient request context.
type Caller struct {
	ID              string
	SystemAdmin     bool
	OrganizationIDs []string
}

// MemberOf reports whether the caller belongs to the given organization.
func (c Caller) MemberOf(organizationID string) bool {
	for _, id := range c.OrganizationIDs {
		if id == organizationID {
			return true
		}
	}
	return false
}
