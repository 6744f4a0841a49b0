package auth

import (
	"github.com/dmitrijs2005/artvault/internal/common"
)

// Decision is the outcome of an ownership check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Decide allows a mutation only when the authenticated identity is the
// recorded owner. An empty authenticated ID never owns anything.
func Decide(authenticatedID, ownerID string) Decision {
	if authenticatedID != "" && authenticatedID == ownerID {
		return Allow
	}
	return Deny
}

// Authorize is Decide expressed as an error: nil or common.ErrorForbidden.
func Authorize(authenticatedID, ownerID string) error {
	if Decide(authenticatedID, ownerID) == Allow {
		return nil
	}
	return common.ErrorForbidden
}
