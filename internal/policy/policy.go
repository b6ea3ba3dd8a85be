// Package policy decides whether a principal may act on a resource.
//
// Comics, ratings and comments are owned resources: the owner or an ADMIN may
// change them. Users are self-managed: only the user themself may read, change
// or delete their profile, and ADMIN gets no override there.
package policy

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Resource string

const (
	ResourceComic   Resource = "comic"
	ResourceRating  Resource = "rating"
	ResourceComment Resource = "comment"
	ResourceUser    Resource = "user"
)

// Principal is the identity carried by a verified token.
type Principal struct {
	UserID int64
	Role   Role
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// Decide is a pure function of its inputs. ownerID is the owning user of the
// resource, or the target user id for ResourceUser; it is ignored for create.
func Decide(action Action, resource Resource, ownerID int64, p *Principal) Decision {
	if resource == ResourceUser {
		if p == nil {
			return DenyUnauthenticated
		}
		if p.UserID == ownerID {
			return Allow
		}
		return DenyForbidden
	}

	switch action {
	case ActionRead:
		return Allow
	case ActionCreate:
		if p == nil {
			return DenyUnauthenticated
		}
		return Allow
	case ActionUpdate, ActionDelete:
		if p == nil {
			return DenyUnauthenticated
		}
		if p.UserID == ownerID || p.Role == RoleAdmin {
			return Allow
		}
		return DenyForbidden
	default:
		return DenyForbidden
	}
}
