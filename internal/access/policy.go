// Package access decides which todos a caller may see and change.
//
// The caller and a todo's owner are both expressed as an Owner. The zero
// value, NoOwner, stands for an unauthenticated caller and for a todo created
// without authentication, so the whole policy reduces to comparing two Owners.
package access

import "github.com/iudanet/gophtodo/internal/apperr"

// Owner is a user id or NoOwner.
type Owner string

// NoOwner is the anonymous caller and the owner of public todos.
const NoOwner Owner = ""

// OwnerFromPtr converts a nullable owner column.
func OwnerFromPtr(id *string) Owner {
	if id == nil {
		return NoOwner
	}
	return Owner(*id)
}

// IsNone reports whether o is NoOwner.
func (o Owner) IsNone() bool {
	return o == NoOwner
}

// Ptr returns nil for NoOwner and a pointer to the id otherwise.
func (o Owner) Ptr() *string {
	if o.IsNone() {
		return nil
	}
	s := string(o)
	return &s
}

// Filter is the row predicate applied to todo reads.
// Owner == NoOwner means "owner_id IS NULL", anything else "owner_id = Owner".
type Filter struct {
	Owner Owner
}

// Allows evaluates the filter against a todo's owner column.
func (f Filter) Allows(owner *string) bool {
	return OwnerFromPtr(owner) == f.Owner
}

// ListFilter returns the read predicate for caller. Authenticated callers see
// only their own todos, anonymous callers only unowned ones; the two sets never
// overlap.
func ListFilter(caller Owner) Filter {
	return Filter{Owner: caller}
}

// CanMutate reports whether caller may change a todo owned by owner.
func CanMutate(caller, owner Owner) bool {
	return caller == owner
}

// AssignOwnerOnCreate returns the owner recorded on a new todo.
func AssignOwnerOnCreate(caller Owner) Owner {
	return caller
}

// Authorize returns a PermissionDenied error when caller may not change a
// todo owned by owner.
func Authorize(caller, owner Owner) error {
	if !CanMutate(caller, owner) {
		return apperr.New(apperr.PermissionDenied, "you do not have permission to modify this todo")
	}
	return nil
}
