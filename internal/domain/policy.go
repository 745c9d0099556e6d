package domain

import "github.com/google/uuid"

// Deletion policy:
//
// 1. Nobody deletes their own account, regardless of role. The source
//    endpoints disagreed on where this check sat; it is pinned first here so
//    an admin cannot slip past it via the admin short-circuit.
// 2. Admins delete anyone else.
// 3. Managers delete plain users only.
// 4. Everyone else is refused.
//
// Absent role rows mean RoleUser on both sides. The function is pure: the
// same four inputs always produce the same decision.

type Decision struct {
	Allowed bool
	Reason  error
}

var allow = Decision{Allowed: true}

func deny(reason error) Decision {
	return Decision{Reason: reason}
}

func DecideDeletion(requesterID uuid.UUID, requesterRole Role, targetID uuid.UUID, targetRole Role) Decision {
	if requesterID == targetID {
		return deny(ErrSelfDelete)
	}

	switch requesterRole {
	case RoleAdmin:
		return allow
	case RoleManager:
		if targetRole != RoleUser {
			return deny(ErrProtectedTarget)
		}
		return allow
	default:
		return deny(ErrNotPermitted)
	}
}
