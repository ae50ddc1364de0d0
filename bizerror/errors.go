package bizerror

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotAMember      = errors.New("not a member of the organization")
	ErrInvalidPassword = errors.New("invalid password")
	ErrTooManyAttempts = errors.New("too many attempts")

	ErrNotActive        = errors.New("run is not in progress")
	ErrNotOwner         = errors.New("run belongs to another executor")
	ErrInvalidStatus    = errors.New("invalid run status")
	ErrInvalidDuration  = errors.New("invalid run duration")
	ErrConcurrentUpdate = errors.New("concurrent update conflict")

	ErrSelfGrant      = errors.New("can not grant role for self")
	ErrLastOrgManager = errors.New("the last manager of an organization can not be removed")
)

// ErrPermissionDenied wraps ErrForbidden with the checked key, so the owning
// request handler can log which permission was missing.
type ErrPermissionDenied struct {
	Role       string
	ObjectType string
	Action     string
}

func (e *ErrPermissionDenied) Error() string {
	return fmt.Sprintf("role %s is not allowed to %s on %s", e.Role, e.Action, e.ObjectType)
}

func (e *ErrPermissionDenied) Unwrap() error {
	return ErrForbidden
}
