package store

import (
	"errors"
	"fmt"
)

var (
	ErrDeskNotFound         = errors.New("desk not found")
	ErrDeskDeleted          = errors.New("desk is deleted")
	ErrDeskInactive         = errors.New("desk is inactive")
	ErrDeskNotDeleted       = errors.New("desk is not deleted")
	ErrDuplicateDeskNumber  = errors.New("desk number already in use")
	ErrDeskNumbersExhausted = errors.New("desk number space exhausted")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrStaffAssigned        = errors.New("staff already assigned")
	ErrNotStaffRole         = errors.New("user does not have staff role")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already in use")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSessionNotFound      = errors.New("session not found")
)

// StaffAssignedError reports the desk that already holds the assignment.
// It matches ErrStaffAssigned under errors.Is.
type StaffAssignedError struct {
	DeskNumber int
}

func (e *StaffAssignedError) Error() string {
	return fmt.Sprintf("staff already assigned to desk %d", e.DeskNumber)
}

func (e *StaffAssignedError) Is(target error) bool {
	return target == ErrStaffAssigned
}
