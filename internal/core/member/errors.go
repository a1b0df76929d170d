package member

import "errors"

var (
	ErrInvalidID               = errors.New("member: invalid id")
	ErrInvalidExternalID       = errors.New("member: invalid external id")
	ErrInvalidSource           = errors.New("member: invalid source")
	ErrInvalidName             = errors.New("member: invalid name")
	ErrInvalidStatus           = errors.New("member: invalid status")
	ErrInvalidWorkHistory      = errors.New("member: invalid work history")
	ErrInvalidPageSize         = errors.New("member: invalid page size")
	ErrInvalidPageToken        = errors.New("member: invalid page token")
	ErrMemberNotFound          = errors.New("member: not found")
	ErrExternalIDAlreadyExists = errors.New("member: external id already exists")
)
