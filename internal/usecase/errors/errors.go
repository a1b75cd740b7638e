package errors

import "errors"

// Common errors
var (
	ErrForbidden = errors.New("forbidden access")
	ErrNotFound  = errors.New("resource not found")
)

// Call errors
var (
	ErrCallNotFound   = errors.New("call not found")
	ErrCallEnded      = errors.New("call has ended")
	ErrNotTeamMember  = errors.New("user is not a member of this team")
	ErrBannedFromCall = errors.New("user is banned from this call")
)

// Moderation errors
var (
	ErrNotInRoom        = errors.New("requester is not in this room")
	ErrTargetNotInRoom  = errors.New("target user is not in this room")
	ErrNoKickPermission = errors.New("no permission to kick users")
	ErrNotHost          = errors.New("user is not the host")
)

// Role mapping errors
var (
	ErrUnmappedRole = errors.New("unmapped team role")
)
