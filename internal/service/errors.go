package service

import "errors"

// Business errors shared across services; handlers map these to HTTP status
// codes with errors.Is.
var (
	ErrEmailTaken         = errors.New("email taken")
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrNotOwner           = errors.New("only the project owner may do this")
	ErrInviteNotFound     = errors.New("invite not found")
	ErrCollabExists       = errors.New("collaboration already exists")
	ErrCollabNotFound     = errors.New("collaboration not found")
	ErrNotPermitted       = errors.New("not permitted")
	ErrFeedbackNotFound   = errors.New("feedback not found")
	ErrReactionNotFound   = errors.New("reaction not found")
	ErrReactionExists     = errors.New("reaction already exists")
	ErrRoomNotFound       = errors.New("chat room not found")
	ErrNotParticipant     = errors.New("not a participant of this chat room")
	ErrMessageNotFound    = errors.New("message not found")
)
