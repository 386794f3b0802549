package domain

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionFull      = errors.New("session is full")
	ErrSessionCreation  = errors.New("session creation failed")
	ErrSessionEnded     = errors.New("session has ended")
	ErrNotHost          = errors.New("user is not the session host")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrThreadNotFound   = errors.New("discussion thread not found")
	ErrPresenceNotFound = errors.New("presence record not found")
)
