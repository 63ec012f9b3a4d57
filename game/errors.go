package game

import "errors"

var (
	ErrSessionNotFound = errors.New("session-not-found")
	ErrSessionClosed   = errors.New("session-closed")
)

var ErrSendBufferFull = errors.New("send-buffer-full")
