package domain

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrRemoteUnavailable = errors.New("recommender temporarily unavailable")
	ErrInvalidAction     = errors.New("invalid swipe action")
	ErrTokenNotFound     = errors.New("session token not found")
	ErrControllerStopped = errors.New("swipe controller stopped")
)
