package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrMissingCredential indicates no credential was supplied
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidCredential indicates a credential that failed verification
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrInvalidWidgetSecret indicates a widget secret mismatch or decrypt failure
	ErrInvalidWidgetSecret = errors.New("invalid widget secret")
	// ErrEmailTaken indicates a signup with an already registered email
	ErrEmailTaken = errors.New("email already registered")
	// ErrUpstreamUnavailable indicates the assistant backend failed before streaming
	ErrUpstreamUnavailable = errors.New("assistant backend unavailable")
	// ErrSessionBusy indicates a second message arrived while a stream is active
	ErrSessionBusy = errors.New("session busy")
)
