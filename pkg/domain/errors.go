package domain

import "errors"

// ErrSceneNotFound is returned when a scene ID cannot be resolved in the
// registry.
var ErrSceneNotFound = errors.New("scene not found")

// ErrSessionNotFound is returned when a session ID cannot be found in the
// state store.
var ErrSessionNotFound = errors.New("session not found")

// ErrViewerClosed is returned by viewer operations after Destroy.
var ErrViewerClosed = errors.New("viewer already destroyed")
