// Package repository defines error types that are reused across the store
// implementations. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver specific errors.
package repository

import "errors"

// ErrSpotNotFound is returned when no spot matches the requested id or
// name. Handlers should translate this into an HTTP 404 response.
var ErrSpotNotFound = errors.New("parking spot not found")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists is returned when creating a user whose username is
// already taken. Handlers should translate this into an HTTP 409 response.
var ErrUsernameExists = errors.New("username already exists")
