// Package service implements the spot lifecycle and the supporting
// contact and account operations on top of a repository.Store.
package service

import "errors"

// ErrSpotUnavailable is returned when booking a spot that is occupied or
// reserved. Handlers should translate this into an HTTP 400 response.
var ErrSpotUnavailable = errors.New("parking spot is not available")

// ErrSpotAlreadyAvailable is returned when freeing a spot that is not held.
var ErrSpotAlreadyAvailable = errors.New("parking spot is already available")

// ErrInvalidCredentials is returned by Login for an unknown username or a
// wrong password; the two cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid username or password")
