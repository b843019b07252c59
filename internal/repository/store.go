package repository

import (
    "context"

    "github.com/iliyamo/parksmart-reservation/internal/model"
)

// Store is the exclusive owner of spot, activity, contact and user state.
// Implementations return copies; callers never hold references into the
// store's own records.
type Store interface {
    CreateSpot(ctx context.Context, in model.NewSpot) (model.ParkingSpot, error)
    UpdateSpot(ctx context.Context, id int, patch model.SpotPatch) (model.ParkingSpot, error)
    GetSpot(ctx context.Context, id int) (model.ParkingSpot, error)
    FindSpotByName(ctx context.Context, name string) (model.ParkingSpot, error)
    ListSpots(ctx context.Context) ([]model.ParkingSpot, error)
    ListSpotsByStatus(ctx context.Context, status model.SpotStatus) ([]model.ParkingSpot, error)

    CreateActivity(ctx context.Context, in model.NewActivity) (model.Activity, error)
    // ListActivities returns at most limit activities, newest first.
    ListActivities(ctx context.Context, limit int) ([]model.Activity, error)

    CreateContact(ctx context.Context, in model.NewContact) (model.Contact, error)
    ListContacts(ctx context.Context) ([]model.Contact, error)

    CreateUser(ctx context.Context, in model.NewUser) (model.User, error)
    GetUser(ctx context.Context, id int) (model.User, error)
    FindUserByUsername(ctx context.Context, username string) (model.User, error)

    // Atomically runs fn as a single step: no other caller observes state
    // between the reads and writes fn performs through the Store it is
    // given.  fn must check its preconditions before mutating; a returned
    // error is propagated unchanged.
    Atomically(ctx context.Context, fn func(tx Store) error) error

    // Revision increases on every mutation.  Two reads at the same revision
    // see the same contents.
    Revision() uint64
}

// DefaultActivityLimit is used when a caller asks for a non-positive limit.
const DefaultActivityLimit = 10
