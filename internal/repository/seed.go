package repository

import (
    "context"
    "fmt"
    "math/rand/v2"

    "github.com/iliyamo/parksmart-reservation/internal/model"
)

var (
    seedRows    = []string{"A", "B", "C"}
    seedColumns = []int{1, 2, 3, 4, 5, 6, 7, 8}
)

// seedDuration is the booking length given to spots that start occupied.
const seedDuration = 60

// Seed fills the store with the dashboard grid (rows A–C, columns 1–8).
// Each spot is available or occupied with equal probability.  Occupied spots
// get an "ABC<n>" vehicle and a booked activity; the activity draws its own
// vehicle number, so it does not necessarily match the spot's.
func Seed(ctx context.Context, store Store, rng *rand.Rand) error {
    for _, row := range seedRows {
        for _, col := range seedColumns {
            name := fmt.Sprintf("%s%d", row, col)
            in := model.NewSpot{SpotName: name, Status: model.StatusAvailable}
            if rng.Float64() <= 0.5 {
                vn := fmt.Sprintf("ABC%d", rng.IntN(1000))
                dur := seedDuration
                in = model.NewSpot{
                    SpotName:        name,
                    Status:          model.StatusOccupied,
                    VehicleNumber:   &vn,
                    BookingDuration: &dur,
                }
            }
            if _, err := store.CreateSpot(ctx, in); err != nil {
                return fmt.Errorf("seed spot %s: %w", name, err)
            }
            if in.Status != model.StatusOccupied {
                continue
            }
            logged := fmt.Sprintf("ABC%d", rng.IntN(1000))
            if _, err := store.CreateActivity(ctx, model.NewActivity{
                SpotName:      name,
                Action:        model.ActionBooked,
                VehicleNumber: &logged,
            }); err != nil {
                return fmt.Errorf("seed activity %s: %w", name, err)
            }
        }
    }
    return nil
}

// SeedIfEmpty seeds the store only when it holds no spots.  Durable stores
// use it so restarts do not duplicate the grid.
func SeedIfEmpty(ctx context.Context, store Store, rng *rand.Rand) (bool, error) {
    spots, err := store.ListSpots(ctx)
    if err != nil {
        return false, err
    }
    if len(spots) > 0 {
        return false, nil
    }
    return true, Seed(ctx, store, rng)
}
