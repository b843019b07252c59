package service

import (
    "context"
    "fmt"

    "github.com/iliyamo/parksmart-reservation/internal/model"
)

// Stats summarises spot occupancy.  It is recomputed from the store on
// every call.
type Stats struct {
    TotalSpots     int `json:"totalSpots"`
    AvailableSpots int `json:"availableSpots"`
    OccupiedSpots  int `json:"occupiedSpots"`
    ReservedSpots  int `json:"reservedSpots"`
}

// Stats classifies a single snapshot of the spot list by status.
func (s *SpotService) Stats(ctx context.Context) (Stats, error) {
    spots, err := s.store.ListSpots(ctx)
    if err != nil {
        return Stats{}, fmt.Errorf("spot stats: %w", err)
    }
    return computeStats(spots), nil
}

func computeStats(spots []model.ParkingSpot) Stats {
    st := Stats{TotalSpots: len(spots)}
    for _, sp := range spots {
        switch sp.Status {
        case model.StatusAvailable:
            st.AvailableSpots++
        case model.StatusOccupied:
            st.OccupiedSpots++
        case model.StatusReserved:
            st.ReservedSpots++
        }
    }
    return st
}
