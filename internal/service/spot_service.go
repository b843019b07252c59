package service

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/iliyamo/parksmart-reservation/internal/logger"
    "github.com/iliyamo/parksmart-reservation/internal/metrics"
    "github.com/iliyamo/parksmart-reservation/internal/model"
    "github.com/iliyamo/parksmart-reservation/internal/queue"
    "github.com/iliyamo/parksmart-reservation/internal/repository"
)

const publishTimeout = 3 * time.Second

// BookRequest carries the validated input of a booking.
type BookRequest struct {
    SpotName      string
    VehicleNumber string
    Duration      int // minutes
}

// SpotService enforces the spot status transitions and records an
// activity for each one.  Every transition runs as a single
// store.Atomically step.
type SpotService struct {
    store  repository.Store
    events EventPublisher
}

// NewSpotService wires the service to store.  A nil publisher disables
// activity events.
func NewSpotService(store repository.Store, events EventPublisher) *SpotService {
    if events == nil {
        events = NopPublisher{}
    }
    return &SpotService{store: store, events: events}
}

// List returns every spot in insertion order.
func (s *SpotService) List(ctx context.Context) ([]model.ParkingSpot, error) {
    spots, err := s.store.ListSpots(ctx)
    if err != nil {
        return nil, fmt.Errorf("list spots: %w", err)
    }
    return spots, nil
}

// Activities returns at most limit activities, newest first.
func (s *SpotService) Activities(ctx context.Context, limit int) ([]model.Activity, error) {
    acts, err := s.store.ListActivities(ctx, limit)
    if err != nil {
        return nil, fmt.Errorf("list activities: %w", err)
    }
    return acts, nil
}

// Book reserves an available spot for a vehicle.  It fails with
// repository.ErrSpotNotFound or ErrSpotUnavailable, in which case nothing
// is written.
func (s *SpotService) Book(ctx context.Context, req BookRequest) (model.ParkingSpot, error) {
    var (
        spot model.ParkingSpot
        act  model.Activity
    )
    err := s.store.Atomically(ctx, func(tx repository.Store) error {
        cur, err := tx.FindSpotByName(ctx, req.SpotName)
        if err != nil {
            return err
        }
        if cur.Status != model.StatusAvailable {
            return ErrSpotUnavailable
        }
        status := model.StatusReserved
        vehicle, duration := req.VehicleNumber, req.Duration
        spot, err = tx.UpdateSpot(ctx, cur.ID, model.SpotPatch{
            Status:          &status,
            VehicleNumber:   &vehicle,
            BookingDuration: &duration,
        })
        if err != nil {
            return err
        }
        act, err = tx.CreateActivity(ctx, model.NewActivity{
            SpotName:      spot.SpotName,
            Action:        model.ActionBooked,
            VehicleNumber: &vehicle,
        })
        return err
    })
    if err != nil {
        rejected("book", err)
        return model.ParkingSpot{}, fmt.Errorf("book spot %q: %w", req.SpotName, err)
    }
    s.committed(ctx, spot, act)
    return spot, nil
}

// Free releases a held spot and logs a freed activity carrying the vehicle
// number the spot held before it was cleared.
func (s *SpotService) Free(ctx context.Context, spotName string) (model.ParkingSpot, error) {
    spot, err := s.release(ctx, spotName, model.ActionFreed)
    if err != nil {
        rejected("free", err)
        return model.ParkingSpot{}, fmt.Errorf("free spot %q: %w", spotName, err)
    }
    return spot, nil
}

// Expire behaves like Free but logs an expired activity.  No endpoint or
// timer calls it; it is the hook for a future expiry scheduler.
func (s *SpotService) Expire(ctx context.Context, spotName string) (model.ParkingSpot, error) {
    spot, err := s.release(ctx, spotName, model.ActionExpired)
    if err != nil {
        rejected("expire", err)
        return model.ParkingSpot{}, fmt.Errorf("expire spot %q: %w", spotName, err)
    }
    return spot, nil
}

func (s *SpotService) release(ctx context.Context, spotName string, action model.ActivityAction) (model.ParkingSpot, error) {
    var (
        spot model.ParkingSpot
        act  model.Activity
    )
    err := s.store.Atomically(ctx, func(tx repository.Store) error {
        cur, err := tx.FindSpotByName(ctx, spotName)
        if err != nil {
            return err
        }
        if cur.Status == model.StatusAvailable {
            return ErrSpotAlreadyAvailable
        }
        // captured before the patch clears it
        vehicle := cur.VehicleNumber
        status := model.StatusAvailable
        spot, err = tx.UpdateSpot(ctx, cur.ID, model.SpotPatch{Status: &status, ClearBooking: true})
        if err != nil {
            return err
        }
        act, err = tx.CreateActivity(ctx, model.NewActivity{
            SpotName:      spot.SpotName,
            Action:        action,
            VehicleNumber: vehicle,
        })
        return err
    })
    if err != nil {
        return model.ParkingSpot{}, err
    }
    s.committed(ctx, spot, act)
    return spot, nil
}

// committed counts the transition and publishes its event.  A publish
// failure is logged and counted but never returned.
func (s *SpotService) committed(ctx context.Context, spot model.ParkingSpot, act model.Activity) {
    metrics.SpotTransitions.WithLabelValues(string(act.Action)).Inc()

    ev := queue.ActivityEvent{
        ActivityID:    act.ID,
        SpotID:        spot.ID,
        SpotName:      act.SpotName,
        Action:        string(act.Action),
        Status:        string(spot.Status),
        VehicleNumber: act.VehicleNumber,
        OccurredAt:    act.Timestamp.UTC().Format(time.RFC3339Nano),
    }
    if act.Action == model.ActionBooked {
        ev.Duration = spot.BookingDuration
    }
    pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
    defer cancel()
    if err := s.events.PublishActivity(pctx, ev); err != nil {
        metrics.EventPublishFailures.Inc()
        logger.WarnContext(ctx, "activity event publish failed",
            "spot", act.SpotName, "action", act.Action, "error", err)
    }
}

func rejected(op string, err error) {
    reason := "error"
    switch {
    case errors.Is(err, repository.ErrSpotNotFound):
        reason = "not_found"
    case errors.Is(err, ErrSpotUnavailable):
        reason = "unavailable"
    case errors.Is(err, ErrSpotAlreadyAvailable):
        reason = "already_available"
    }
    metrics.RejectedTransitions.WithLabelValues(op, reason).Inc()
}
