package model

import "time"

// ActivityAction names the state change recorded by an Activity.
type ActivityAction string

const (
    ActionBooked  ActivityAction = "booked"
    ActionFreed   ActivityAction = "freed"
    ActionExpired ActivityAction = "expired"
)

// Activity is an immutable entry in the append-only activity log.  SpotName
// is a copy of the spot's name at the time of the change, not a reference.
type Activity struct {
    ID            int            `json:"id"`
    SpotName      string         `json:"spotName"`
    Action        ActivityAction `json:"action"`
    Timestamp     time.Time      `json:"timestamp"`
    VehicleNumber *string        `json:"vehicleNumber"`
}

// NewActivity carries the caller supplied fields for an activity record.
type NewActivity struct {
    SpotName      string
    Action        ActivityAction
    VehicleNumber *string
}

// Build materialises the activity with the given id and timestamp.
func (n NewActivity) Build(id int, ts time.Time) Activity {
    a := Activity{ID: id, SpotName: n.SpotName, Action: n.Action, Timestamp: ts}
    if n.VehicleNumber != nil {
        v := *n.VehicleNumber
        a.VehicleNumber = &v
    }
    return a
}

// Clone returns a deep copy of the activity.
func (a Activity) Clone() Activity {
    out := a
    if a.VehicleNumber != nil {
        v := *a.VehicleNumber
        out.VehicleNumber = &v
    }
    return out
}
