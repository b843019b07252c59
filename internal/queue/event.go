// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// ActivityQueueName is the durable queue spot activity events are published to.
const ActivityQueueName = "parking.activity"

// ActivityEvent is published after a spot transition commits.  It carries
// the activity record and the spot's resulting status so consumers need
// not query the store.
type ActivityEvent struct {
    ActivityID    int     `json:"activity_id"`
    SpotID        int     `json:"spot_id"`
    SpotName      string  `json:"spot_name"`
    Action        string  `json:"action"`
    Status        string  `json:"status"`
    VehicleNumber *string `json:"vehicle_number,omitempty"`
    Duration      *int    `json:"duration_minutes,omitempty"`
    OccurredAt    string  `json:"occurred_at"`
}
