package model

import "time"

// SpotStatus is the occupancy state of a parking spot.
type SpotStatus string

const (
    StatusAvailable SpotStatus = "available"
    StatusOccupied  SpotStatus = "occupied"
    StatusReserved  SpotStatus = "reserved"
)

// Valid reports whether s is one of the known statuses.
func (s SpotStatus) Valid() bool {
    switch s {
    case StatusAvailable, StatusOccupied, StatusReserved:
        return true
    }
    return false
}

// Held reports whether the status marks the spot as taken (occupied or
// reserved).  Held spots carry a vehicle number and booking duration.
func (s SpotStatus) Held() bool {
    return s == StatusOccupied || s == StatusReserved
}

// ParkingSpot represents a single parking space on the dashboard grid.
// Spots are created once when the store is seeded and are only mutated
// through booking and freeing afterwards.
//
// Fields:
//  ID              – immutable identifier assigned by the store.
//  SpotName        – grid label such as "A1"; used for lookups.
//  Status          – available, occupied or reserved.
//  LastUpdated     – refreshed on every mutation.
//  VehicleNumber   – set iff Status is not available.
//  BookedAt        – stamped when the spot becomes occupied/reserved.  It is
//                    not cleared when the spot is freed.
//  BookingDuration – booked minutes; set iff Status is not available.
type ParkingSpot struct {
    ID              int        `json:"id"`
    SpotName        string     `json:"spotName"`
    Status          SpotStatus `json:"status"`
    LastUpdated     time.Time  `json:"lastUpdated"`
    VehicleNumber   *string    `json:"vehicleNumber"`
    BookedAt        *time.Time `json:"bookedAt"`
    BookingDuration *int       `json:"bookingDuration"`
}

// Clone returns a deep copy so callers never share pointer fields with the
// store that owns the original.
func (s ParkingSpot) Clone() ParkingSpot {
    out := s
    if s.VehicleNumber != nil {
        v := *s.VehicleNumber
        out.VehicleNumber = &v
    }
    if s.BookedAt != nil {
        t := *s.BookedAt
        out.BookedAt = &t
    }
    if s.BookingDuration != nil {
        d := *s.BookingDuration
        out.BookingDuration = &d
    }
    return out
}

// NewSpot carries the caller supplied fields for creating a spot.
type NewSpot struct {
    SpotName        string
    Status          SpotStatus
    VehicleNumber   *string
    BookingDuration *int
}

// Build materialises the spot with the given id and creation time.
// BookedAt is stamped only when the initial status is held.
func (n NewSpot) Build(id int, now time.Time) ParkingSpot {
    status := n.Status
    if status == "" {
        status = StatusAvailable
    }
    spot := ParkingSpot{
        ID:              id,
        SpotName:        n.SpotName,
        Status:          status,
        LastUpdated:     now,
        VehicleNumber:   n.VehicleNumber,
        BookingDuration: n.BookingDuration,
    }
    if status.Held() {
        t := now
        spot.BookedAt = &t
    }
    return spot.Clone()
}

// SpotPatch enumerates the only fields lifecycle operations may change.
// A nil pointer leaves the field untouched; ClearBooking drops the vehicle
// number and booking duration before the other fields are applied.
type SpotPatch struct {
    Status          *SpotStatus
    VehicleNumber   *string
    BookingDuration *int
    ClearBooking    bool
}

// Apply merges the patch into s.  LastUpdated is always refreshed and
// BookedAt is restamped whenever the resulting status is held; it is never
// cleared.
func (p SpotPatch) Apply(s ParkingSpot, now time.Time) ParkingSpot {
    out := s.Clone()
    if p.Status != nil {
        out.Status = *p.Status
    }
    if p.ClearBooking {
        out.VehicleNumber = nil
        out.BookingDuration = nil
    }
    if p.VehicleNumber != nil {
        v := *p.VehicleNumber
        out.VehicleNumber = &v
    }
    if p.BookingDuration != nil {
        d := *p.BookingDuration
        out.BookingDuration = &d
    }
    out.LastUpdated = now
    if out.Status.Held() {
        t := now
        out.BookedAt = &t
    }
    return out
}
