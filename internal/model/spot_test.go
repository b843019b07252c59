package model

import (
    "testing"
    "time"
)

func TestNewSpotBuildStampsBookedAtOnlyWhenHeld(t *testing.T) {
    now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
    cases := []struct {
        status SpotStatus
        want   bool
    }{
        {StatusAvailable, false},
        {StatusOccupied, true},
        {StatusReserved, true},
        {"", false},
    }
    for _, tc := range cases {
        t.Run(string(tc.status), func(t *testing.T) {
            s := NewSpot{SpotName: "A1", Status: tc.status}.Build(7, now)
            if s.ID != 7 || !s.LastUpdated.Equal(now) {
                t.Fatalf("unexpected spot %+v", s)
            }
            if got := s.BookedAt != nil; got != tc.want {
                t.Fatalf("bookedAt set = %v, want %v", got, tc.want)
            }
        })
    }
}

func TestSpotPatchClearKeepsBookedAt(t *testing.T) {
    t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
    vn, dur := "XYZ123", 30
    reserved := StatusReserved
    spot := NewSpot{SpotName: "B2", Status: StatusAvailable}.Build(1, t0)

    booked := SpotPatch{Status: &reserved, VehicleNumber: &vn, BookingDuration: &dur}.Apply(spot, t0.Add(time.Minute))
    if booked.BookedAt == nil || !booked.BookedAt.Equal(t0.Add(time.Minute)) {
        t.Fatalf("bookedAt not stamped: %+v", booked.BookedAt)
    }

    available := StatusAvailable
    freed := SpotPatch{Status: &available, ClearBooking: true}.Apply(booked, t0.Add(2*time.Minute))
    if freed.VehicleNumber != nil || freed.BookingDuration != nil {
        t.Fatalf("booking fields not cleared: %+v", freed)
    }
    if freed.BookedAt == nil || !freed.BookedAt.Equal(t0.Add(time.Minute)) {
        t.Fatalf("bookedAt should survive a free, got %v", freed.BookedAt)
    }
    if !freed.LastUpdated.Equal(t0.Add(2 * time.Minute)) {
        t.Fatalf("lastUpdated not refreshed")
    }
}

func TestCloneDoesNotShareFields(t *testing.T) {
    vn := "ABC1"
    s := ParkingSpot{VehicleNumber: &vn}
    c := s.Clone()
    *c.VehicleNumber = "changed"
    if *s.VehicleNumber != "ABC1" {
        t.Fatal("clone shares vehicle number")
    }
}
