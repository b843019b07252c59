package repository

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/iliyamo/parksmart-reservation/internal/model"
)

// stepClock returns a clock that advances by one second per call.
func stepClock(start time.Time) func() time.Time {
    var mu sync.Mutex
    cur := start
    return func() time.Time {
        mu.Lock()
        defer mu.Unlock()
        cur = cur.Add(time.Second)
        return cur
    }
}

func strPtr(s string) *string { return &s }

func TestMemoryStoreAssignsMonotonicIDs(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore()
    for i, name := range []string{"A1", "A2", "A3"} {
        sp, err := s.CreateSpot(ctx, model.NewSpot{SpotName: name})
        if err != nil {
            t.Fatalf("create: %v", err)
        }
        if sp.ID != i+1 {
            t.Fatalf("id = %d, want %d", sp.ID, i+1)
        }
        if sp.Status != model.StatusAvailable || sp.BookedAt != nil {
            t.Fatalf("unexpected new spot %+v", sp)
        }
    }
    spots, _ := s.ListSpots(ctx)
    if len(spots) != 3 || spots[0].SpotName != "A1" || spots[2].SpotName != "A3" {
        t.Fatalf("listing not in insertion order: %+v", spots)
    }
}

func TestMemoryStoreFindSpotByNameFirstMatch(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore()
    first, _ := s.CreateSpot(ctx, model.NewSpot{SpotName: "dup"})
    _, _ = s.CreateSpot(ctx, model.NewSpot{SpotName: "dup"})

    got, err := s.FindSpotByName(ctx, "dup")
    if err != nil || got.ID != first.ID {
        t.Fatalf("got %+v, %v; want id %d", got, err, first.ID)
    }
    if _, err := s.FindSpotByName(ctx, "missing"); !errors.Is(err, ErrSpotNotFound) {
        t.Fatalf("err = %v, want ErrSpotNotFound", err)
    }
}

func TestMemoryStoreUpdateSpot(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore(WithClock(stepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
    sp, _ := s.CreateSpot(ctx, model.NewSpot{SpotName: "C4"})

    reserved := model.StatusReserved
    vn, dur := "KL-9", 45
    up, err := s.UpdateSpot(ctx, sp.ID, model.SpotPatch{Status: &reserved, VehicleNumber: &vn, BookingDuration: &dur})
    if err != nil {
        t.Fatalf("update: %v", err)
    }
    if !up.LastUpdated.After(sp.LastUpdated) || up.BookedAt == nil {
        t.Fatalf("timestamps not refreshed: %+v", up)
    }

    if _, err := s.UpdateSpot(ctx, 99, model.SpotPatch{}); !errors.Is(err, ErrSpotNotFound) {
        t.Fatalf("err = %v, want ErrSpotNotFound", err)
    }
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore()
    vn := "ORIG"
    sp, _ := s.CreateSpot(ctx, model.NewSpot{SpotName: "A1", Status: model.StatusOccupied, VehicleNumber: &vn})
    *sp.VehicleNumber = "mutated"
    vn = "mutated too"

    again, _ := s.GetSpot(ctx, sp.ID)
    if *again.VehicleNumber != "ORIG" {
        t.Fatalf("store state leaked through returned value: %q", *again.VehicleNumber)
    }
}

func TestMemoryStoreListByStatus(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore()
    _, _ = s.CreateSpot(ctx, model.NewSpot{SpotName: "A1"})
    _, _ = s.CreateSpot(ctx, model.NewSpot{SpotName: "A2", Status: model.StatusOccupied, VehicleNumber: strPtr("X")})
    _, _ = s.CreateSpot(ctx, model.NewSpot{SpotName: "A3", Status: model.StatusReserved, VehicleNumber: strPtr("Y")})
    _, _ = s.CreateSpot(ctx, model.NewSpot{SpotName: "A4"})

    for status, want := range map[model.SpotStatus]int{
        model.StatusAvailable: 2,
        model.StatusOccupied:  1,
        model.StatusReserved:  1,
    } {
        got, _ := s.ListSpotsByStatus(ctx, status)
        if len(got) != want {
            t.Errorf("%s: got %d spots, want %d", status, len(got), want)
        }
    }
}

func TestMemoryStoreListActivitiesNewestFirst(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore(WithClock(stepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
    for _, name := range []string{"A1", "A2", "A3", "A4", "A5"} {
        if _, err := s.CreateActivity(ctx, model.NewActivity{SpotName: name, Action: model.ActionBooked}); err != nil {
            t.Fatal(err)
        }
    }
    got, _ := s.ListActivities(ctx, 2)
    if len(got) != 2 || got[0].SpotName != "A5" || got[1].SpotName != "A4" {
        t.Fatalf("got %+v", got)
    }

    all, _ := s.ListActivities(ctx, 0)
    if len(all) != 5 {
        t.Fatalf("default limit should cover all 5, got %d", len(all))
    }
}

func TestMemoryStoreActivityTimestampsStrictlyIncrease(t *testing.T) {
    ctx := context.Background()
    frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
    s := NewMemoryStore(WithClock(func() time.Time { return frozen }))
    a1, _ := s.CreateActivity(ctx, model.NewActivity{SpotName: "A1", Action: model.ActionBooked})
    a2, _ := s.CreateActivity(ctx, model.NewActivity{SpotName: "A1", Action: model.ActionFreed})
    if !a2.Timestamp.After(a1.Timestamp) {
        t.Fatalf("timestamps not increasing: %v then %v", a1.Timestamp, a2.Timestamp)
    }
    got, _ := s.ListActivities(ctx, 10)
    if got[0].Action != model.ActionFreed {
        t.Fatalf("newest should be freed, got %s", got[0].Action)
    }
}

func TestMemoryStoreUsers(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore()
    u, err := s.CreateUser(ctx, model.NewUser{Username: "ops", PasswordHash: "h"})
    if err != nil {
        t.Fatal(err)
    }
    if _, err := s.CreateUser(ctx, model.NewUser{Username: "ops", PasswordHash: "h2"}); !errors.Is(err, ErrUsernameExists) {
        t.Fatalf("err = %v, want ErrUsernameExists", err)
    }
    got, err := s.FindUserByUsername(ctx, "ops")
    if err != nil || got.ID != u.ID {
        t.Fatalf("got %+v, %v", got, err)
    }
    if _, err := s.GetUser(ctx, 42); !errors.Is(err, ErrUserNotFound) {
        t.Fatalf("err = %v, want ErrUserNotFound", err)
    }
}

func TestMemoryStoreRevisionTracksMutations(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore()
    r0 := s.Revision()
    _, _ = s.ListSpots(ctx)
    if s.Revision() != r0 {
        t.Fatal("read changed revision")
    }
    _, _ = s.CreateContact(ctx, model.NewContact{Name: "Al", Email: "a@b.co", Message: "hello there"})
    if s.Revision() <= r0 {
        t.Fatal("write did not bump revision")
    }
}

func TestMemoryStoreAtomicallySerializes(t *testing.T) {
    ctx := context.Background()
    s := NewMemoryStore()
    sp, _ := s.CreateSpot(ctx, model.NewSpot{SpotName: "A1"})

    var wg sync.WaitGroup
    var mu sync.Mutex
    wins := 0
    for i := 0; i < 20; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            err := s.Atomically(ctx, func(tx Store) error {
                cur, err := tx.GetSpot(ctx, sp.ID)
                if err != nil {
                    return err
                }
                if cur.Status != model.StatusAvailable {
                    return errors.New("taken")
                }
                reserved := model.StatusReserved
                _, err = tx.UpdateSpot(ctx, sp.ID, model.SpotPatch{Status: &reserved})
                return err
            })
            if err == nil {
                mu.Lock()
                wins++
                mu.Unlock()
            }
        }()
    }
    wg.Wait()
    if wins != 1 {
        t.Fatalf("%d goroutines reserved the spot, want exactly 1", wins)
    }
}
