package repository

import (
    "context"
    "sort"
    "sync"
    "sync/atomic"
    "time"

    "github.com/iliyamo/parksmart-reservation/internal/model"
)

// MemoryStore keeps all entities in process memory.  Each table is a dense
// slice in insertion order plus a monotonic id counter; ids are never
// reused.  State is lost when the process exits.
type MemoryStore struct {
    mu sync.RWMutex
    st memState
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*memState)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) MemoryOption {
    return func(s *memState) { s.now = now }
}

// NewMemoryStore returns an empty store.  Use Seed to populate the initial
// spot grid.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
    s := &MemoryStore{st: memState{
        spotIndex:      map[int]int{},
        nextSpotID:     1,
        nextActivityID: 1,
        nextContactID:  1,
        nextUserID:     1,
        now:            func() time.Time { return time.Now().UTC() },
        rev:            new(atomic.Uint64),
    }}
    for _, o := range opts {
        o(&s.st)
    }
    return s
}

func (s *MemoryStore) CreateSpot(ctx context.Context, in model.NewSpot) (model.ParkingSpot, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.st.CreateSpot(ctx, in)
}

func (s *MemoryStore) UpdateSpot(ctx context.Context, id int, patch model.SpotPatch) (model.ParkingSpot, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.st.UpdateSpot(ctx, id, patch)
}

func (s *MemoryStore) GetSpot(ctx context.Context, id int) (model.ParkingSpot, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.st.GetSpot(ctx, id)
}

func (s *MemoryStore) FindSpotByName(ctx context.Context, name string) (model.ParkingSpot, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.st.FindSpotByName(ctx, name)
}

func (s *MemoryStore) ListSpots(ctx context.Context) ([]model.ParkingSpot, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.st.ListSpots(ctx)
}

func (s *MemoryStore) ListSpotsByStatus(ctx context.Context, status model.SpotStatus) ([]model.ParkingSpot, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.st.ListSpotsByStatus(ctx, status)
}

func (s *MemoryStore) CreateActivity(ctx context.Context, in model.NewActivity) (model.Activity, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.st.CreateActivity(ctx, in)
}

func (s *MemoryStore) ListActivities(ctx context.Context, limit int) ([]model.Activity, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.st.ListActivities(ctx, limit)
}

func (s *MemoryStore) CreateContact(ctx context.Context, in model.NewContact) (model.Contact, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.st.CreateContact(ctx, in)
}

func (s *MemoryStore) ListContacts(ctx context.Context) ([]model.Contact, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.st.ListContacts(ctx)
}

func (s *MemoryStore) CreateUser(ctx context.Context, in model.NewUser) (model.User, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.st.CreateUser(ctx, in)
}

func (s *MemoryStore) GetUser(ctx context.Context, id int) (model.User, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.st.GetUser(ctx, id)
}

func (s *MemoryStore) FindUserByUsername(ctx context.Context, username string) (model.User, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.st.FindUserByUsername(ctx, username)
}

// Atomically holds the write lock for the duration of fn.  fn receives an
// unlocked view of the same state and must not call back into s.
func (s *MemoryStore) Atomically(ctx context.Context, fn func(tx Store) error) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.st.Atomically(ctx, fn)
}

func (s *MemoryStore) Revision() uint64 { return s.st.rev.Load() }

// memState is the unlocked table set.  It implements Store itself so that
// Atomically can hand it to callers while the owning MemoryStore holds its
// lock.
type memState struct {
    spots      []model.ParkingSpot
    spotIndex  map[int]int
    activities []model.Activity
    contacts   []model.Contact
    users      []model.User

    nextSpotID     int
    nextActivityID int
    nextContactID  int
    nextUserID     int

    lastActivityAt time.Time
    now            func() time.Time
    rev            *atomic.Uint64
}

func (m *memState) CreateSpot(_ context.Context, in model.NewSpot) (model.ParkingSpot, error) {
    id := m.nextSpotID
    m.nextSpotID++
    spot := in.Build(id, m.now())
    m.spotIndex[id] = len(m.spots)
    m.spots = append(m.spots, spot)
    m.rev.Add(1)
    return spot.Clone(), nil
}

func (m *memState) UpdateSpot(_ context.Context, id int, patch model.SpotPatch) (model.ParkingSpot, error) {
    pos, ok := m.spotIndex[id]
    if !ok {
        return model.ParkingSpot{}, ErrSpotNotFound
    }
    updated := patch.Apply(m.spots[pos], m.now())
    m.spots[pos] = updated
    m.rev.Add(1)
    return updated.Clone(), nil
}

func (m *memState) GetSpot(_ context.Context, id int) (model.ParkingSpot, error) {
    pos, ok := m.spotIndex[id]
    if !ok {
        return model.ParkingSpot{}, ErrSpotNotFound
    }
    return m.spots[pos].Clone(), nil
}

func (m *memState) FindSpotByName(_ context.Context, name string) (model.ParkingSpot, error) {
    for _, s := range m.spots {
        if s.SpotName == name {
            return s.Clone(), nil
        }
    }
    return model.ParkingSpot{}, ErrSpotNotFound
}

func (m *memState) ListSpots(_ context.Context) ([]model.ParkingSpot, error) {
    out := make([]model.ParkingSpot, 0, len(m.spots))
    for _, s := range m.spots {
        out = append(out, s.Clone())
    }
    return out, nil
}

func (m *memState) ListSpotsByStatus(_ context.Context, status model.SpotStatus) ([]model.ParkingSpot, error) {
    out := []model.ParkingSpot{}
    for _, s := range m.spots {
        if s.Status == status {
            out = append(out, s.Clone())
        }
    }
    return out, nil
}

// CreateActivity stamps the record with the current time.  A timestamp that
// would not be strictly after the previous one is moved forward by a
// millisecond so that timestamp order always matches insertion order.
func (m *memState) CreateActivity(_ context.Context, in model.NewActivity) (model.Activity, error) {
    ts := m.now()
    if !m.lastActivityAt.IsZero() && !ts.After(m.lastActivityAt) {
        ts = m.lastActivityAt.Add(time.Millisecond)
    }
    m.lastActivityAt = ts
    id := m.nextActivityID
    m.nextActivityID++
    a := in.Build(id, ts)
    m.activities = append(m.activities, a)
    m.rev.Add(1)
    return a.Clone(), nil
}

func (m *memState) ListActivities(_ context.Context, limit int) ([]model.Activity, error) {
    if limit <= 0 {
        limit = DefaultActivityLimit
    }
    out := make([]model.Activity, 0, len(m.activities))
    for _, a := range m.activities {
        out = append(out, a.Clone())
    }
    sort.SliceStable(out, func(i, j int) bool {
        if out[i].Timestamp.Equal(out[j].Timestamp) {
            return out[i].ID > out[j].ID
        }
        return out[i].Timestamp.After(out[j].Timestamp)
    })
    if len(out) > limit {
        out = out[:limit]
    }
    return out, nil
}

func (m *memState) CreateContact(_ context.Context, in model.NewContact) (model.Contact, error) {
    c := model.Contact{
        ID:        m.nextContactID,
        Name:      in.Name,
        Email:     in.Email,
        Message:   in.Message,
        Timestamp: m.now(),
    }
    m.nextContactID++
    m.contacts = append(m.contacts, c)
    m.rev.Add(1)
    return c, nil
}

func (m *memState) ListContacts(_ context.Context) ([]model.Contact, error) {
    out := make([]model.Contact, len(m.contacts))
    copy(out, m.contacts)
    return out, nil
}

func (m *memState) CreateUser(_ context.Context, in model.NewUser) (model.User, error) {
    for _, u := range m.users {
        if u.Username == in.Username {
            return model.User{}, ErrUsernameExists
        }
    }
    u := model.User{ID: m.nextUserID, Username: in.Username, PasswordHash: in.PasswordHash}
    m.nextUserID++
    m.users = append(m.users, u)
    m.rev.Add(1)
    return u, nil
}

func (m *memState) GetUser(_ context.Context, id int) (model.User, error) {
    for _, u := range m.users {
        if u.ID == id {
            return u, nil
        }
    }
    return model.User{}, ErrUserNotFound
}

func (m *memState) FindUserByUsername(_ context.Context, username string) (model.User, error) {
    for _, u := range m.users {
        if u.Username == username {
            return u, nil
        }
    }
    return model.User{}, ErrUserNotFound
}

func (m *memState) Atomically(_ context.Context, fn func(tx Store) error) error {
    return fn(m)
}

func (m *memState) Revision() uint64 { return m.rev.Load() }
