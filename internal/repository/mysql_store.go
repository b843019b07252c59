package repository

import (
    "context"
    "database/sql"
    "errors"
    "sync/atomic"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/parksmart-reservation/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MySQLStore is a drop-in Store backed by MySQL.  All timestamps are
// written in UTC; the DSN is expected to carry parseTime=true.
type MySQLStore struct {
    db   *sql.DB
    q    querier
    inTx bool
    rev  *atomic.Uint64
    // pending counts writes made inside an open transaction; they reach
    // rev only once the transaction commits.
    pending uint64
}

// NewMySQLStore returns a store bound to the provided database.
func NewMySQLStore(db *sql.DB) *MySQLStore {
    return &MySQLStore{db: db, q: db, rev: new(atomic.Uint64)}
}

// schema is applied by EnsureSchema.  Statements are idempotent.
var schema = []string{
    `CREATE TABLE IF NOT EXISTS parking_spots (
        id INT AUTO_INCREMENT PRIMARY KEY,
        spot_name VARCHAR(32) NOT NULL,
        status VARCHAR(16) NOT NULL DEFAULT 'available',
        last_updated DATETIME(3) NOT NULL,
        vehicle_number VARCHAR(64) NULL,
        booked_at DATETIME(3) NULL,
        booking_duration INT NULL,
        KEY idx_spot_name (spot_name)
    )`,
    `CREATE TABLE IF NOT EXISTS activities (
        id INT AUTO_INCREMENT PRIMARY KEY,
        spot_name VARCHAR(32) NOT NULL,
        action VARCHAR(16) NOT NULL,
        ts DATETIME(3) NOT NULL,
        vehicle_number VARCHAR(64) NULL,
        KEY idx_ts (ts)
    )`,
    `CREATE TABLE IF NOT EXISTS contacts (
        id INT AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(255) NOT NULL,
        email VARCHAR(255) NOT NULL,
        message TEXT NOT NULL,
        ts DATETIME(3) NOT NULL
    )`,
    `CREATE TABLE IF NOT EXISTS users (
        id INT AUTO_INCREMENT PRIMARY KEY,
        username VARCHAR(64) NOT NULL UNIQUE,
        password VARCHAR(255) NOT NULL
    )`,
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
    for _, stmt := range schema {
        if _, err := s.q.ExecContext(ctx, stmt); err != nil {
            return err
        }
    }
    return nil
}

const spotColumns = `id, spot_name, status, last_updated, vehicle_number, booked_at, booking_duration`

type rowScanner interface {
    Scan(dest ...any) error
}

func scanSpot(sc rowScanner) (model.ParkingSpot, error) {
    var (
        sp       model.ParkingSpot
        status   string
        vehicle  sql.NullString
        bookedAt sql.NullTime
        duration sql.NullInt64
    )
    if err := sc.Scan(&sp.ID, &sp.SpotName, &status, &sp.LastUpdated, &vehicle, &bookedAt, &duration); err != nil {
        return model.ParkingSpot{}, err
    }
    sp.Status = model.SpotStatus(status)
    if vehicle.Valid {
        v := vehicle.String
        sp.VehicleNumber = &v
    }
    if bookedAt.Valid {
        t := bookedAt.Time
        sp.BookedAt = &t
    }
    if duration.Valid {
        d := int(duration.Int64)
        sp.BookingDuration = &d
    }
    return sp, nil
}

func nullString(p *string) any {
    if p == nil {
        return nil
    }
    return *p
}

func nullInt(p *int) any {
    if p == nil {
        return nil
    }
    return *p
}

func nullTime(p *time.Time) any {
    if p == nil {
        return nil
    }
    return *p
}

func (s *MySQLStore) CreateSpot(ctx context.Context, in model.NewSpot) (model.ParkingSpot, error) {
    spot := in.Build(0, time.Now().UTC())
    res, err := s.q.ExecContext(ctx,
        `INSERT INTO parking_spots (spot_name, status, last_updated, vehicle_number, booked_at, booking_duration) VALUES (?,?,?,?,?,?)`,
        spot.SpotName, string(spot.Status), spot.LastUpdated, nullString(spot.VehicleNumber), nullTime(spot.BookedAt), nullInt(spot.BookingDuration))
    if err != nil {
        return model.ParkingSpot{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.ParkingSpot{}, err
    }
    spot.ID = int(id)
    s.bump()
    return spot, nil
}

// UpdateSpot reads the current row (locking it inside a transaction),
// applies the patch in memory and writes every mutable column back.
func (s *MySQLStore) UpdateSpot(ctx context.Context, id int, patch model.SpotPatch) (model.ParkingSpot, error) {
    current, err := s.getSpot(ctx, `WHERE id = ?`, id)
    if err != nil {
        return model.ParkingSpot{}, err
    }
    updated := patch.Apply(current, time.Now().UTC())
    _, err = s.q.ExecContext(ctx,
        `UPDATE parking_spots SET status = ?, last_updated = ?, vehicle_number = ?, booked_at = ?, booking_duration = ? WHERE id = ?`,
        string(updated.Status), updated.LastUpdated, nullString(updated.VehicleNumber), nullTime(updated.BookedAt), nullInt(updated.BookingDuration), id)
    if err != nil {
        return model.ParkingSpot{}, err
    }
    s.bump()
    return updated, nil
}

func (s *MySQLStore) GetSpot(ctx context.Context, id int) (model.ParkingSpot, error) {
    return s.getSpot(ctx, `WHERE id = ?`, id)
}

func (s *MySQLStore) FindSpotByName(ctx context.Context, name string) (model.ParkingSpot, error) {
    return s.getSpot(ctx, `WHERE spot_name = ? ORDER BY id LIMIT 1`, name)
}

func (s *MySQLStore) getSpot(ctx context.Context, where string, arg any) (model.ParkingSpot, error) {
    query := `SELECT ` + spotColumns + ` FROM parking_spots ` + where
    if s.inTx {
        query += ` FOR UPDATE`
    }
    sp, err := scanSpot(s.q.QueryRowContext(ctx, query, arg))
    if errors.Is(err, sql.ErrNoRows) {
        return model.ParkingSpot{}, ErrSpotNotFound
    }
    return sp, err
}

func (s *MySQLStore) ListSpots(ctx context.Context) ([]model.ParkingSpot, error) {
    return s.listSpots(ctx, `SELECT `+spotColumns+` FROM parking_spots ORDER BY id`)
}

func (s *MySQLStore) ListSpotsByStatus(ctx context.Context, status model.SpotStatus) ([]model.ParkingSpot, error) {
    return s.listSpots(ctx, `SELECT `+spotColumns+` FROM parking_spots WHERE status = ? ORDER BY id`, string(status))
}

func (s *MySQLStore) listSpots(ctx context.Context, query string, args ...any) ([]model.ParkingSpot, error) {
    rows, err := s.q.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.ParkingSpot{}
    for rows.Next() {
        sp, err := scanSpot(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, sp)
    }
    return out, rows.Err()
}

func (s *MySQLStore) CreateActivity(ctx context.Context, in model.NewActivity) (model.Activity, error) {
    a := in.Build(0, time.Now().UTC())
    res, err := s.q.ExecContext(ctx,
        `INSERT INTO activities (spot_name, action, ts, vehicle_number) VALUES (?,?,?,?)`,
        a.SpotName, string(a.Action), a.Timestamp, nullString(a.VehicleNumber))
    if err != nil {
        return model.Activity{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.Activity{}, err
    }
    a.ID = int(id)
    s.bump()
    return a, nil
}

// ListActivities orders by timestamp and then id, so rows written within
// the same millisecond still come back newest first.
func (s *MySQLStore) ListActivities(ctx context.Context, limit int) ([]model.Activity, error) {
    if limit <= 0 {
        limit = DefaultActivityLimit
    }
    rows, err := s.q.QueryContext(ctx,
        `SELECT id, spot_name, action, ts, vehicle_number FROM activities ORDER BY ts DESC, id DESC LIMIT ?`, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Activity{}
    for rows.Next() {
        var (
            a       model.Activity
            action  string
            vehicle sql.NullString
        )
        if err := rows.Scan(&a.ID, &a.SpotName, &action, &a.Timestamp, &vehicle); err != nil {
            return nil, err
        }
        a.Action = model.ActivityAction(action)
        if vehicle.Valid {
            v := vehicle.String
            a.VehicleNumber = &v
        }
        out = append(out, a)
    }
    return out, rows.Err()
}

func (s *MySQLStore) CreateContact(ctx context.Context, in model.NewContact) (model.Contact, error) {
    c := model.Contact{Name: in.Name, Email: in.Email, Message: in.Message, Timestamp: time.Now().UTC()}
    res, err := s.q.ExecContext(ctx,
        `INSERT INTO contacts (name, email, message, ts) VALUES (?,?,?,?)`,
        c.Name, c.Email, c.Message, c.Timestamp)
    if err != nil {
        return model.Contact{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.Contact{}, err
    }
    c.ID = int(id)
    s.bump()
    return c, nil
}

func (s *MySQLStore) ListContacts(ctx context.Context) ([]model.Contact, error) {
    rows, err := s.q.QueryContext(ctx, `SELECT id, name, email, message, ts FROM contacts ORDER BY id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Contact{}
    for rows.Next() {
        var c model.Contact
        if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.Timestamp); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

func (s *MySQLStore) CreateUser(ctx context.Context, in model.NewUser) (model.User, error) {
    res, err := s.q.ExecContext(ctx,
        `INSERT INTO users (username, password) VALUES (?,?)`, in.Username, in.PasswordHash)
    if err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
            return model.User{}, ErrUsernameExists
        }
        return model.User{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.User{}, err
    }
    s.bump()
    return model.User{ID: int(id), Username: in.Username, PasswordHash: in.PasswordHash}, nil
}

func (s *MySQLStore) GetUser(ctx context.Context, id int) (model.User, error) {
    return s.getUser(ctx, `SELECT id, username, password FROM users WHERE id = ? LIMIT 1`, id)
}

func (s *MySQLStore) FindUserByUsername(ctx context.Context, username string) (model.User, error) {
    return s.getUser(ctx, `SELECT id, username, password FROM users WHERE username = ? LIMIT 1`, username)
}

func (s *MySQLStore) getUser(ctx context.Context, query string, arg any) (model.User, error) {
    var u model.User
    err := s.q.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash)
    if errors.Is(err, sql.ErrNoRows) {
        return model.User{}, ErrUserNotFound
    }
    return u, err
}

// Atomically runs fn inside a transaction.  Spot reads made through the
// transactional store take row locks, so a concurrent book or free of the
// same spot waits until this one commits.
func (s *MySQLStore) Atomically(ctx context.Context, fn func(tx Store) error) error {
    if s.inTx {
        return fn(s)
    }
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    txStore := &MySQLStore{db: s.db, q: tx, inTx: true, rev: s.rev}
    if err := fn(txStore); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    s.rev.Add(txStore.pending)
    return nil
}

// bump records a write.  Inside a transaction the revision only moves after
// commit, so a concurrent reader never pairs the new revision with rows it
// cannot see yet.
func (s *MySQLStore) bump() {
    if s.inTx {
        s.pending++
        return
    }
    s.rev.Add(1)
}

// Revision reports the committed revision.
func (s *MySQLStore) Revision() uint64 { return s.rev.Load() }
