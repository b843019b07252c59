package handler

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/parksmart-reservation/internal/logger"
    "github.com/iliyamo/parksmart-reservation/internal/middleware"
    "github.com/iliyamo/parksmart-reservation/internal/model"
    "github.com/iliyamo/parksmart-reservation/internal/repository"
    "github.com/iliyamo/parksmart-reservation/internal/service"
)

const testSecret = "handler-test-secret"

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// newServer seeds A1 available, A2 occupied and A3 reserved behind the
// same routes the server registers.
func newServer(t *testing.T, store repository.Store) *echo.Echo {
    t.Helper()
    ctx := context.Background()
    if ms, ok := store.(*repository.MemoryStore); ok {
        for _, sp := range []model.NewSpot{
            {SpotName: "A1"},
            {SpotName: "A2", Status: model.StatusOccupied, VehicleNumber: strPtr("ABC1"), BookingDuration: intPtr(60)},
            {SpotName: "A3", Status: model.StatusReserved, VehicleNumber: strPtr("ABC2"), BookingDuration: intPtr(30)},
        } {
            if _, err := ms.CreateSpot(ctx, sp); err != nil {
                t.Fatal(err)
            }
        }
    }

    e := echo.New()
    e.Validator = NewValidator()
    ph := NewParkingHandler(service.NewSpotService(store, nil))
    ch := NewContactHandler(service.NewContactService(store))
    ah := NewAuthHandler(service.NewAuthService(store, service.AuthConfig{
        JWTSecret: testSecret, AccessTTLMin: 5, BcryptCost: bcrypt.MinCost,
    }))
    e.GET("/healthz", Health)
    e.GET("/api/parking-spots", ph.ListSpots)
    e.GET("/api/parking-spots/stats", ph.Stats)
    e.GET("/api/activities", ph.Activities)
    e.POST("/api/parking-spots/book", ph.Book)
    e.POST("/api/parking-spots/free", ph.Free)
    e.POST("/api/contact", ch.Submit)
    e.GET("/api/contacts", ch.List, middleware.JWTAuth(testSecret))
    e.POST("/api/auth/register", ah.Register)
    e.POST("/api/auth/login", ah.Login)
    return e
}

func call(e *echo.Echo, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
    var req *http.Request
    if body == "" {
        req = httptest.NewRequest(method, path, nil)
    } else {
        req = httptest.NewRequest(method, path, strings.NewReader(body))
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    for i := 0; i+1 < len(hdr); i += 2 {
        req.Header.Set(hdr[i], hdr[i+1])
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
    t.Helper()
    var v T
    if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
        t.Fatalf("decode %q: %v", rec.Body.String(), err)
    }
    return v
}

type errBody struct {
    Message string       `json:"message"`
    Errors  []fieldError `json:"errors"`
}

func activityCount(t *testing.T, e *echo.Echo) int {
    t.Helper()
    rec := call(e, http.MethodGet, "/api/activities?limit=100", "")
    return len(decode[[]model.Activity](t, rec))
}

func TestListSpotsAndStats(t *testing.T) {
    e := newServer(t, repository.NewMemoryStore())

    rec := call(e, http.MethodGet, "/api/parking-spots", "")
    if rec.Code != http.StatusOK {
        t.Fatalf("status %d", rec.Code)
    }
    spots := decode[[]map[string]any](t, rec)
    if len(spots) != 3 || spots[0]["spotName"] != "A1" {
        t.Fatalf("unexpected spots %v", spots)
    }
    // unset optional fields serialize as null
    if v, ok := spots[0]["vehicleNumber"]; !ok || v != nil {
        t.Fatalf("vehicleNumber = %v (present %v), want null", v, ok)
    }

    st := decode[service.Stats](t, call(e, http.MethodGet, "/api/parking-spots/stats", ""))
    if st != (service.Stats{TotalSpots: 3, AvailableSpots: 1, OccupiedSpots: 1, ReservedSpots: 1}) {
        t.Fatalf("unexpected stats %+v", st)
    }
}

func TestBookAndFreeFlow(t *testing.T) {
    e := newServer(t, repository.NewMemoryStore())

    rec := call(e, http.MethodPost, "/api/parking-spots/book", `{"spotName":"A1","vehicleNumber":"XYZ123","duration":30}`)
    if rec.Code != http.StatusOK {
        t.Fatalf("book status %d: %s", rec.Code, rec.Body.String())
    }
    booked := decode[model.ParkingSpot](t, rec)
    if booked.Status != model.StatusReserved || *booked.VehicleNumber != "XYZ123" || *booked.BookingDuration != 30 {
        t.Fatalf("unexpected booked spot %+v", booked)
    }

    rec = call(e, http.MethodPost, "/api/parking-spots/free", `{"spotName":"A1"}`)
    if rec.Code != http.StatusOK {
        t.Fatalf("free status %d: %s", rec.Code, rec.Body.String())
    }
    freed := decode[model.ParkingSpot](t, rec)
    if freed.Status != model.StatusAvailable || freed.VehicleNumber != nil || freed.BookingDuration != nil || freed.BookedAt == nil {
        t.Fatalf("unexpected freed spot %+v", freed)
    }

    acts := decode[[]model.Activity](t, call(e, http.MethodGet, "/api/activities?limit=2", ""))
    if len(acts) != 2 || acts[0].Action != model.ActionFreed || acts[1].Action != model.ActionBooked {
        t.Fatalf("unexpected activities %+v", acts)
    }
    if acts[0].VehicleNumber == nil || *acts[0].VehicleNumber != "XYZ123" {
        t.Fatalf("freed activity vehicle = %v", acts[0].VehicleNumber)
    }
}

func TestBookErrors(t *testing.T) {
    cases := []struct {
        name       string
        body       string
        wantStatus int
        wantMsg    string
        wantFields []string
    }{
        {"occupied", `{"spotName":"A2","vehicleNumber":"XYZ","duration":15}`, http.StatusBadRequest, "Parking spot is not available", nil},
        {"reserved", `{"spotName":"A3","vehicleNumber":"XYZ","duration":15}`, http.StatusBadRequest, "Parking spot is not available", nil},
        {"unknown spot", `{"spotName":"Z9","vehicleNumber":"XYZ","duration":15}`, http.StatusNotFound, "Parking spot not found", nil},
        {"short fields", `{"spotName":"A1","vehicleNumber":"XY","duration":10}`, http.StatusBadRequest, "Invalid booking data", []string{"vehicleNumber", "duration"}},
        {"missing duration", `{"spotName":"A1","vehicleNumber":"XYZ"}`, http.StatusBadRequest, "Invalid booking data", []string{"duration"}},
        {"wrong type", `{"spotName":"A1","vehicleNumber":"XYZ","duration":"soon"}`, http.StatusBadRequest, "Invalid booking data", nil},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            e := newServer(t, repository.NewMemoryStore())
            rec := call(e, http.MethodPost, "/api/parking-spots/book", tc.body)
            if rec.Code != tc.wantStatus {
                t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.wantStatus, rec.Body.String())
            }
            body := decode[errBody](t, rec)
            if body.Message != tc.wantMsg {
                t.Fatalf("message = %q, want %q", body.Message, tc.wantMsg)
            }
            for _, f := range tc.wantFields {
                found := false
                for _, fe := range body.Errors {
                    found = found || fe.Field == f
                }
                if !found {
                    t.Errorf("missing field error for %q in %+v", f, body.Errors)
                }
            }
            if n := activityCount(t, e); n != 0 {
                t.Fatalf("rejected booking appended %d activities", n)
            }
        })
    }
}

func TestFreeErrors(t *testing.T) {
    cases := []struct {
        name       string
        body       string
        wantStatus int
        wantMsg    string
    }{
        {"missing name", `{}`, http.StatusBadRequest, "Spot name is required"},
        {"already available", `{"spotName":"A1"}`, http.StatusBadRequest, "Parking spot is already available"},
        {"unknown spot", `{"spotName":"Z9"}`, http.StatusNotFound, "Parking spot not found"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            e := newServer(t, repository.NewMemoryStore())
            rec := call(e, http.MethodPost, "/api/parking-spots/free", tc.body)
            if rec.Code != tc.wantStatus {
                t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
            }
            if msg := decode[errBody](t, rec).Message; msg != tc.wantMsg {
                t.Fatalf("message = %q, want %q", msg, tc.wantMsg)
            }
            if n := activityCount(t, e); n != 0 {
                t.Fatalf("rejected free appended %d activities", n)
            }
        })
    }
}

func TestContactSubmission(t *testing.T) {
    store := repository.NewMemoryStore()
    e := newServer(t, store)

    rec := call(e, http.MethodPost, "/api/contact", `{"name":"J","email":"j@example.com","message":"hello there!"}`)
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("short name status = %d", rec.Code)
    }
    body := decode[errBody](t, rec)
    if body.Message != "Invalid form data" || len(body.Errors) != 1 || body.Errors[0].Field != "name" {
        t.Fatalf("unexpected error body %+v", body)
    }

    rec = call(e, http.MethodPost, "/api/contact", `{"name":"Jo","email":"jo@example.com","message":"hello there!"}`)
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
    }
    ok := decode[map[string]any](t, rec)
    if ok["success"] != true {
        t.Fatalf("unexpected body %v", ok)
    }
    cs, _ := store.ListContacts(context.Background())
    if len(cs) != 1 || cs[0].Name != "Jo" {
        t.Fatalf("contacts = %+v", cs)
    }
}

func TestContactRejectsBadEmailAndShortMessage(t *testing.T) {
    e := newServer(t, repository.NewMemoryStore())
    rec := call(e, http.MethodPost, "/api/contact", `{"name":"Jo","email":"nope","message":"short"}`)
    if rec.Code != http.StatusBadRequest || len(decode[errBody](t, rec).Errors) != 2 {
        t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
    }
}

func TestAuthAndProtectedContacts(t *testing.T) {
    e := newServer(t, repository.NewMemoryStore())

    if rec := call(e, http.MethodGet, "/api/contacts", ""); rec.Code != http.StatusUnauthorized {
        t.Fatalf("unauthenticated status = %d", rec.Code)
    }

    rec := call(e, http.MethodPost, "/api/auth/register", `{"username":"operator","password":"hunter22"}`)
    if rec.Code != http.StatusCreated {
        t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
    }
    if strings.Contains(rec.Body.String(), "hunter22") || strings.Contains(rec.Body.String(), "$2a$") {
        t.Fatal("register response leaks the password")
    }
    if rec := call(e, http.MethodPost, "/api/auth/register", `{"username":"operator","password":"hunter22"}`); rec.Code != http.StatusConflict {
        t.Fatalf("duplicate register status = %d", rec.Code)
    }
    if rec := call(e, http.MethodPost, "/api/auth/register", `{"username":"op","password":"123"}`); rec.Code != http.StatusBadRequest {
        t.Fatalf("invalid register status = %d", rec.Code)
    }
    if rec := call(e, http.MethodPost, "/api/auth/login", `{"username":"operator","password":"wrong-pass"}`); rec.Code != http.StatusUnauthorized {
        t.Fatalf("bad login status = %d", rec.Code)
    }

    rec = call(e, http.MethodPost, "/api/auth/login", `{"username":"operator","password":"hunter22"}`)
    if rec.Code != http.StatusOK {
        t.Fatalf("login status = %d", rec.Code)
    }
    sess := decode[struct {
        Access struct {
            Token string `json:"token"`
        } `json:"access"`
    }](t, rec)

    var logBuf bytes.Buffer
    prev := logger.Default()
    logger.SetDefault(logger.New(&logBuf, "info"))
    t.Cleanup(func() { logger.SetDefault(prev) })

    rec = call(e, http.MethodGet, "/api/contacts", "", "Authorization", "Bearer "+sess.Access.Token)
    if rec.Code != http.StatusOK {
        t.Fatalf("contacts status = %d", rec.Code)
    }
    // the listing is attributed to the signed-in operator
    if out := logBuf.String(); !strings.Contains(out, `"msg":"contacts listed"`) || !strings.Contains(out, `"operator":"operator"`) || !strings.Contains(out, `"operator_id":1`) {
        t.Fatalf("missing operator audit line in %q", out)
    }
}

func TestParseLimit(t *testing.T) {
    cases := map[string]int{
        "":    10,
        "abc": 10,
        "0":   10,
        "-3":  10,
        "2":   2,
        "100": 100,
        "500": 100,
    }
    for in, want := range cases {
        if got := parseLimit(in); got != want {
            t.Errorf("parseLimit(%q) = %d, want %d", in, got, want)
        }
    }
}

// failingStore makes every spot listing fail.
type failingStore struct {
    repository.Store
}

func (failingStore) ListSpots(context.Context) ([]model.ParkingSpot, error) {
    return nil, errors.New("connection reset by peer")
}

func TestInternalErrorsAreGeneric(t *testing.T) {
    e := newServer(t, failingStore{Store: repository.NewMemoryStore()})
    for path, msg := range map[string]string{
        "/api/parking-spots":       "Failed to fetch parking spots",
        "/api/parking-spots/stats": "Failed to fetch parking statistics",
    } {
        rec := call(e, http.MethodGet, path, "")
        if rec.Code != http.StatusInternalServerError {
            t.Fatalf("%s status = %d", path, rec.Code)
        }
        if strings.Contains(rec.Body.String(), "connection reset") {
            t.Fatalf("%s leaks internal error: %s", path, rec.Body.String())
        }
        if got := decode[errBody](t, rec).Message; got != msg {
            t.Fatalf("%s message = %q, want %q", path, got, msg)
        }
    }
}

func TestHealth(t *testing.T) {
    e := newServer(t, repository.NewMemoryStore())
    rec := call(e, http.MethodGet, "/healthz", "")
    if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
        t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
    }
}
