package api

import (
	"context"
	"delivery-status-service/internal/adapters/ingest"
	"delivery-status-service/internal/api/dto"
	"delivery-status-service/internal/domain"
	"delivery-status-service/internal/services"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceFleet() domain.Fleet {
	return domain.Fleet{
		Hub:            "4001 South 700 East",
		Drivers:        2,
		DayStart:       domain.Clock(8, 0, 0),
		DayEnd:         domain.Clock(17, 0, 0),
		MileageCeiling: 140,
		Trucks: []domain.TruckSpec{
			{ID: 1, Capacity: 16, SpeedMPH: 18, DispatchAt: domain.Clock(8, 0, 0)},
			{ID: 2, Capacity: 16, SpeedMPH: 18, DispatchAt: domain.Clock(9, 5, 0)},
			{ID: 3, Capacity: 16, SpeedMPH: 18, DispatchAt: domain.Clock(10, 20, 0)},
		},
	}
}

func newEngineRouter(t *testing.T) http.Handler {
	t.Helper()
	engine := services.NewEngine(
		ingest.NewCSVSource("../../data"),
		referenceFleet(),
		services.WithLogger(zerolog.Nop()),
	)
	return NewRouter(engine)
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func initialized(t *testing.T) http.Handler {
	t.Helper()
	h := newEngineRouter(t)
	rec := do(t, h, http.MethodPost, "/api/initialize")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return h
}

func TestHealth(t *testing.T) {
	h := NewRouter(&fakeTracker{})

	rec := do(t, h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRequestID(t *testing.T) {
	h := NewRouter(&fakeTracker{})

	rec := do(t, h, http.MethodGet, "/health")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestNotInitialized(t *testing.T) {
	h := newEngineRouter(t)

	for _, target := range []string{
		"/api/package/1",
		"/api/package/1/status?time=09:00",
		"/api/packages/status?time=09:00",
		"/api/total-mileage",
		"/api/trucks",
	} {
		t.Run(target, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, target)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}
}

func TestInitialize(t *testing.T) {
	h := newEngineRouter(t)

	rec := do(t, h, http.MethodPut, "/api/initialize")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))

	rec = do(t, h, http.MethodPost, "/api/initialize")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dto.ReloadResponse](t, rec)
	assert.Equal(t, uint64(1), res.Generation)
	assert.Equal(t, 40, res.Packages)
	assert.Less(t, res.TotalMileage, 140.0)

	rec = do(t, h, http.MethodGet, "/api/initialize")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(2), decode[dto.ReloadResponse](t, rec).Generation)
}

func TestGetPackage(t *testing.T) {
	h := initialized(t)

	rec := do(t, h, http.MethodGet, "/api/package/9")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[map[string]any](t, rec)
	assert.Equal(t, 9.0, p["id"])
	assert.Equal(t, "300 State St", p["address"])
	assert.Equal(t, "Salt Lake City", p["city"])
	assert.Equal(t, "84103", p["zip"])
	assert.Equal(t, "EOD", p["deadline"])
	assert.Equal(t, 2.0, p["weight"])

	tests := []struct {
		target string
		want   int
	}{
		{"/api/package/99", http.StatusNotFound},
		{"/api/package/abc", http.StatusBadRequest},
		{"/api/package/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestPackageStatus(t *testing.T) {
	h := initialized(t)

	get := func(target string) dto.PackageStatusResponse {
		rec := do(t, h, http.MethodGet, target)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[dto.PackageStatusResponse](t, rec)
	}

	early := get("/api/package/6/status?time=08:00")
	assert.Equal(t, string(domain.StatusDelayed), early.DeliveryStatus)
	assert.Nil(t, early.DeliveryTime)
	assert.Equal(t, "10:30 AM", early.DeliveryDeadline)

	raw := decode[map[string]any](t, do(t, h, http.MethodGet, "/api/package/9/status?time=08:00"))
	assert.Equal(t, 9.0, raw["id"])
	assert.Contains(t, raw, "delivery_time")

	before := get("/api/package/9/status?time=08:00")
	assert.Equal(t, string(domain.StatusAtHub), before.DeliveryStatus)
	assert.True(t, strings.HasPrefix(before.DeliveryAddress, "300 State St"))

	after := get("/api/package/9/status?time=17:00")
	assert.Equal(t, string(domain.StatusDelivered), after.DeliveryStatus)
	assert.True(t, strings.HasPrefix(after.DeliveryAddress, "410 S State St"))
	require.NotNil(t, after.DeliveryTime)
	assert.NotZero(t, after.TruckNumber)

	tests := []struct {
		target string
		want   int
	}{
		{"/api/package/9/status", http.StatusBadRequest},
		{"/api/package/9/status?time=25:00", http.StatusBadRequest},
		{"/api/package/9/status?time=noon", http.StatusBadRequest},
		{"/api/package/9/status?time=1:2", http.StatusBadRequest},
		{"/api/package/9/status?time=9:5", http.StatusBadRequest},
		{"/api/package/77/status?time=09:00", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, h, http.MethodGet, tt.target).Code)
		})
	}
}

func TestAllPackagesStatus(t *testing.T) {
	h := initialized(t)

	for _, at := range []string{"09:00", "10:00", "12:30"} {
		t.Run(at, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/packages/status?time="+at)
			require.Equal(t, http.StatusOK, rec.Code)
			res := decode[dto.ListPackageStatusResponse](t, rec)

			assert.Equal(t, at+":00", res.QueryTime)
			require.Len(t, res.Packages, 40)

			trucks := map[int]bool{}
			for i, p := range res.Packages {
				assert.Equal(t, i+1, p.PackageID)
				trucks[p.TruckNumber] = true
			}
			assert.Len(t, trucks, 3)
		})
	}

	rec := do(t, h, http.MethodGet, "/api/packages/status")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMileageAndTrucks(t *testing.T) {
	h := initialized(t)

	rec := do(t, h, http.MethodGet, "/api/total-mileage")
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode[dto.MileageResponse](t, rec)
	require.Len(t, m.IndividualMileage, 3)

	var sum float64
	for i, tm := range m.IndividualMileage {
		assert.Equal(t, i+1, tm.TruckID)
		sum += tm.Mileage
	}
	assert.InDelta(t, m.TotalMileage, sum, 1e-9)
	assert.True(t, m.UnderCeiling)
	assert.Equal(t, 140.0, m.MileageCeiling)

	rec = do(t, h, http.MethodGet, "/api/trucks")
	require.Equal(t, http.StatusOK, rec.Code)
	tr := decode[dto.ListTrucksResponse](t, rec)
	require.Len(t, tr.Trucks, 3)

	seen := map[int]bool{}
	for _, truck := range tr.Trucks {
		assert.NotEmpty(t, truck.Stops)
		for _, id := range truck.PackageIDs {
			assert.False(t, seen[id], "package %d on two trucks", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 40)
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewRouter(&fakeTracker{})
	do(t, h, http.MethodGet, "/health")

	rec := do(t, h, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    int
		message string
	}{
		{"not ready", domain.ErrNotReady, http.StatusServiceUnavailable, "delivery data not initialized"},
		{"not found", errors.Join(errors.New("lookup"), domain.ErrNotFound), http.StatusNotFound, "package not found"},
		{"constraint", domain.NewConstraintError(3, "truck 9 does not exist"), http.StatusUnprocessableEntity, "constraint error: package 3: truck 9 does not exist"},
		{"validation", domain.NewValidationError("packages.csv", "bad row"), http.StatusUnprocessableEntity, "validation error: packages.csv: bad row"},
		{"infeasible", &domain.RoutingInfeasibleError{PackageID: 6, TruckID: 2}, http.StatusUnprocessableEntity, "routing infeasible"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(&fakeTracker{err: tt.err})

			rec := do(t, h, http.MethodPost, "/api/initialize")
			assert.Equal(t, tt.want, rec.Code)
			body := decode[map[string]string](t, rec)
			assert.Contains(t, body["error"], tt.message)
			assert.NotContains(t, rec.Body.String(), "disk on fire")
		})
	}
}

// fakeTracker fails every call with err.
type fakeTracker struct {
	err error
}

func (f *fakeTracker) fail() error {
	if f.err != nil {
		return f.err
	}
	return domain.ErrNotReady
}

func (f *fakeTracker) GetPackage(int) (*domain.Package, error) { return nil, f.fail() }

func (f *fakeTracker) GetPackageStatus(int, domain.TimeOfDay) (domain.PackageStatus, error) {
	return domain.PackageStatus{}, f.fail()
}

func (f *fakeTracker) GetAllPackagesStatus(domain.TimeOfDay) (domain.StatusReport, error) {
	return domain.StatusReport{}, f.fail()
}

func (f *fakeTracker) GetTotalMileage() (domain.MileageReport, error) {
	return domain.MileageReport{}, f.fail()
}

func (f *fakeTracker) GetTrucks() ([]*domain.Route, error) { return nil, f.fail() }

func (f *fakeTracker) Reload(context.Context) (*domain.Snapshot, error) { return nil, f.fail() }
