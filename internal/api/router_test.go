package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/internal/api"
	"github.com/tripwise/tripwise/internal/api/handler"
	"github.com/tripwise/tripwise/internal/api/models"
	"github.com/tripwise/tripwise/internal/auth"
	"github.com/tripwise/tripwise/internal/notification"
	"github.com/tripwise/tripwise/internal/trip"
)

const testUserID = "usr_testuser123"

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubProvider struct{ state string }

func (p stubProvider) Name() string         { return "nominatim" }
func (p stubProvider) CircuitState() string { return p.state }

// testJWTService creates a JWT service for generating test tokens.
func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://auth.tripwise.app",
		Audience:   "tripwise-api",
	})
}

type testEnv struct {
	router        http.Handler
	notifications *notification.Service
}

func newTestEnv(t *testing.T, dbErr error, circuit string) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)

	notifications := notification.NewService(notification.ServiceConfig{
		Repository: notification.NewInMemoryRepository(),
		Logger:     logger,
	})
	trips := trip.NewService(trip.ServiceConfig{
		Repository: trip.NewInMemoryRepository(),
		Cleaner:    notifications,
		Logger:     logger,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:             "test",
		BuildTime:           "2024-01-01T00:00:00Z",
		Logger:              logger,
		Tokens:              testJWTService(),
		TripService:         trips,
		NotificationService: notifications,
		Subsystems:          map[string]handler.Pinger{"postgres": stubPinger{err: dbErr}},
		Providers:           []handler.CircuitReporter{stubProvider{state: circuit}},
	})
	return &testEnv{router: router, notifications: notifications}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestEnv(t, nil, "closed").router
}

// addAuthHeader adds a valid Bearer token to the request.
func addAuthHeader(t *testing.T, req *http.Request) {
	t.Helper()
	token, _, err := testJWTService().GenerateAccessToken(testUserID)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createTrip(t *testing.T, router http.Handler) models.Trip {
	t.Helper()
	w := do(t, router, http.MethodPost, "/v1/trips", models.TripRequest{
		Destination:  "Paris",
		StartDate:    "2030-06-01",
		NumberOfDays: 3,
		TravelStyle:  "cultural",
		BudgetLevel:  "medium",
		HotelName:    "Hotel du Louvre",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Details["version"])
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "OK", health.Details["postgres"])
}

func TestRouter_ReadinessCheck_DatabaseDown(t *testing.T) {
	router := newTestEnv(t, errors.New("connection refused"), "closed").router

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusFail, health.Status)
}

func TestRouter_SystemStatus(t *testing.T) {
	tests := []struct {
		name    string
		circuit string
		want    models.HealthStatus
	}{
		{"closed circuit", "closed", models.HealthStatusOK},
		{"half-open circuit", "half-open", models.HealthStatusDegraded},
		{"open circuit", "open", models.HealthStatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestEnv(t, nil, tt.circuit).router

			w := do(t, router, http.MethodGet, "/v1/ops/status", nil)
			assert.Equal(t, http.StatusOK, w.Code)

			var status models.SystemStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
			assert.Equal(t, tt.want, status.Status)
			require.Len(t, status.Subsystems, 1)
			assert.Equal(t, "postgres", status.Subsystems[0].Name)
			require.Len(t, status.Providers, 1)
			assert.Equal(t, "nominatim", status.Providers[0].Provider)
			assert.Equal(t, tt.circuit, status.Providers[0].Circuit)
		})
	}
}

func TestRouter_SystemStatus_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_GetEnums(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/enums", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var enums models.Enums
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enums))
	assert.Equal(t, []string{"relax", "adventure", "cultural", "food"}, enums.TravelStyles)
	assert.Equal(t, []string{"low", "medium", "high"}, enums.BudgetLevels)
	assert.Equal(t, []string{"sunny", "cloudy", "rainy", "stormy"}, enums.Weather)
	assert.Equal(t, []string{"main", "alternative"}, enums.Selections)
	assert.Equal(t, []string{"daytime", "nighttime"}, enums.TimesOfDay)
	assert.NotEmpty(t, enums.TripTypes)
}

func TestRouter_ListDestinations(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/destinations", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var list models.DestinationList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.NotEmpty(t, list.Items)

	keys := make([]string, 0, len(list.Items))
	for _, d := range list.Items {
		keys = append(keys, d.Key)
	}
	assert.Contains(t, keys, "paris")
}

func TestRouter_Trips_RequireAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/trips", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_CreateTrip(t *testing.T) {
	router := newTestRouter(t)

	created := createTrip(t, router)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Paris", created.Destination)
	assert.Equal(t, 3, created.NumberOfDays)
	require.Len(t, created.Itinerary, 3)
	for i, day := range created.Itinerary {
		assert.Equal(t, i+1, day.DayNumber)
		assert.NotEmpty(t, day.Daytime.Main.Name)
		assert.NotEmpty(t, day.Nighttime.Main.Name)
		assert.Equal(t, "main", day.Daytime.Selected)
	}
}

func TestRouter_CreateTrip_ValidationError(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/v1/trips", models.TripRequest{
		Destination:  "",
		StartDate:    "not-a-date",
		NumberOfDays: 0,
		TravelStyle:  "extreme",
		BudgetLevel:  "medium",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.NotEmpty(t, problem.Errors)
}

func TestRouter_CreateTrip_InvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips", bytes.NewBufferString("{"))
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_TripLifecycle(t *testing.T) {
	router := newTestRouter(t)
	created := createTrip(t, router)
	path := "/v1/trips/" + created.ID

	w := do(t, router, http.MethodGet, "/v1/trips", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list models.TripList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	w = do(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Itinerary, 3)

	w = do(t, router, http.MethodPut, path, models.TripRequest{
		Destination:  "Paris",
		StartDate:    "2030-06-01",
		NumberOfDays: 5,
		TravelStyle:  "food",
		BudgetLevel:  "high",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Len(t, updated.Itinerary, 5)
	assert.Equal(t, "food", updated.TravelStyle)

	w = do(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_GetTrip_NotFound(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/v1/trips/trp_missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Directions(t *testing.T) {
	router := newTestRouter(t)
	created := createTrip(t, router)
	path := "/v1/trips/" + created.ID

	w := do(t, router, http.MethodPut, path+"/hotel", models.HotelRequest{
		Name:    "Hotel du Louvre",
		Address: "Place André Malraux",
		Lat:     48.8630,
		Lng:     2.3350,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodPost, path+"/directions", models.DirectionsRequest{Lat: 48.8584, Lng: 2.2945})
	require.Equal(t, http.StatusOK, w.Code)

	var dir models.Directions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dir))
	assert.True(t, dir.HasDirections)
	require.NotNil(t, dir.Origin)
	assert.Equal(t, "Hotel du Louvre", dir.Origin.Name)
	require.NotNil(t, dir.Walking)
	require.NotNil(t, dir.Taxi)
	assert.NotNil(t, dir.Taxi.EstimatedCost)
	assert.NotEmpty(t, dir.Fastest)
}

func TestRouter_Directions_NoTarget(t *testing.T) {
	router := newTestRouter(t)
	created := createTrip(t, router)

	w := do(t, router, http.MethodPost, "/v1/trips/"+created.ID+"/directions", models.DirectionsRequest{})
	require.Equal(t, http.StatusOK, w.Code)

	var dir models.Directions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dir))
	assert.False(t, dir.HasDirections)
	assert.NotEmpty(t, dir.Message)
}

func TestRouter_Directions_OutOfRange(t *testing.T) {
	router := newTestRouter(t)
	created := createTrip(t, router)

	w := do(t, router, http.MethodPost, "/v1/trips/"+created.ID+"/directions", models.DirectionsRequest{Lat: 91, Lng: 10})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SelectActivity(t *testing.T) {
	router := newTestRouter(t)
	created := createTrip(t, router)
	day := created.Itinerary[0]

	w := do(t, router, http.MethodPut, "/v1/trips/"+created.ID+"/days/"+day.ID+"/selection",
		models.SelectionRequest{TimeOfDay: "daytime", Selection: "alternative"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.ItineraryDay
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "alternative", got.Daytime.Selected)

	w = do(t, router, http.MethodPut, "/v1/trips/trp_other/days/"+day.ID+"/selection",
		models.SelectionRequest{TimeOfDay: "daytime", Selection: "main"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPut, "/v1/trips/"+created.ID+"/days/"+day.ID+"/selection",
		models.SelectionRequest{TimeOfDay: "evening", Selection: "main"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Notifications(t *testing.T) {
	env := newTestEnv(t, nil, "closed")
	created := createTrip(t, env.router)
	ctx := context.Background()

	require.NoError(t, env.notifications.Notify(ctx, testUserID, created.ID, "Weather changed in Paris"))
	require.NoError(t, env.notifications.Notify(ctx, testUserID, created.ID, "Weather changed again"))

	w := do(t, env.router, http.MethodGet, "/v1/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list models.NotificationList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)

	w = do(t, env.router, http.MethodGet, "/v1/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count models.UnreadCount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &count))
	assert.Equal(t, 2, count.Count)

	w = do(t, env.router, http.MethodPost, "/v1/notifications/"+list.Items[0].ID+"/read", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, env.router, http.MethodPost, "/v1/notifications/ntf_missing/read", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, env.router, http.MethodPost, "/v1/notifications/read-all", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, env.router, http.MethodGet, "/v1/notifications/unread-count", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &count))
	assert.Equal(t, 0, count.Count)

	// Deleting the trip removes its notifications.
	w = do(t, env.router, http.MethodDelete, "/v1/trips/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, env.router, http.MethodGet, "/v1/notifications", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list.Items)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
