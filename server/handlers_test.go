package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caruhq/caru/server/models"
	"github.com/caruhq/caru/server/notifier"
	"github.com/caruhq/caru/server/store"
	"github.com/caruhq/caru/server/telemetry"
	"github.com/stretchr/testify/assert"
)

type testServer struct {
	router   http.Handler
	profiles *store.ProfileStore
	alerts   *store.AlertStore
	warnings *store.WarningStore
	sink     *notifier.RecordingSink
}

func newTestServer() *testServer {
	profiles := store.NewProfileStore(seedProfile("tony stark", "+12345678900", "stark@avengers.com"))
	alerts := store.NewAlertStore()
	warnings := store.NewWarningStore()
	simulator := telemetry.NewSimulator()
	tracker := telemetry.NewTracker()
	sink := notifier.NewRecordingSink()

	handler := NewAPIHandler(profiles, alerts, warnings, simulator, tracker, notifier.New(profiles, sink))

	return &testServer{
		router:   NewRouter(handler),
		profiles: profiles,
		alerts:   alerts,
		warnings: warnings,
		sink:     sink,
	}
}

func (ts *testServer) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	recorder := httptest.NewRecorder()
	ts.router.ServeHTTP(recorder, httptest.NewRequest(method, path, reader))

	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, value interface{}) {
	t.Helper()

	if err := json.NewDecoder(recorder.Body).Decode(value); err != nil {
		t.Fatalf("could not decode response body: %v", err)
	}
}

func TestTelemetryEndpoints(t *testing.T) {
	ts := newTestServer()

	t.Run("GET /items/battery", func(t *testing.T) {
		recorder := ts.request(t, "GET", "/items/battery", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		battery := telemetry.BatteryStatus{}
		decodeBody(t, recorder, &battery)
		assert.Equal(t, "healthy", battery.Status)
		assert.GreaterOrEqual(t, battery.Level, 20)
		assert.LessOrEqual(t, battery.Level, 100)
	})

	t.Run("GET /items/joints", func(t *testing.T) {
		recorder := ts.request(t, "GET", "/items/joints", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		joints := []telemetry.JointStatus{}
		decodeBody(t, recorder, &joints)
		assert.Len(t, joints, 3)
		assert.Equal(t, "joint1", joints[0].Name)
	})

	t.Run("GET /items/tasks", func(t *testing.T) {
		recorder := ts.request(t, "GET", "/items/tasks", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		tasks := []telemetry.Task{}
		decodeBody(t, recorder, &tasks)
		assert.Len(t, tasks, 3)
		assert.Equal(t, "t1", tasks[0].ID)
	})

	t.Run("GET /robot/status", func(t *testing.T) {
		recorder := ts.request(t, "GET", "/robot/status", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		status := telemetry.RobotStatus{}
		decodeBody(t, recorder, &status)
		assert.True(t, status.Online, "robot was just heard from")
		assert.NotEmpty(t, status.LastSeen)
	})
}

func TestProfileEndpoints(t *testing.T) {
	ts := newTestServer()

	t.Run("GET /user/profile", func(t *testing.T) {
		recorder := ts.request(t, "GET", "/user/profile", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		profile := models.UserProfile{}
		decodeBody(t, recorder, &profile)
		assert.Equal(t, "tony stark", profile.Name)
		assert.NotNil(t, profile.EmergencyContacts)
	})

	t.Run("PATCH /user/profile updates allow-listed fields", func(t *testing.T) {
		recorder := ts.request(t, "PATCH", "/user/profile",
			`{"name": "iron man", "notificationPreferences": {"email": false, "sms": true, "push": true}}`)
		assert.Equal(t, http.StatusOK, recorder.Code)

		profile := models.UserProfile{}
		decodeBody(t, recorder, &profile)
		assert.Equal(t, "iron man", profile.Name)
		assert.True(t, profile.NotificationPreferences.Push)
		assert.Equal(t, "stark@avengers.com", profile.Email)
	})

	t.Run("PATCH /user/profile rejects unknown fields", func(t *testing.T) {
		recorder := ts.request(t, "PATCH", "/user/profile", `{"id": "999"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		payload := ErrorPayload{}
		decodeBody(t, recorder, &payload)
		assert.NotEmpty(t, payload.Error)
	})
}

func TestContactEndpoints(t *testing.T) {
	ts := newTestServer()

	t.Run("POST /user/emergency-contacts assigns the id server-side", func(t *testing.T) {
		recorder := ts.request(t, "POST", "/user/emergency-contacts",
			`{"id": "999", "name": "pepper potts", "phone": "+22345678900", "relationship": "partner", "isPrimary": true}`)
		assert.Equal(t, http.StatusOK, recorder.Code)

		contact := models.EmergencyContact{}
		decodeBody(t, recorder, &contact)
		assert.Equal(t, "1", contact.ID)
		assert.Equal(t, "pepper potts", contact.Name)
	})

	t.Run("POST /user/emergency-contacts validates the payload", func(t *testing.T) {
		recorder := ts.request(t, "POST", "/user/emergency-contacts", `{"name": "no phone"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("PATCH /user/emergency-contacts/{id} updates the contact", func(t *testing.T) {
		recorder := ts.request(t, "PATCH", "/user/emergency-contacts/1", `{"relationship": "wife"}`)
		assert.Equal(t, http.StatusOK, recorder.Code)

		contact := models.EmergencyContact{}
		decodeBody(t, recorder, &contact)
		assert.Equal(t, "wife", contact.Relationship)
		assert.Equal(t, "pepper potts", contact.Name)
	})

	t.Run("PATCH with an unknown id returns 404", func(t *testing.T) {
		recorder := ts.request(t, "PATCH", "/user/emergency-contacts/42", `{"name": "nobody"}`)
		assert.Equal(t, http.StatusNotFound, recorder.Code)

		payload := ErrorPayload{}
		decodeBody(t, recorder, &payload)
		assert.NotEmpty(t, payload.Error)
	})

	t.Run("DELETE /user/emergency-contacts/{id} is idempotent", func(t *testing.T) {
		recorder := ts.request(t, "DELETE", "/user/emergency-contacts/1", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder = ts.request(t, "DELETE", "/user/emergency-contacts/1", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		assert.Empty(t, ts.profiles.Profile().EmergencyContacts)
	})
}

func TestEmergencyEndpoints(t *testing.T) {
	ts := newTestServer()

	t.Run("POST /emergency/trigger classifies and notifies", func(t *testing.T) {
		recorder := ts.request(t, "POST", "/emergency/trigger",
			`{"type": "emergency_fall", "metadata": {"location": "kitchen"}}`)
		assert.Equal(t, http.StatusOK, recorder.Code)

		alert := models.EmergencyAlert{}
		decodeBody(t, recorder, &alert)
		assert.Equal(t, "1", alert.ID)
		assert.Equal(t, models.ALERT_TYPE_FALL, alert.Type)
		assert.Equal(t, models.LEVEL_CRITICAL, alert.Level)
		assert.Equal(t, models.SEVERITY_CRITICAL, alert.Severity)
		assert.Equal(t, "kitchen", alert.Location)

		// default profile prefs email+sms => 2 deliveries to the owner
		assert.Len(t, ts.sink.Deliveries(), 2)
	})

	t.Run("GET /emergency/alerts returns the list", func(t *testing.T) {
		recorder := ts.request(t, "GET", "/emergency/alerts", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		alerts := []models.EmergencyAlert{}
		decodeBody(t, recorder, &alerts)
		assert.Len(t, alerts, 1)
	})

	t.Run("PATCH /emergency/alerts/{id}/acknowledge", func(t *testing.T) {
		recorder := ts.request(t, "PATCH", "/emergency/alerts/1/acknowledge", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		payload := MessagePayload{}
		decodeBody(t, recorder, &payload)
		assert.NotEmpty(t, payload.Message)
	})

	t.Run("acknowledging an unknown alert returns 404", func(t *testing.T) {
		recorder := ts.request(t, "PATCH", "/emergency/alerts/42/acknowledge", "")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("POST /emergency/test-notification dispatches without storing", func(t *testing.T) {
		deliveriesBefore := len(ts.sink.Deliveries())

		recorder := ts.request(t, "POST", "/emergency/test-notification", "")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Greater(t, len(ts.sink.Deliveries()), deliveriesBefore)

		alerts := []models.EmergencyAlert{}
		decodeBody(t, ts.request(t, "GET", "/emergency/alerts", ""), &alerts)
		assert.Len(t, alerts, 1, "test notifications should not append to the alert list")
	})
}

func TestWarningEndpoints(t *testing.T) {
	ts := newTestServer()

	t.Run("GET /warnings starts empty", func(t *testing.T) {
		recorder := ts.request(t, "GET", "/warnings", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		warnings := []models.Warning{}
		decodeBody(t, recorder, &warnings)
		assert.Empty(t, warnings)
	})

	t.Run("PATCH /warnings/settings", func(t *testing.T) {
		recorder := ts.request(t, "PATCH", "/warnings/settings",
			`{"autoResolve": false, "warningThresholds": {"batteryLow": 35}}`)
		assert.Equal(t, http.StatusOK, recorder.Code)

		settings := models.WarningSettings{}
		decodeBody(t, recorder, &settings)
		assert.False(t, settings.AutoResolve)
		assert.Equal(t, 35, settings.WarningThresholds.BatteryLow)
		assert.True(t, settings.EmailNotifications, "untouched settings keep their defaults")
	})

	t.Run("PATCH /warnings/settings rejects unknown fields", func(t *testing.T) {
		recorder := ts.request(t, "PATCH", "/warnings/settings", `{"pagerDuty": true}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("PATCH /warnings/{id}/resolve handles unknown ids", func(t *testing.T) {
		recorder := ts.request(t, "PATCH", "/warnings/42/resolve", "")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("resolving a raised warning", func(t *testing.T) {
		ts.warnings.Raise(models.WARNING_TYPE_BATTERY_LOW, models.LEVEL_WARNING, "battery low", "battery at 18%", nil)

		recorder := ts.request(t, "PATCH", "/warnings/1/resolve", "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		warnings := []models.Warning{}
		decodeBody(t, ts.request(t, "GET", "/warnings", ""), &warnings)
		assert.True(t, warnings[0].IsResolved)
	})

	t.Run("POST /warnings/test-notification", func(t *testing.T) {
		recorder := ts.request(t, "POST", "/warnings/test-notification", "")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestCorsMiddleware(t *testing.T) {
	ts := newTestServer()
	handler := corsMiddleware([]string{"https://localhost:5100"})(ts.router)

	t.Run("allowed origin gets CORS headers", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/items/battery", nil)
		request.Header.Set("Origin", "https://localhost:5100")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, "https://localhost:5100", recorder.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight is answered before routing", func(t *testing.T) {
		request := httptest.NewRequest("OPTIONS", "/user/profile", nil)
		request.Header.Set("Origin", "https://localhost:5100")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/items/battery", nil)
		request.Header.Set("Origin", "https://evil.example.com")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})
}
