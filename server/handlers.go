package server

import (
	"net/http"

	"github.com/caruhq/caru/server/logger"
	"github.com/caruhq/caru/server/models"
	"github.com/caruhq/caru/server/notifier"
	"github.com/caruhq/caru/server/store"
	"github.com/caruhq/caru/server/telemetry"
	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

var logg = logger.NewLogger()

type ErrorPayload struct {
	Error string `json:"error"`
}

type MessagePayload struct {
	Message string `json:"message"`
}

type TriggerAlertPayload struct {
	Type     string                 `json:"type"`
	Metadata map[string]interface{} `json:"metadata"`
}

type APIHandler struct {
	profiles  *store.ProfileStore
	alerts    *store.AlertStore
	warnings  *store.WarningStore
	simulator *telemetry.Simulator
	tracker   *telemetry.Tracker
	notifier  *notifier.Notifier
	validate  *validator.Validate
}

func NewAPIHandler(
	profiles *store.ProfileStore,
	alerts *store.AlertStore,
	warnings *store.WarningStore,
	simulator *telemetry.Simulator,
	tracker *telemetry.Tracker,
	notifier *notifier.Notifier,
) *APIHandler {
	validate := validator.New()
	fatalOnError(RegisterValidators(validate))

	return &APIHandler{
		profiles:  profiles,
		alerts:    alerts,
		warnings:  warnings,
		simulator: simulator,
		tracker:   tracker,
		notifier:  notifier,
		validate:  validate,
	}
}

// ---------------------------------------------------------------------------------//
// Telemetry handlers
// --------------------------------------------------------------------------------//

func (handler *APIHandler) getBattery(rw http.ResponseWriter, r *http.Request) {
	handler.tracker.Touch()
	writeJSON(rw, handler.simulator.Battery(), http.StatusOK)
}

func (handler *APIHandler) getJoints(rw http.ResponseWriter, r *http.Request) {
	handler.tracker.Touch()
	writeJSON(rw, handler.simulator.Joints(), http.StatusOK)
}

func (handler *APIHandler) getTasks(rw http.ResponseWriter, r *http.Request) {
	handler.tracker.Touch()
	writeJSON(rw, handler.simulator.Tasks(), http.StatusOK)
}

func (handler *APIHandler) getRobotStatus(rw http.ResponseWriter, r *http.Request) {
	timeout := offlineTimeout(handler.warnings.Settings())
	writeJSON(rw, handler.tracker.Status(timeout), http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Profile & emergency-contact handlers
// --------------------------------------------------------------------------------//

func (handler *APIHandler) getProfile(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, handler.profiles.Profile(), http.StatusOK)
}

func (handler *APIHandler) updateProfile(rw http.ResponseWriter, r *http.Request) {
	patch := models.ProfilePatch{}
	if err := decodeJSONStrict(r, &patch); err != nil {
		writeError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(rw, handler.profiles.ApplyPatch(patch), http.StatusOK)
}

func (handler *APIHandler) createContact(rw http.ResponseWriter, r *http.Request) {
	contact := models.EmergencyContact{}
	if err := decodeJSONStrict(r, &contact); err != nil {
		writeError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.validate.Struct(contact); err != nil {
		writeError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	// id is always server-assigned; whatever the client sent is dropped
	writeJSON(rw, handler.profiles.AddContact(contact), http.StatusOK)
}

func (handler *APIHandler) updateContact(rw http.ResponseWriter, r *http.Request) {
	patch := models.ContactPatch{}
	if err := decodeJSONStrict(r, &patch); err != nil {
		writeError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	contact, err := handler.profiles.UpdateContact(mux.Vars(r)["id"], patch)
	if errors.Is(err, store.ErrNotFound) {
		writeError(rw, "emergency contact not found", http.StatusNotFound)
		return
	}

	writeJSON(rw, contact, http.StatusOK)
}

func (handler *APIHandler) deleteContact(rw http.ResponseWriter, r *http.Request) {
	handler.profiles.DeleteContact(mux.Vars(r)["id"])
	writeJSON(rw, MessagePayload{Message: "emergency contact deleted"}, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Emergency alert handlers
// --------------------------------------------------------------------------------//

func (handler *APIHandler) triggerAlert(rw http.ResponseWriter, r *http.Request) {
	payload := TriggerAlertPayload{}
	if err := decodeJSONStrict(r, &payload); err != nil {
		writeError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	alert := handler.alerts.Trigger(payload.Type, payload.Metadata)
	handler.notifier.NotifyAlert(alert)

	writeJSON(rw, alert, http.StatusOK)
}

func (handler *APIHandler) listAlerts(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, handler.alerts.Alerts(), http.StatusOK)
}

func (handler *APIHandler) acknowledgeAlert(rw http.ResponseWriter, r *http.Request) {
	_, err := handler.alerts.Acknowledge(mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(rw, "alert not found", http.StatusNotFound)
		return
	}

	writeJSON(rw, MessagePayload{Message: "alert acknowledged"}, http.StatusOK)
}

func (handler *APIHandler) testEmergencyNotification(rw http.ResponseWriter, r *http.Request) {
	template := models.ClassifyAlert(models.ALERT_TYPE_OTHER)

	// diagnostic alert; dispatched but never stored
	handler.notifier.NotifyAlert(models.EmergencyAlert{
		Type:      models.ALERT_TYPE_OTHER,
		Level:     template.Level,
		Title:     "test emergency notification",
		Message:   "this is a test of the emergency notification channels",
		Timestamp: models.Now(),
		Severity:  template.Severity,
		Metadata:  map[string]interface{}{"test": true},
	})

	writeJSON(rw, MessagePayload{Message: "test notification dispatched"}, http.StatusOK)
}

// ---------------------------------------------------------------------------------//
// Warning handlers
// --------------------------------------------------------------------------------//

func (handler *APIHandler) listWarnings(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, handler.warnings.Warnings(), http.StatusOK)
}

func (handler *APIHandler) getWarningSettings(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, handler.warnings.Settings(), http.StatusOK)
}

func (handler *APIHandler) updateWarningSettings(rw http.ResponseWriter, r *http.Request) {
	patch := models.WarningSettingsPatch{}
	if err := decodeJSONStrict(r, &patch); err != nil {
		writeError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(rw, handler.warnings.ApplySettingsPatch(patch), http.StatusOK)
}

func (handler *APIHandler) resolveWarning(rw http.ResponseWriter, r *http.Request) {
	_, err := handler.warnings.Resolve(mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(rw, "warning not found", http.StatusNotFound)
		return
	}

	writeJSON(rw, MessagePayload{Message: "warning resolved"}, http.StatusOK)
}

func (handler *APIHandler) testWarningNotification(rw http.ResponseWriter, r *http.Request) {
	handler.notifier.NotifyWarning(models.Warning{
		Type:      models.WARNING_TYPE_SYSTEM_ERROR,
		Level:     models.LEVEL_INFO,
		Title:     "test warning notification",
		Message:   "this is a test of the warning notification channels",
		Timestamp: models.Now(),
		Metadata:  map[string]interface{}{"test": true},
	}, handler.warnings.Settings())

	writeJSON(rw, MessagePayload{Message: "test notification dispatched"}, http.StatusOK)
}
