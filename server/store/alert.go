package store

import (
	"strconv"
	"sync"

	"github.com/caruhq/caru/server/models"
)

const ALERT_ACKNOWLEDGED_BY = "admin"

// AlertStore is the append-only emergency alert list. Alerts are never
// deleted; the only in-place mutation is acknowledgment.
type AlertStore struct {
	mu     sync.Mutex
	alerts []models.EmergencyAlert
}

func NewAlertStore() *AlertStore {
	return &AlertStore{alerts: []models.EmergencyAlert{}}
}

// Trigger builds an alert from its type tag & metadata, classifies it and
// appends it to the list. The stored type keeps the original tag even
// when the classifier falls back to the default template.
func (store *AlertStore) Trigger(alertType string, metadata map[string]interface{}) models.EmergencyAlert {
	if alertType == "" {
		alertType = models.ALERT_TYPE_OTHER
	}
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	template := models.ClassifyAlert(alertType)

	location := ""
	if value, ok := metadata["location"].(string); ok {
		location = value
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	alert := models.EmergencyAlert{
		ID:        strconv.Itoa(len(store.alerts) + 1),
		Type:      alertType,
		Level:     template.Level,
		Title:     template.Title,
		Message:   template.Message,
		Timestamp: models.Now(),
		Location:  location,
		Severity:  template.Severity,
		Metadata:  metadata,
	}
	store.alerts = append(store.alerts, alert)

	return alert
}

// Alerts returns the full list in insertion order.
func (store *AlertStore) Alerts() []models.EmergencyAlert {
	store.mu.Lock()
	defer store.mu.Unlock()

	alerts := make([]models.EmergencyAlert, len(store.alerts))
	copy(alerts, store.alerts)

	return alerts
}

// Acknowledge marks the alert with the given id as acknowledged. The
// transition is one-way; acknowledging twice just re-stamps the record.
func (store *AlertStore) Acknowledge(alertID string) (models.EmergencyAlert, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.alerts {
		if store.alerts[i].ID != alertID {
			continue
		}

		store.alerts[i].IsAcknowledged = true
		store.alerts[i].AcknowledgedAt = models.Now()
		store.alerts[i].AcknowledgedBy = ALERT_ACKNOWLEDGED_BY

		return store.alerts[i], nil
	}

	return models.EmergencyAlert{}, ErrNotFound
}
