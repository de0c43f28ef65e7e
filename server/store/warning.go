package store

import (
	"strconv"
	"sync"

	"github.com/caruhq/caru/server/models"
)

// WarningStore holds device warnings raised by the monitor plus the
// client-tunable warning settings.
type WarningStore struct {
	mu       sync.Mutex
	warnings []models.Warning
	settings models.WarningSettings
}

func NewWarningStore() *WarningStore {
	return &WarningStore{
		warnings: []models.Warning{},
		settings: models.DefaultWarningSettings(),
	}
}

// Raise appends a new warning unless an unresolved one of the same type
// already exists, so repeated sweeps don't stack duplicates. The second
// return reports whether a warning was actually created.
func (store *WarningStore) Raise(warningType, level, title, message string, metadata map[string]interface{}) (models.Warning, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.warnings {
		if store.warnings[i].Type == warningType && !store.warnings[i].IsResolved {
			return store.warnings[i], false
		}
	}

	warning := models.Warning{
		ID:        strconv.Itoa(len(store.warnings) + 1),
		Type:      warningType,
		Level:     level,
		Title:     title,
		Message:   message,
		Timestamp: models.Now(),
		Metadata:  metadata,
	}
	store.warnings = append(store.warnings, warning)

	return warning, true
}

// Warnings returns the full list in insertion order.
func (store *WarningStore) Warnings() []models.Warning {
	store.mu.Lock()
	defer store.mu.Unlock()

	warnings := make([]models.Warning, len(store.warnings))
	copy(warnings, store.warnings)

	return warnings
}

// Resolve marks the warning with the given id as resolved. Like alert
// acknowledgment, resolving twice just re-stamps the record.
func (store *WarningStore) Resolve(warningID string) (models.Warning, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.warnings {
		if store.warnings[i].ID != warningID {
			continue
		}

		store.warnings[i].IsResolved = true
		store.warnings[i].ResolvedAt = models.Now()

		return store.warnings[i], nil
	}

	return models.Warning{}, ErrNotFound
}

// ResolveByType resolves every unresolved warning of the given type.
// Used by the monitor when auto-resolve is on and a condition clears.
func (store *WarningStore) ResolveByType(warningType string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	resolved := false
	for i := range store.warnings {
		if store.warnings[i].Type == warningType && !store.warnings[i].IsResolved {
			store.warnings[i].IsResolved = true
			store.warnings[i].ResolvedAt = models.Now()
			resolved = true
		}
	}

	return resolved
}

func (store *WarningStore) Settings() models.WarningSettings {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.settingsCopy()
}

// ApplySettingsPatch overwrites each settings field present in the patch.
func (store *WarningStore) ApplySettingsPatch(patch models.WarningSettingsPatch) models.WarningSettings {
	store.mu.Lock()
	defer store.mu.Unlock()

	if patch.EmailNotifications != nil {
		store.settings.EmailNotifications = *patch.EmailNotifications
	}
	if patch.EmailRecipients != nil {
		recipients := make([]string, len(*patch.EmailRecipients))
		copy(recipients, *patch.EmailRecipients)
		store.settings.EmailRecipients = recipients
	}
	if patch.MessageNotifications != nil {
		store.settings.MessageNotifications = *patch.MessageNotifications
	}
	if patch.AutoResolve != nil {
		store.settings.AutoResolve = *patch.AutoResolve
	}
	if patch.WarningThresholds != nil {
		thresholds := patch.WarningThresholds
		if thresholds.BatteryLow != nil {
			store.settings.WarningThresholds.BatteryLow = *thresholds.BatteryLow
		}
		if thresholds.BatteryCritical != nil {
			store.settings.WarningThresholds.BatteryCritical = *thresholds.BatteryCritical
		}
		if thresholds.JointHealthCheckInterval != nil {
			store.settings.WarningThresholds.JointHealthCheckInterval = *thresholds.JointHealthCheckInterval
		}
		if thresholds.RobotOfflineTimeout != nil {
			store.settings.WarningThresholds.RobotOfflineTimeout = *thresholds.RobotOfflineTimeout
		}
	}

	return store.settingsCopy()
}

func (store *WarningStore) settingsCopy() models.WarningSettings {
	settings := store.settings
	settings.EmailRecipients = make([]string, len(store.settings.EmailRecipients))
	copy(settings.EmailRecipients, store.settings.EmailRecipients)

	return settings
}
