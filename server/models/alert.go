package models

const (
	ALERT_TYPE_FALL       = "emergency_fall"
	ALERT_TYPE_HEART_RATE = "emergency_heart_rate"
	ALERT_TYPE_OTHER      = "emergency_other"
)

const (
	LEVEL_INFO     = "info"
	LEVEL_WARNING  = "warning"
	LEVEL_ERROR    = "error"
	LEVEL_CRITICAL = "critical"
)

const (
	SEVERITY_LOW      = "low"
	SEVERITY_MEDIUM   = "medium"
	SEVERITY_HIGH     = "high"
	SEVERITY_CRITICAL = "critical"
)

type EmergencyAlert struct {
	ID             string                 `json:"id"`
	Type           string                 `json:"type"`
	Level          string                 `json:"level"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Timestamp      string                 `json:"timestamp"`
	Location       string                 `json:"location,omitempty"`
	Severity       string                 `json:"severity"`
	IsAcknowledged bool                   `json:"isAcknowledged"`
	AcknowledgedAt string                 `json:"acknowledgedAt,omitempty"`
	AcknowledgedBy string                 `json:"acknowledgedBy,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// AlertTemplate holds the presentation fields derived from an alert's
// type tag.
type AlertTemplate struct {
	Title    string
	Message  string
	Level    string
	Severity string
}

var alertTemplates = map[string]AlertTemplate{
	ALERT_TYPE_FALL: {
		Title:    "fall-detected alert",
		Message:  "fall requires immediate attention",
		Level:    LEVEL_CRITICAL,
		Severity: SEVERITY_CRITICAL,
	},
	ALERT_TYPE_HEART_RATE: {
		Title:    "abnormal heart rate alert",
		Message:  "abnormal heart rate requires medical attention",
		Level:    LEVEL_CRITICAL,
		Severity: SEVERITY_HIGH,
	},
	ALERT_TYPE_OTHER: {
		Title:    "general emergency alert",
		Message:  "general emergency requires immediate handling",
		Level:    LEVEL_CRITICAL,
		Severity: SEVERITY_MEDIUM,
	},
}

// ClassifyAlert maps an alert type tag to its display template. Any tag
// without an entry falls back to the 'emergency_other' template; the
// caller keeps the original tag on the stored alert.
func ClassifyAlert(alertType string) AlertTemplate {
	if template, ok := alertTemplates[alertType]; ok {
		return template
	}
	return alertTemplates[ALERT_TYPE_OTHER]
}

// NotificationPayload is what sinks actually deliver. Both emergency
// alerts and device warnings convert to it.
type NotificationPayload struct {
	Type      string                 `json:"type"`
	Level     string                 `json:"level"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Timestamp string                 `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func (alert *EmergencyAlert) Payload() NotificationPayload {
	return NotificationPayload{
		Type:      alert.Type,
		Level:     alert.Level,
		Title:     alert.Title,
		Message:   alert.Message,
		Timestamp: alert.Timestamp,
		Metadata:  alert.Metadata,
	}
}
