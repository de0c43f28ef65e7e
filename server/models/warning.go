package models

const (
	WARNING_TYPE_BATTERY_LOW      = "battery_low"
	WARNING_TYPE_BATTERY_CRITICAL = "battery_critical"
	WARNING_TYPE_JOINT_FAILURE    = "joint_failure"
	WARNING_TYPE_ROBOT_OFFLINE    = "robot_offline"
	WARNING_TYPE_SYSTEM_ERROR     = "system_error"
	WARNING_TYPE_TASK_FAILURE     = "task_failure"
)

type Warning struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Level      string                 `json:"level"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Timestamp  string                 `json:"timestamp"`
	IsResolved bool                   `json:"isResolved"`
	ResolvedAt string                 `json:"resolvedAt,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

type WarningThresholds struct {
	BatteryLow               int `json:"batteryLow"`
	BatteryCritical          int `json:"batteryCritical"`
	JointHealthCheckInterval int `json:"jointHealthCheckInterval"`
	RobotOfflineTimeout      int `json:"robotOfflineTimeout"`
}

type WarningSettings struct {
	EmailNotifications   bool              `json:"emailNotifications"`
	EmailRecipients      []string          `json:"emailRecipients"`
	MessageNotifications bool              `json:"messageNotifications"`
	AutoResolve          bool              `json:"autoResolve"`
	WarningThresholds    WarningThresholds `json:"warningThresholds"`
}

// DefaultWarningSettings are the boot values; the client can adjust them
// via PATCH /warnings/settings.
func DefaultWarningSettings() WarningSettings {
	return WarningSettings{
		EmailNotifications:   true,
		EmailRecipients:      []string{},
		MessageNotifications: true,
		AutoResolve:          true,
		WarningThresholds: WarningThresholds{
			BatteryLow:               20,
			BatteryCritical:          10,
			JointHealthCheckInterval: 60,
			RobotOfflineTimeout:      120,
		},
	}
}

type WarningThresholdsPatch struct {
	BatteryLow               *int `json:"batteryLow"`
	BatteryCritical          *int `json:"batteryCritical"`
	JointHealthCheckInterval *int `json:"jointHealthCheckInterval"`
	RobotOfflineTimeout      *int `json:"robotOfflineTimeout"`
}

type WarningSettingsPatch struct {
	EmailNotifications   *bool                   `json:"emailNotifications"`
	EmailRecipients      *[]string               `json:"emailRecipients"`
	MessageNotifications *bool                   `json:"messageNotifications"`
	AutoResolve          *bool                   `json:"autoResolve"`
	WarningThresholds    *WarningThresholdsPatch `json:"warningThresholds"`
}

func (warning *Warning) Payload() NotificationPayload {
	return NotificationPayload{
		Type:      warning.Type,
		Level:     warning.Level,
		Title:     warning.Title,
		Message:   warning.Message,
		Timestamp: warning.Timestamp,
		Metadata:  warning.Metadata,
	}
}
