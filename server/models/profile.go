package models

type NotificationPreferences struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

type EmergencyContact struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone" validate:"required,phone_number"`
	Email        string `json:"email" validate:"omitempty,email"`
	Relationship string `json:"relationship"`
	IsPrimary    bool   `json:"isPrimary"`
}

// UserProfile is the singleton account record owned by the process. A
// restart resets it to its seed values.
type UserProfile struct {
	ID                      string                  `json:"id"`
	Name                    string                  `json:"name"`
	Phone                   string                  `json:"phone"`
	Email                   string                  `json:"email"`
	EmergencyContacts       []EmergencyContact      `json:"emergencyContacts"`
	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
	CreatedAt               string                  `json:"createdAt"`
	UpdatedAt               string                  `json:"updatedAt"`
}

// ProfilePatch lists the only profile fields a client may update. Any
// other key in the request body is rejected up front.
type ProfilePatch struct {
	Name                    *string                  `json:"name"`
	Phone                   *string                  `json:"phone"`
	Email                   *string                  `json:"email"`
	NotificationPreferences *NotificationPreferences `json:"notificationPreferences"`
}

// ContactPatch is the partial-update shape for a single emergency contact.
type ContactPatch struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Relationship *string `json:"relationship"`
	IsPrimary    *bool   `json:"isPrimary"`
}
