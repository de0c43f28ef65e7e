// Package notifier fans an alert or warning out to the primary user and
// every emergency contact, honoring the per-channel notification
// preferences. Actual transport lives behind the Sink interface.
package notifier

import (
	"github.com/caruhq/caru/server/logger"
	"github.com/caruhq/caru/server/models"
	"github.com/caruhq/caru/server/store"
	"github.com/pkg/errors"
)

var logg = logger.NewLogger()

type Channel string

const (
	CHANNEL_EMAIL Channel = "email"
	CHANNEL_SMS   Channel = "sms"
	CHANNEL_PUSH  Channel = "push"
)

// Sink delivers one notification to one recipient over one channel. A
// real transport (e.g. twilio for sms) substitutes for the default
// logging sink without touching the dispatch path.
type Sink interface {
	Deliver(channel Channel, recipient string, payload models.NotificationPayload) error
}

// LogSink is the default transport: it just writes a log line per
// delivery.
type LogSink struct{}

func (sink LogSink) Deliver(channel Channel, recipient string, payload models.NotificationPayload) error {
	logg.Infow("notification sent",
		"channel", string(channel),
		"recipient", recipient,
		"type", payload.Type,
		"title", payload.Title,
	)
	return nil
}

type Notifier struct {
	profiles *store.ProfileStore
	sinks    map[Channel]Sink
}

// New builds a notifier that routes every channel to defaultSink. Use
// Route to swap in a real transport per channel.
func New(profiles *store.ProfileStore, defaultSink Sink) *Notifier {
	return &Notifier{
		profiles: profiles,
		sinks: map[Channel]Sink{
			CHANNEL_EMAIL: defaultSink,
			CHANNEL_SMS:   defaultSink,
			CHANNEL_PUSH:  defaultSink,
		},
	}
}

func (notifier *Notifier) Route(channel Channel, sink Sink) {
	notifier.sinks[channel] = sink
}

// NotifyAlert delivers an emergency alert to the primary user on every
// enabled channel, then to each emergency contact on email/sms. Contacts
// carry no push handle, so push only ever goes to the primary user.
// Delivery failures are isolated per recipient/channel; triggering an
// alert never fails because a send did.
func (notifier *Notifier) NotifyAlert(alert models.EmergencyAlert) {
	profile := notifier.profiles.Profile()
	preferences := profile.NotificationPreferences
	payload := alert.Payload()

	if preferences.Email && profile.Email != "" {
		notifier.deliver(CHANNEL_EMAIL, profile.Email, payload)
	}
	if preferences.SMS && profile.Phone != "" {
		notifier.deliver(CHANNEL_SMS, profile.Phone, payload)
	}
	if preferences.Push {
		notifier.deliver(CHANNEL_PUSH, profile.ID, payload)
	}

	for _, contact := range profile.EmergencyContacts {
		if preferences.Email && contact.Email != "" {
			notifier.deliver(CHANNEL_EMAIL, contact.Email, payload)
		}
		if preferences.SMS && contact.Phone != "" {
			notifier.deliver(CHANNEL_SMS, contact.Phone, payload)
		}
	}
}

// NotifyWarning announces a device warning per the warning settings:
// email to each configured recipient, sms to the primary user's phone.
func (notifier *Notifier) NotifyWarning(warning models.Warning, settings models.WarningSettings) {
	payload := warning.Payload()

	if settings.EmailNotifications {
		for _, recipient := range settings.EmailRecipients {
			notifier.deliver(CHANNEL_EMAIL, recipient, payload)
		}
	}

	if settings.MessageNotifications {
		profile := notifier.profiles.Profile()
		if profile.Phone != "" {
			notifier.deliver(CHANNEL_SMS, profile.Phone, payload)
		}
	}
}

func (notifier *Notifier) deliver(channel Channel, recipient string, payload models.NotificationPayload) {
	err := notifier.sinks[channel].Deliver(channel, recipient, payload)
	if err != nil {
		logg.Error(errors.Wrapf(err, "delivery failed for %v via %v", recipient, channel))
	}
}
