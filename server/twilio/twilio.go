package twilio

import (
	"fmt"

	"github.com/caruhq/caru/server/models"
	"github.com/caruhq/caru/server/notifier"
	"github.com/caruhq/caru/shared"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type ClientWrapper struct {
	client *twilio.RestClient
	config shared.TwilioConfig
}

func NewClient(config shared.TwilioConfig) *ClientWrapper {
	client := twilio.NewRestClientWithParams(twilio.RestClientParams{
		Username: config.AccountSid,
		Password: config.AuthToken,
	})

	return &ClientWrapper{client: client, config: config}
}

func (cw *ClientWrapper) SendMessage(to, msg string) error {
	params := &openapi.CreateMessageParams{}
	params.SetMessagingServiceSid(cw.config.MessagingServiceSid)
	params.SetTo(to)
	params.SetBody(msg)

	_, err := cw.client.ApiV2010.CreateMessage(params)
	return err
}

// SmsSink routes the notifier's sms channel through twilio.
type SmsSink struct {
	client *ClientWrapper
}

func NewSmsSink(config shared.TwilioConfig) *SmsSink {
	return &SmsSink{client: NewClient(config)}
}

func (sink *SmsSink) Deliver(channel notifier.Channel, recipient string, payload models.NotificationPayload) error {
	if channel != notifier.CHANNEL_SMS {
		return fmt.Errorf("sms sink can't deliver over %q", channel)
	}

	return sink.client.SendMessage(recipient, fmt.Sprintf("[%s] %s: %s", payload.Level, payload.Title, payload.Message))
}
