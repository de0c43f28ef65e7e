package notifier

import (
	"sync"

	"github.com/caruhq/caru/server/models"
)

// Delivery is one recorded sink call.
type Delivery struct {
	Channel   Channel
	Recipient string
	Payload   models.NotificationPayload
}

// RecordingSink captures deliveries instead of sending them. Tests use it
// in place of a real transport.
type RecordingSink struct {
	mu         sync.Mutex
	deliveries []Delivery

	// FailFor makes Deliver return an error for the given recipients.
	FailFor map[string]error
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{FailFor: map[string]error{}}
}

func (sink *RecordingSink) Deliver(channel Channel, recipient string, payload models.NotificationPayload) error {
	if err := sink.FailFor[recipient]; err != nil {
		return err
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()

	sink.deliveries = append(sink.deliveries, Delivery{Channel: channel, Recipient: recipient, Payload: payload})
	return nil
}

func (sink *RecordingSink) Deliveries() []Delivery {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	deliveries := make([]Delivery, len(sink.deliveries))
	copy(deliveries, sink.deliveries)
	return deliveries
}
