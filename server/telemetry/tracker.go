package telemetry

import (
	"sync"
	"time"

	"github.com/caruhq/caru/server/models"
)

type RobotStatus struct {
	Online   bool   `json:"online"`
	LastSeen string `json:"lastSeen"`
}

// Tracker records when the robot was last heard from. Every telemetry
// read counts as contact; the robot is considered offline once it has
// been silent for longer than the configured timeout.
type Tracker struct {
	mu       sync.Mutex
	lastSeen time.Time
}

func NewTracker() *Tracker {
	return &Tracker{lastSeen: time.Now()}
}

func (tracker *Tracker) Touch() {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	tracker.lastSeen = time.Now()
}

func (tracker *Tracker) LastSeen() time.Time {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	return tracker.lastSeen
}

func (tracker *Tracker) Status(offlineTimeout time.Duration) RobotStatus {
	lastSeen := tracker.LastSeen()

	return RobotStatus{
		Online:   time.Since(lastSeen) <= offlineTimeout,
		LastSeen: models.Timestamp(lastSeen),
	}
}
