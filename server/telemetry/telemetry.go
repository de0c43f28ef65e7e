// Package telemetry simulates device readings for the companion robot.
// Values are generated fresh on every call; nothing persists between
// requests.
package telemetry

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const JOINT_COUNT = 3

type BatteryStatus struct {
	Status string `json:"status"`
	Level  int    `json:"level"`
}

type JointStatus struct {
	Name    string `json:"name"`
	Angle   int    `json:"angle"`
	Healthy bool   `json:"healthy"`
}

type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	State string `json:"state"`
}

// Simulator produces randomized battery/joint snapshots and a fixed demo
// task queue. The embedded rand source is not safe for concurrent use,
// hence the mutex.
type Simulator struct {
	mu   sync.Mutex
	rand *rand.Rand
}

func NewSimulator() *Simulator {
	return &Simulator{rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Battery reports a random charge level in [20,100]. The status field is
// fixed, not derived from the level.
func (sim *Simulator) Battery() BatteryStatus {
	return BatteryStatus{Status: "healthy", Level: sim.intn(20, 100)}
}

// Joints reports joint1..joint3 with a random angle in [0,180] and a
// random health flag each.
func (sim *Simulator) Joints() []JointStatus {
	joints := make([]JointStatus, 0, JOINT_COUNT)
	for i := 1; i <= JOINT_COUNT; i++ {
		joints = append(joints, JointStatus{
			Name:    fmt.Sprintf("joint%d", i),
			Angle:   sim.intn(0, 180),
			Healthy: sim.boolean(),
		})
	}

	return joints
}

// Tasks returns the fixed demo task queue, in fixed order.
func (sim *Simulator) Tasks() []Task {
	return []Task{
		{ID: "t1", Title: "Patrol area A", State: "running"},
		{ID: "t2", Title: "Recharge", State: "queued"},
		{ID: "t3", Title: "Upload logs", State: "done"},
	}
}

// intn returns a uniform random int in [min,max].
func (sim *Simulator) intn(min, max int) int {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	return min + sim.rand.Intn(max-min+1)
}

func (sim *Simulator) boolean() bool {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	return sim.rand.Intn(2) == 0
}
