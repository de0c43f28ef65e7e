package monitor

import (
	"testing"
	"time"

	"github.com/caruhq/caru/server/models"
	"github.com/caruhq/caru/server/notifier"
	"github.com/caruhq/caru/server/store"
	"github.com/caruhq/caru/server/telemetry"
	"github.com/stretchr/testify/assert"
)

func newTestMonitor() (*Monitor, *store.WarningStore, *notifier.RecordingSink) {
	profiles := store.NewProfileStore(models.UserProfile{
		Name:  "tony stark",
		Phone: "+12345678900",
		Email: "stark@avengers.com",
	})
	warnings := store.NewWarningStore()
	sink := notifier.NewRecordingSink()

	testMonitor := New(
		"UTC",
		telemetry.NewSimulator(),
		telemetry.NewTracker(),
		warnings,
		notifier.New(profiles, sink),
	)

	return testMonitor, warnings, sink
}

func unresolvedTypes(warnings *store.WarningStore) map[string]bool {
	types := map[string]bool{}
	for _, warning := range warnings.Warnings() {
		if !warning.IsResolved {
			types[warning.Type] = true
		}
	}
	return types
}

func TestSweepRaisesBatteryWarning(t *testing.T) {
	testMonitor, warnings, sink := newTestMonitor()

	// the simulated battery level never exceeds 100, so a low threshold
	// of 100 guarantees a hit on the first sweep
	batteryLow := 100
	batteryCritical := -1
	warnings.ApplySettingsPatch(models.WarningSettingsPatch{
		WarningThresholds: &models.WarningThresholdsPatch{
			BatteryLow:      &batteryLow,
			BatteryCritical: &batteryCritical,
		},
	})

	testMonitor.Sweep()

	assert.True(t, unresolvedTypes(warnings)[models.WARNING_TYPE_BATTERY_LOW])
	assert.NotEmpty(t, sink.Deliveries(), "raised warnings should be announced")

	// a second sweep dedupes against the unresolved warning
	recorded := len(warnings.Warnings())
	testMonitor.Sweep()

	unresolvedBatteryWarnings := 0
	for _, warning := range warnings.Warnings() {
		if warning.Type == models.WARNING_TYPE_BATTERY_LOW && !warning.IsResolved {
			unresolvedBatteryWarnings++
		}
	}
	assert.Equal(t, 1, unresolvedBatteryWarnings)
	assert.GreaterOrEqual(t, len(warnings.Warnings()), recorded)
}

func TestSweepRaisesCriticalBatteryWarning(t *testing.T) {
	testMonitor, warnings, _ := newTestMonitor()

	// critical threshold above the simulator's max level always trips
	batteryCritical := 100
	warnings.ApplySettingsPatch(models.WarningSettingsPatch{
		WarningThresholds: &models.WarningThresholdsPatch{BatteryCritical: &batteryCritical},
	})

	testMonitor.Sweep()

	assert.True(t, unresolvedTypes(warnings)[models.WARNING_TYPE_BATTERY_CRITICAL])
}

func TestSweepAutoResolvesBatteryWarning(t *testing.T) {
	testMonitor, warnings, _ := newTestMonitor()

	batteryLow := 100
	warnings.ApplySettingsPatch(models.WarningSettingsPatch{
		WarningThresholds: &models.WarningThresholdsPatch{BatteryLow: &batteryLow},
	})
	testMonitor.Sweep()
	assert.True(t, unresolvedTypes(warnings)[models.WARNING_TYPE_BATTERY_LOW])

	// drop the threshold below the simulator's minimum level; the next
	// sweep should auto-resolve the open warning
	batteryLow = -1
	warnings.ApplySettingsPatch(models.WarningSettingsPatch{
		WarningThresholds: &models.WarningThresholdsPatch{BatteryLow: &batteryLow},
	})
	testMonitor.Sweep()

	assert.False(t, unresolvedTypes(warnings)[models.WARNING_TYPE_BATTERY_LOW])
}

func TestSweepResolvesLowWarningOnCriticalEscalation(t *testing.T) {
	testMonitor, warnings, _ := newTestMonitor()

	batteryLow := 100
	batteryCritical := -1
	warnings.ApplySettingsPatch(models.WarningSettingsPatch{
		WarningThresholds: &models.WarningThresholdsPatch{
			BatteryLow:      &batteryLow,
			BatteryCritical: &batteryCritical,
		},
	})
	testMonitor.Sweep()
	assert.True(t, unresolvedTypes(warnings)[models.WARNING_TYPE_BATTERY_LOW])

	// raising the critical threshold above the simulator's max level
	// escalates the battery warning; the open low warning is superseded
	batteryCritical = 100
	warnings.ApplySettingsPatch(models.WarningSettingsPatch{
		WarningThresholds: &models.WarningThresholdsPatch{BatteryCritical: &batteryCritical},
	})
	testMonitor.Sweep()

	types := unresolvedTypes(warnings)
	assert.True(t, types[models.WARNING_TYPE_BATTERY_CRITICAL])
	assert.False(t, types[models.WARNING_TYPE_BATTERY_LOW])
}

func TestSweepHonoursJointCheckInterval(t *testing.T) {
	testMonitor, warnings, _ := newTestMonitor()

	// a generous interval keeps the joint check to the first sweep only
	jointHealthCheckInterval := 3600
	warnings.ApplySettingsPatch(models.WarningSettingsPatch{
		WarningThresholds: &models.WarningThresholdsPatch{
			JointHealthCheckInterval: &jointHealthCheckInterval,
		},
	})

	testMonitor.Sweep()
	firstCheck := testMonitor.lastJointCheck
	assert.False(t, firstCheck.IsZero(), "first sweep should run the joint check")

	testMonitor.Sweep()
	assert.Equal(t, firstCheck, testMonitor.lastJointCheck, "joint check should be skipped within the interval")

	// dropping the interval takes effect on the next sweep
	jointHealthCheckInterval = 0
	warnings.ApplySettingsPatch(models.WarningSettingsPatch{
		WarningThresholds: &models.WarningThresholdsPatch{
			JointHealthCheckInterval: &jointHealthCheckInterval,
		},
	})
	time.Sleep(time.Millisecond)
	testMonitor.Sweep()

	assert.True(t, testMonitor.lastJointCheck.After(firstCheck))
}

func TestSweepRaisesRobotOfflineWarning(t *testing.T) {
	testMonitor, warnings, _ := newTestMonitor()

	// a zero offline timeout makes any elapsed time count as silence
	offlineTimeout := 0
	batteryLow := -1
	batteryCritical := -1
	warnings.ApplySettingsPatch(models.WarningSettingsPatch{
		WarningThresholds: &models.WarningThresholdsPatch{
			RobotOfflineTimeout: &offlineTimeout,
			BatteryLow:          &batteryLow,
			BatteryCritical:     &batteryCritical,
		},
	})

	testMonitor.Sweep()

	assert.True(t, unresolvedTypes(warnings)[models.WARNING_TYPE_ROBOT_OFFLINE])
}
