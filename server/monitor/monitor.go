// Package monitor periodically inspects the simulated device telemetry
// and raises device warnings against the configured thresholds.
package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/caruhq/caru/colors"
	"github.com/caruhq/caru/server/cron"
	"github.com/caruhq/caru/server/logger"
	"github.com/caruhq/caru/server/models"
	"github.com/caruhq/caru/server/notifier"
	"github.com/caruhq/caru/server/store"
	"github.com/caruhq/caru/server/telemetry"
	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
)

var logg = logger.NewLogger()

const SWEEP_JOB_TAG = "warning_sweep"

type Monitor struct {
	cronScheduler  *gocron.Scheduler
	simulator      *telemetry.Simulator
	tracker        *telemetry.Tracker
	warnings       *store.WarningStore
	notifier       *notifier.Notifier
	lastJointCheck time.Time
}

func New(
	timeZone string,
	simulator *telemetry.Simulator,
	tracker *telemetry.Tracker,
	warnings *store.WarningStore,
	notifier *notifier.Notifier,
) *Monitor {
	return &Monitor{
		cronScheduler: cron.NewCronScheduler(timeZone),
		simulator:     simulator,
		tracker:       tracker,
		warnings:      warnings,
		notifier:      notifier,
	}
}

// Start schedules the warning sweep on the given cron expression and
// kicks off the scheduler.
func (monitor *Monitor) Start(schedule string) error {
	_, err := monitor.cronScheduler.Cron(schedule).Tag(SWEEP_JOB_TAG).Do(monitor.Sweep)
	if err != nil {
		return errors.Wrap(err, "unable to schedule warning sweep")
	}

	monitor.cronScheduler.StartAsync()
	logg.Infof("Warning monitor sweeping on schedule %q", schedule)

	return nil
}

func (monitor *Monitor) Stop() {
	monitor.cronScheduler.Stop()
}

// Sweep runs every check once, reading thresholds live so settings
// patches take effect on the next pass. Joint checks keep their own
// cadence: they are skipped until jointHealthCheckInterval seconds have
// elapsed since the last joint check.
func (monitor *Monitor) Sweep() {
	settings := monitor.warnings.Settings()

	monitor.checkBattery(settings)
	if monitor.jointCheckDue(settings) {
		monitor.lastJointCheck = time.Now()
		monitor.checkJoints(settings)
	}
	monitor.checkRobotOnline(settings)
}

func (monitor *Monitor) jointCheckDue(settings models.WarningSettings) bool {
	interval := time.Duration(settings.WarningThresholds.JointHealthCheckInterval) * time.Second
	return time.Since(monitor.lastJointCheck) >= interval
}

func (monitor *Monitor) checkBattery(settings models.WarningSettings) {
	battery := monitor.simulator.Battery()
	thresholds := settings.WarningThresholds

	switch {
	case battery.Level <= thresholds.BatteryCritical:
		monitor.raise(settings, models.WARNING_TYPE_BATTERY_CRITICAL, models.LEVEL_CRITICAL,
			"battery critically low",
			fmt.Sprintf("battery level %v%% is at or below the critical threshold of %v%%", battery.Level, thresholds.BatteryCritical),
			map[string]interface{}{"level": battery.Level},
		)
		// the critical warning supersedes an open battery_low warning
		if settings.AutoResolve {
			monitor.resolve(models.WARNING_TYPE_BATTERY_LOW)
		}
	case battery.Level <= thresholds.BatteryLow:
		monitor.raise(settings, models.WARNING_TYPE_BATTERY_LOW, models.LEVEL_WARNING,
			"battery low",
			fmt.Sprintf("battery level %v%% is at or below the low threshold of %v%%", battery.Level, thresholds.BatteryLow),
			map[string]interface{}{"level": battery.Level},
		)
	default:
		if settings.AutoResolve {
			monitor.resolve(models.WARNING_TYPE_BATTERY_CRITICAL)
			monitor.resolve(models.WARNING_TYPE_BATTERY_LOW)
		}
	}
}

func (monitor *Monitor) checkJoints(settings models.WarningSettings) {
	unhealthy := []string{}
	for _, joint := range monitor.simulator.Joints() {
		if !joint.Healthy {
			unhealthy = append(unhealthy, joint.Name)
		}
	}

	if len(unhealthy) == 0 {
		if settings.AutoResolve {
			monitor.resolve(models.WARNING_TYPE_JOINT_FAILURE)
		}
		return
	}

	monitor.raise(settings, models.WARNING_TYPE_JOINT_FAILURE, models.LEVEL_ERROR,
		"joint failure detected",
		fmt.Sprintf("joints reporting unhealthy: %v", strings.Join(unhealthy, ", ")),
		map[string]interface{}{"joints": unhealthy},
	)
}

func (monitor *Monitor) checkRobotOnline(settings models.WarningSettings) {
	timeout := time.Duration(settings.WarningThresholds.RobotOfflineTimeout) * time.Second
	status := monitor.tracker.Status(timeout)

	if status.Online {
		if settings.AutoResolve {
			monitor.resolve(models.WARNING_TYPE_ROBOT_OFFLINE)
		}
		return
	}

	monitor.raise(settings, models.WARNING_TYPE_ROBOT_OFFLINE, models.LEVEL_ERROR,
		"robot offline",
		fmt.Sprintf("robot has been silent since %v", status.LastSeen),
		map[string]interface{}{"lastSeen": status.LastSeen},
	)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func (monitor *Monitor) raise(settings models.WarningSettings, warningType, level, title, message string, metadata map[string]interface{}) {
	warning, created := monitor.warnings.Raise(warningType, level, title, message, metadata)
	if !created {
		return
	}

	logg.Infof(colors.Yellow("warning raised: %v - %v"), warning.Type, warning.Message)
	monitor.notifier.NotifyWarning(warning, settings)
}

func (monitor *Monitor) resolve(warningType string) {
	if monitor.warnings.ResolveByType(warningType) {
		logg.Infof(colors.Blue("warning auto-resolved: %v"), warningType)
	}
}
