package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caruhq/caru/server/monitor"
	"github.com/caruhq/caru/server/notifier"
	"github.com/caruhq/caru/server/store"
	"github.com/caruhq/caru/server/telemetry"
	"github.com/caruhq/caru/server/twilio"
	"github.com/caruhq/caru/shared"
	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"github.com/spf13/viper"
)

const DEFAULT_SWEEP_SCHEDULE = "*/1 * * * *"

func Start(config *viper.Viper, devMode bool) {
	serverConfig := &shared.ServerConfig{}
	fatalOnError(config.Unmarshal(serverConfig))
	fatalOnError(validator.New().Struct(serverConfig))

	if devMode {
		logg.Info("Caru server running in dev mode")
	}

	profiles := store.NewProfileStore(seedProfile(
		serverConfig.Owner.Name,
		serverConfig.Owner.Phone,
		serverConfig.Owner.Email,
	))
	alerts := store.NewAlertStore()
	warnings := store.NewWarningStore()
	simulator := telemetry.NewSimulator()
	tracker := telemetry.NewTracker()

	alertNotifier := notifier.New(profiles, notifier.LogSink{})
	if serverConfig.Twilio.Enabled() {
		alertNotifier.Route(notifier.CHANNEL_SMS, twilio.NewSmsSink(serverConfig.Twilio))
		logg.Info("Twilio sms transport enabled")
	}

	deviceMonitor := monitor.New(
		serverConfig.Caru.Cron.TimeZone,
		simulator,
		tracker,
		warnings,
		alertNotifier,
	)
	if serverConfig.Monitor.Enabled {
		fatalOnError(deviceMonitor.Start(sweepSchedule(serverConfig.Monitor)))
	}

	handler := NewAPIHandler(profiles, alerts, warnings, simulator, tracker, alertNotifier)
	router := NewRouter(handler)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%v", serverConfig.Caru.Listener.Port),
		Handler: corsMiddleware(serverConfig.Caru.Cors.AllowedOrigins)(router),
	}
	go serve(httpServer)

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)
	<-signalChannel

	cleanup(deviceMonitor, httpServer)
}

func NewRouter(handler *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(initialContextMiddleware)
	router.Use(loggingMiddleware)

	router.HandleFunc("/items/battery", handler.getBattery).Methods("GET")
	router.HandleFunc("/items/joints", handler.getJoints).Methods("GET")
	router.HandleFunc("/items/tasks", handler.getTasks).Methods("GET")
	router.HandleFunc("/robot/status", handler.getRobotStatus).Methods("GET")

	router.HandleFunc("/user/profile", handler.getProfile).Methods("GET")
	router.HandleFunc("/user/profile", handler.updateProfile).Methods("PATCH")
	router.HandleFunc("/user/emergency-contacts", handler.createContact).Methods("POST")
	router.HandleFunc("/user/emergency-contacts/{id}", handler.updateContact).Methods("PATCH")
	router.HandleFunc("/user/emergency-contacts/{id}", handler.deleteContact).Methods("DELETE")

	router.HandleFunc("/emergency/trigger", handler.triggerAlert).Methods("POST")
	router.HandleFunc("/emergency/alerts", handler.listAlerts).Methods("GET")
	router.HandleFunc("/emergency/alerts/{id}/acknowledge", handler.acknowledgeAlert).Methods("PATCH")
	router.HandleFunc("/emergency/test-notification", handler.testEmergencyNotification).Methods("POST")

	router.HandleFunc("/warnings", handler.listWarnings).Methods("GET")
	router.HandleFunc("/warnings/settings", handler.getWarningSettings).Methods("GET")
	router.HandleFunc("/warnings/settings", handler.updateWarningSettings).Methods("PATCH")
	router.HandleFunc("/warnings/{id}/resolve", handler.resolveWarning).Methods("PATCH")
	router.HandleFunc("/warnings/test-notification", handler.testWarningNotification).Methods("POST")

	return router
}

func sweepSchedule(config shared.MonitorConfig) string {
	if config.Schedule == "" {
		return DEFAULT_SWEEP_SCHEDULE
	}
	return config.Schedule
}
