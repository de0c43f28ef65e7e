package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/caruhq/caru/server/models"
	"github.com/go-playground/validator"
)

var phoneNumberRegexp = regexp.MustCompile(`^\+?[0-9\-() ]{4,20}$`)

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeJSON(rw http.ResponseWriter, payload interface{}, statusCode int) {
	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payload)
}

func writeError(rw http.ResponseWriter, errMsg string, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(errMsg)
	} else {
		logg.Info(errMsg)
	}

	writeJSON(rw, ErrorPayload{Error: errMsg}, statusCode)
}

// decodeJSONStrict decodes a request body into 'value', rejecting any
// field the target type doesn't declare. An empty body decodes to the
// zero value so endpoints with all-optional payloads accept bare
// requests.
func decodeJSONStrict(r *http.Request, value interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(value)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

func RegisterValidators(validate *validator.Validate) error {
	return validate.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		return isValidPhoneNumber(fl.Field().String())
	})
}

func isValidPhoneNumber(phoneNumber string) bool {
	return phoneNumberRegexp.MatchString(phoneNumber)
}

func offlineTimeout(settings models.WarningSettings) time.Duration {
	return time.Duration(settings.WarningThresholds.RobotOfflineTimeout) * time.Second
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server) {
	logg.Infof("Caru server is listening on port%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(deviceMonitor stoppable, server *http.Server) {
	// Stop the warning sweeps before the listener goes away
	deviceMonitor.Stop()

	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Fatalf("Caru server shutdown failed:%+s", err)
	}

	logg.Infof("Caru server stopped properly")
}

type stoppable interface {
	Stop()
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}

func seedProfile(name, phone, email string) models.UserProfile {
	if name == "" {
		name = "Demo User"
	}
	if phone == "" {
		phone = "+15005550006"
	}
	if email == "" {
		email = "demo@example.com"
	}

	return models.UserProfile{
		ID:    "1",
		Name:  name,
		Phone: phone,
		Email: email,
		NotificationPreferences: models.NotificationPreferences{
			Email: true,
			SMS:   true,
			Push:  false,
		},
	}
}
