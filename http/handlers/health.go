package handlers

import (
	"net/http"

	"permit-portal/db"
	"permit-portal/services"
	"permit-portal/utils"
)

// Health reports liveness and the state of the service's dependencies.
// Kafka being down does not degrade the workflow (publishes fall back to
// the DLQ table), so it is reported but never fails the check.
func Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "down"
	if db.DB != nil {
		if err := db.DB.PingContext(r.Context()); err == nil {
			dbStatus = "up"
		}
	}

	kafkaStatus := "disconnected"
	if services.IsConnected() {
		kafkaStatus = "connected"
	}

	utils.SendSuccess(w, http.StatusOK, "", map[string]interface{}{
		"database": dbStatus,
		"kafka":    kafkaStatus,
	})
}
