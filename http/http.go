package http

import (
	"net/http"

	"permit-portal/http/handlers"
	"permit-portal/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware
func SetupRoutes() {
	http.HandleFunc("/api/health", middleware.EnableCORS(handlers.Health))

	// Student lookup for the request form
	http.HandleFunc("/api/student", middleware.EnableCORS(handlers.ResolveStudent))

	// Permit payment workflow
	http.HandleFunc("/api/permits/initiate", middleware.EnableCORS(handlers.InitiatePermitPayment))
	http.HandleFunc("/permit/verify", middleware.EnableCORS(handlers.VerifyPermitPayment))

	// Permit read side
	http.HandleFunc("/api/permits/status", middleware.EnableCORS(handlers.PermitStatus))
	http.HandleFunc("/verify-permit", middleware.EnableCORS(handlers.PermitStatus))
	http.HandleFunc("/api/permits/document", middleware.EnableCORS(handlers.PermitDocument))

	// Admin APIs
	http.HandleFunc("/api/admin/permits/export", middleware.EnableCORS(handlers.ExportPermits))
	http.HandleFunc("/api/admin/dlq/messages", middleware.EnableCORS(handlers.GetDLQMessages))
	http.HandleFunc("/api/admin/dlq/messages/retry", middleware.EnableCORS(handlers.RetryDLQMessage))
}
