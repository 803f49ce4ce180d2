package handlers

import (
	"net/http"
	"strconv"
	"time"

	"permit-portal/logger"
	"permit-portal/services"
	"permit-portal/utils"
)

// ExportPermits streams the issued-permit register as an xlsx workbook.
func ExportPermits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendError(w, http.StatusMethodNotAllowed, utils.ErrorDetail{
			Code: "VALIDATION", Message: "method not allowed",
		})
		return
	}

	filename := "permit_register_" + time.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	if err := services.ExportPermitRegister(r.Context(), w); err != nil {
		// Headers may already be written; log and give up on this response.
		logger.Error("Error exporting permit register: %v", err)
	}
}

// GetDLQMessages lists unresolved dead-letter messages.
func GetDLQMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendError(w, http.StatusMethodNotAllowed, utils.ErrorDetail{
			Code: "VALIDATION", Message: "method not allowed",
		})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	messages, err := services.GetDLQMessages(limit)
	if err != nil {
		utils.SendError(w, http.StatusInternalServerError, utils.ErrorDetail{
			Code: "INTERNAL", Message: "could not read DLQ messages",
		})
		return
	}

	utils.SendSuccess(w, http.StatusOK, "", map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

// RetryDLQMessage republishes a dead-letter message by id.
func RetryDLQMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendError(w, http.StatusMethodNotAllowed, utils.ErrorDetail{
			Code: "VALIDATION", Message: "method not allowed",
		})
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		utils.SendError(w, http.StatusBadRequest, utils.ErrorDetail{
			Code: "VALIDATION", Message: "id query parameter is required",
		})
		return
	}

	if err := services.RetryDLQMessage(id); err != nil {
		utils.SendError(w, http.StatusInternalServerError, utils.ErrorDetail{
			Code: "INTERNAL", Message: err.Error(), Retryable: true,
		})
		return
	}

	utils.SendSuccess(w, http.StatusOK, "Message republished", nil)
}
