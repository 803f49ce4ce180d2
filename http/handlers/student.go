package handlers

import (
	"net/http"

	"permit-portal/services"
	"permit-portal/utils"
)

// ResolveStudent answers the request form's identifier lookup. An unknown
// identifier is a 200 with found=false and a notice so the form falls
// back to manual entry; only infrastructure failures are errors.
func ResolveStudent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendError(w, http.StatusMethodNotAllowed, utils.ErrorDetail{
			Code: "VALIDATION", Message: "method not allowed",
		})
		return
	}

	result, err := services.Students.Resolve(r.Context(), r.URL.Query().Get("student_id"))
	if err != nil {
		utils.SendTypedError(w, err)
		return
	}

	utils.SendSuccess(w, http.StatusOK, "", result)
}
