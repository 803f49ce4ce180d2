package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_ReportsDependencyState(t *testing.T) {
	// No database pool and no Kafka producer configured: the endpoint still
	// answers 200 and reports both as unavailable.
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Data   map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "down", body.Data["database"])
	assert.Equal(t, "disconnected", body.Data["kafka"])
}
