package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permit-portal/config"
	"permit-portal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestVerificationURL(t *testing.T) {
	config.AppConfig.PublicBaseURL = "https://permits.council.edu"
	defer func() { config.AppConfig.PublicBaseURL = "" }()

	assert.Equal(t,
		"https://permits.council.edu/verify-permit?code=PMT-ABC-1",
		VerificationURL("PMT-ABC-1"))
}

func TestVerificationArtifact_ProducesPNG(t *testing.T) {
	png, err := VerificationArtifact("PMT-ABC-1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "artifact must be a PNG image")
}

func renderedPermit() *models.Permit {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.Permit{
		Code:      "PMT-ABC-1",
		Student:   *testProfile(),
		Status:    models.PermitActive,
		IssuedAt:  issued,
		ExpiresAt: issued.AddDate(0, 0, 180),
	}
}

func TestRenderPermitDocument(t *testing.T) {
	permit := renderedPermit()

	png, err := VerificationArtifact(permit.Code)
	require.NoError(t, err)

	doc, filename, err := RenderPermitDocument(permit, png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "output must be a PDF")
	assert.Equal(t, "permit_PMT-ABC-1_2026.pdf", filename)

	// Re-rendering yields the same filename.
	_, again, err := RenderPermitDocument(permit, png)
	require.NoError(t, err)
	assert.Equal(t, filename, again)
}

func TestRenderPermitDocument_NoArtifact(t *testing.T) {
	doc, _, err := RenderPermitDocument(renderedPermit(), nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
