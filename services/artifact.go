package services

import (
	"fmt"
	"net/url"

	"permit-portal/config"
	"permit-portal/errors"

	qrcode "github.com/skip2/go-qrcode"
)

// VerificationURL builds the URL a scanned artifact re-enters the lookup
// endpoint with. It depends only on the permit code, so the artifact is
// regenerable at any time without stored state.
func VerificationURL(code string) string {
	return fmt.Sprintf("%s/verify-permit?code=%s", config.AppConfig.PublicBaseURL, url.QueryEscape(code))
}

// VerificationArtifact renders the scannable QR image for a permit code.
func VerificationArtifact(code string) ([]byte, error) {
	png, err := qrcode.Encode(VerificationURL(code), qrcode.Medium, 256)
	if err != nil {
		return nil, errors.E(errors.RenderFailed, "could not generate verification code image", err)
	}
	return png, nil
}
