package models

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResumeToken(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  ResumeToken
	}{
		{"canonical names", "reference=plink_ab12&code=PMT-AB12", ResumeToken{Reference: "plink_ab12", PermitCode: "PMT-AB12"}},
		{"gateway redirect params", "razorpay_payment_link_id=plink_ab12&razorpay_payment_link_status=paid", ResumeToken{Reference: "plink_ab12"}},
		{"canonical wins over gateway name", "reference=plink_a&razorpay_payment_link_id=plink_b", ResumeToken{Reference: "plink_a"}},
		{"code only", "code=PMT-AB12", ResumeToken{PermitCode: "PMT-AB12"}},
		{"empty", "", ResumeToken{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ParseResumeToken(q))
		})
	}
}

func TestResumeTokenEmpty(t *testing.T) {
	assert.True(t, ResumeToken{}.Empty())
	assert.False(t, ResumeToken{Reference: "plink_x"}.Empty())
	assert.False(t, ResumeToken{PermitCode: "PMT-X1"}.Empty())
}
