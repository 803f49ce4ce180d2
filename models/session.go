package models

import "net/url"

// ResumeToken is the serializable state that survives the gateway redirect.
// The browser comes back carrying only URL query parameters, so everything
// the verification engine needs to resume must be derivable from this token
// plus the database. It is consumed once at engine entry.
type ResumeToken struct {
	Reference  string `json:"reference,omitempty"`
	PermitCode string `json:"permit_code,omitempty"`
}

// ParseResumeToken extracts a resume token from callback query parameters.
// The gateway appends its own parameter names on redirect, so both our
// canonical names and the gateway's are accepted.
func ParseResumeToken(q url.Values) ResumeToken {
	ref := q.Get("reference")
	if ref == "" {
		ref = q.Get("razorpay_payment_link_id")
	}
	return ResumeToken{
		Reference:  ref,
		PermitCode: q.Get("code"),
	}
}

// Empty reports whether the token carries neither a reference nor a permit
// code, i.e. the browser arrived here without going through checkout.
func (t ResumeToken) Empty() bool {
	return t.Reference == "" && t.PermitCode == ""
}

// Session carries the frozen student profile between workflow stages in
// place of ambient page state. Stages read from it; only the form stage
// writes it, once.
type Session struct {
	Profile *StudentProfile `json:"profile"`
	Token   ResumeToken     `json:"token"`
}
