package models

import (
	"strings"
	"time"
)

// Permit statuses. EXPIRED is derived from ExpiresAt at read time; rows are
// never mutated after creation.
const (
	PermitActive  = "ACTIVE"
	PermitExpired = "EXPIRED"
)

// Permit is the issued credential proving fee payment, keyed by a unique
// code derived from the gateway transaction. Created exactly once per
// successful payment; repeated get-or-create calls with the same code must
// return this same record.
type Permit struct {
	Code      string         `json:"code"`
	Reference string         `json:"reference,omitempty"`
	Student   StudentProfile `json:"student"`
	Status    string         `json:"status"`
	IssuedAt  time.Time      `json:"issued_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Expired reports whether the permit has passed its expiry date at the
// given instant.
func (p *Permit) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// EffectiveStatus derives the time-dependent status without mutating the
// stored record.
func (p *Permit) EffectiveStatus(now time.Time) string {
	if p.Expired(now) {
		return PermitExpired
	}
	return p.Status
}

// DerivePermitCode derives the permit code from a gateway transaction
// reference. The mapping is deterministic so re-entering the workflow with
// the same reference always lands on the same permit.
func DerivePermitCode(reference string) string {
	s := strings.TrimPrefix(reference, "plink_")
	return "PMT-" + strings.ToUpper(s)
}

// VerificationOutcome is the answer of the standalone lookup endpoint.
type VerificationOutcome struct {
	Valid  bool    `json:"valid"`
	Permit *Permit `json:"permit,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

// Lookup failure reasons.
const (
	ReasonNotFound  = "not found"
	ReasonExpired   = "expired"
	ReasonMalformed = "malformed code"
)
